package auth

import (
	"github.com/sahilchouksey/skills-lab/services"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/validation"
)

// AuthHandler handles session and profile requests
type AuthHandler struct {
	verifier   auth.IdentityVerifier
	profiles   *services.ProfileService
	categories *services.CategoryService
	jwtManager *auth.JWTManager
	throttle   *middleware.SignInThrottle
	validator  *validation.Validator
	log        *logger.Logger
}

// NewAuthHandler creates a new auth handler. throttle may be nil.
func NewAuthHandler(
	verifier auth.IdentityVerifier,
	profiles *services.ProfileService,
	categories *services.CategoryService,
	jwtManager *auth.JWTManager,
	throttle *middleware.SignInThrottle,
	log *logger.Logger,
) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		verifier:   verifier,
		profiles:   profiles,
		categories: categories,
		jwtManager: jwtManager,
		throttle:   throttle,
		validator:  validation.NewValidator(),
		log:        log.With("component", "auth_handler"),
	}
}
