package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/auth"
	"github.com/sahilchouksey/skills-lab/utils/middleware"
	"github.com/sahilchouksey/skills-lab/utils/response"
)

// SessionRequest carries the identity provider's ID token
type SessionRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionResponse is returned by sign-in and refresh
type SessionResponse struct {
	User   *model.User     `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
	// Created is true on the very first sign-in of this principal
	Created bool `json:"created"`
}

// SignIn handles POST /api/v1/auth/session
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return response.ValidationError(c, errs)
	}

	ctx := c.UserContext()
	principal, err := h.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		h.throttle.RecordFailure(ctx, c.IP())
		h.log.Warn("identity token rejected", "ip", c.IP(), "error", err)
		return response.Unauthorized(c, "Sign-in failed. Please sign in with your Google account again.")
	}
	h.throttle.RecordSuccess(ctx, c.IP())

	user, created, err := h.profiles.SignIn(ctx, *principal)
	if err != nil {
		h.log.Error("sign-in failed", "email", principal.Email, "error", err)
		return response.InternalServerError(c, "Failed to sign in")
	}

	if _, err := h.categories.EnsureDefaults(ctx, user.ID); err != nil {
		// categories can still be created by hand
		h.log.Warn("failed to seed default categories", "user_id", user.ID, "error", err)
	}

	tokens, err := h.issue(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}

	return response.Success(c, SessionResponse{User: user, Tokens: tokens, Created: created})
}

// Refresh handles POST /api/v1/auth/refresh. The presented refresh token is
// revoked and a new pair is issued.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if errs := h.validator.ValidateStruct(req); errs != nil {
		return response.ValidationError(c, errs)
	}

	claims, err := h.jwtManager.ValidateTyped(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	ctx := c.UserContext()
	revoked, err := h.profiles.SessionRevoked(ctx, claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check token status")
	}
	if revoked {
		return response.Unauthorized(c, "Token has been revoked")
	}

	user, err := h.profiles.GetProfile(ctx, claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "User not found")
	}
	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	if err := h.profiles.RevokeSession(ctx, user.ID, claims.ID, claims.ExpiresAt.Time); err != nil {
		return response.InternalServerError(c, "Failed to rotate refresh token")
	}

	tokens, err := h.issue(user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Success(c, SessionResponse{User: user, Tokens: tokens})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	if err := h.profiles.SignOut(c.UserContext(), claims.UserID, claims.ID, claims.ExpiresAt.Time); err != nil {
		h.log.Error("failed to sign out", "user_id", claims.UserID, "error", err)
		return response.InternalServerError(c, "Failed to sign out")
	}

	return response.SuccessWithMessage(c, "Signed out", nil)
}

func (h *AuthHandler) issue(user *model.User) (*auth.TokenPair, error) {
	tokens, err := h.jwtManager.IssuePair(auth.Subject{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		h.log.Error("failed to issue tokens", "user_id", user.ID, "error", err)
	}
	return tokens, err
}
