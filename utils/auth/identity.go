package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	ErrIdentityRejected = errors.New("identity token rejected")
	ErrEmailUnverified  = errors.New("identity email is not verified")
)

// Principal is what the identity provider vouches for after sign-in
type Principal struct {
	Subject  string
	Email    string
	Name     string
	PhotoURL string
}

// IdentityVerifier turns an identity-provider token into a Principal
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Principal, error)
}

type validateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier verifies Google Sign-In ID tokens for one OAuth client
type GoogleVerifier struct {
	audience string
	validate validateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID, validate: idtoken.Validate}
}

func (g *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*Principal, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrIdentityRejected
	}

	payload, err := g.validate(ctx, rawToken, g.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityRejected, err)
	}

	email := claimString(payload.Claims, "email")
	if email == "" {
		return nil, fmt.Errorf("%w: no email claim", ErrIdentityRejected)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, ErrEmailUnverified
	}

	return &Principal{
		Subject:  payload.Subject,
		Email:    strings.ToLower(email),
		Name:     claimString(payload.Claims, "name"),
		PhotoURL: claimString(payload.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
