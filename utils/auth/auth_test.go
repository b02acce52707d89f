package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Issuer: "skills-lab-test",
	})
}

func TestIssuePairAndValidate(t *testing.T) {
	m := testManager()
	pair, err := m.IssuePair(Subject{UserID: 42, Email: "a@b.c", Role: "learner", TokenVersion: 3})
	require.NoError(t, err)

	claims, err := m.ValidateTyped(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.NotEmpty(t, claims.ID)

	_, err = m.ValidateTyped(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	refresh, err := m.ValidateTyped(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, refresh.ID)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}

func TestValidateTokenExpired(t *testing.T) {
	m := testManager()
	issued := time.Now().Add(-48 * time.Hour)
	m.now = func() time.Time { return issued }
	pair, err := m.IssuePair(Subject{UserID: 1})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongSecretOrIssuer(t *testing.T) {
	pair, err := testManager().IssuePair(Subject{UserID: 1})
	require.NoError(t, err)

	other := NewJWTManager(JWTConfig{Secret: "other", Issuer: "skills-lab-test"})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer := NewJWTManager(JWTConfig{Secret: "test-secret", Issuer: "someone-else"})
	_, err = otherIssuer.ValidateToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func fakeGoogle(payload *idtoken.Payload, err error) *GoogleVerifier {
	return &GoogleVerifier{
		audience: "client-id",
		validate: func(ctx context.Context, token, aud string) (*idtoken.Payload, error) {
			return payload, err
		},
	}
}

func TestGoogleVerifier(t *testing.T) {
	ctx := context.Background()

	v := fakeGoogle(&idtoken.Payload{
		Subject: "1234",
		Claims: map[string]interface{}{
			"email":          "Learner@Example.com",
			"email_verified": true,
			"name":           "Learner",
			"picture":        "https://example.com/p.png",
		},
	}, nil)
	p, err := v.Verify(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "1234", p.Subject)
	assert.Equal(t, "learner@example.com", p.Email)
	assert.Equal(t, "https://example.com/p.png", p.PhotoURL)

	_, err = v.Verify(ctx, "  ")
	assert.ErrorIs(t, err, ErrIdentityRejected)

	_, err = fakeGoogle(nil, errors.New("bad signature")).Verify(ctx, "token")
	assert.ErrorIs(t, err, ErrIdentityRejected)

	_, err = fakeGoogle(&idtoken.Payload{Subject: "1", Claims: map[string]interface{}{
		"email": "x@example.com", "email_verified": false,
	}}, nil).Verify(ctx, "token")
	assert.ErrorIs(t, err, ErrEmailUnverified)
}
