package service

import (
	"testing"
	"time"

	"github.com/deppfellow/storefront/internal/model/auth"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	svc := NewAuthService(newTestServer(t, "development"))

	res, err := svc.Login(&auth.LoginPayload{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "User Created", res.Msg)

	claims, err := svc.VerifyToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestAuthServiceRejectsOtherSecret(t *testing.T) {
	issuer := NewAuthService(newTestServer(t, "development"))
	token, err := issuer.IssueToken("alice")
	require.NoError(t, err)

	verifier := NewAuthService(newTestServer(t, "development"))
	verifier.secret = []byte("another-secret")

	_, err = verifier.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceRejectsExpired(t *testing.T) {
	svc := NewAuthService(newTestServer(t, "development"))
	svc.now = func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) }

	token, err := svc.IssueToken("alice")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthServiceRejectsOtherAlgorithm(t *testing.T) {
	svc := NewAuthService(newTestServer(t, "development"))

	claims := TokenClaims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(svc.secret)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
