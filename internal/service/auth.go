package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/storefront/internal/model/auth"
	"github.com/deppfellow/storefront/internal/server"
	"github.com/golang-jwt/jwt/v4"
)

const LoginMessage = "User Created"

// ErrInvalidToken is returned for every token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims is the payload of an issued token.
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies HS256 bearer tokens.
//
// There is no credential store: any username/password pair logs in.
type AuthService struct {
	server *server.Server
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(s *server.Server) *AuthService {
	return &AuthService{
		server: s,
		secret: []byte(s.Config.Auth.SecretKey),
		ttl:    s.Config.Auth.TokenTTL,
		now:    time.Now,
	}
}

func (a *AuthService) Login(payload *auth.LoginPayload) (*auth.LoginResponse, error) {
	token, err := a.IssueToken(payload.Username)
	if err != nil {
		return nil, err
	}
	return &auth.LoginResponse{Msg: LoginMessage, Token: token}, nil
}

// IssueToken signs a token for username that expires after the configured TTL.
func (a *AuthService) IssueToken(username string) (string, error) {
	now := a.now()
	claims := TokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm and expiry, and returns the claims.
// Every failure wraps ErrInvalidToken.
func (a *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
