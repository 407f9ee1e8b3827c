package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, forged and expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the token payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{secretKey: []byte(secret), expiresIn: expiresIn, now: time.Now}
}

// Issue returns a signed token for username and its expiry time.
func (s *TokenService) Issue(username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.expiresIn)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	slog.Info("JWT generated", "username", username, "expires_at", exp.Format(time.RFC3339))
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry and returns the principal.
func (s *TokenService) Verify(tokenStr string) (Principal, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return s.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		slog.Debug("JWT rejected", "error", err)
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Username == "" {
		return Principal{}, fmt.Errorf("%w: missing username", ErrInvalidToken)
	}
	return Principal{Username: claims.Username}, nil
}
