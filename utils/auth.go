package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Token purposes
const (
	PurposeSession = "session"
	PurposeReset   = "reset"
)

// ErrInvalidToken is returned for malformed, expired or wrong-purpose tokens
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims
type Claims struct {
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.StandardClaims
}

// TokenIssuer signs and verifies HS256 tokens with one secret
type TokenIssuer struct {
	key        []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenIssuer builds an issuer. Session tokens live 24h, reset tokens 1h.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{
		key:        []byte(secret),
		sessionTTL: 24 * time.Hour,
		resetTTL:   time.Hour,
		now:        time.Now,
	}
}

// GenerateJWT generates a token for a user
func (t *TokenIssuer) GenerateJWT(userID, email, purpose string) (string, error) {
	ttl := t.sessionTTL
	if purpose == PurposeReset {
		ttl = t.resetTTL
	}
	now := t.now()
	claims := &Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// ParseJWT verifies a token and checks it was issued for purpose
func (t *TokenIssuer) ParseJWT(tokenStr, purpose string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
