package utils

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// AdminRole is the "role" claim an admin bearer token must carry.
const AdminRole = "admin"

// JWTAdminVerifier checks HS256 admin tokens minted by the identity provider
// that fronts the admin area.
type JWTAdminVerifier struct {
	secret []byte
}

func NewJWTAdminVerifier(secret string) *JWTAdminVerifier {
	return &JWTAdminVerifier{secret: []byte(secret)}
}

// Verify validates signature, expiry and role and returns the token subject.
func (v *JWTAdminVerifier) Verify(_ context.Context, tokenString string) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("admin token secret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != AdminRole {
		return "", errors.New("token is not an admin token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}

// GenerateAdminToken signs an admin token for local development and tests.
func GenerateAdminToken(secret, subject string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": AdminRole,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
