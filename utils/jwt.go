package utils

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey = contextKey("userID")
const RequestIDKey = contextKey("requestID")

// GenerateAccessToken issues a session token for a user id. The mini-app
// obtains one by presenting verified Telegram initData.
func GenerateAccessToken(secret string, userID uint, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is not set")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken checks the signature and registered claims and
// returns the user id.
func ValidateAccessToken(secret, tokenString string) (uint, error) {
	if secret == "" {
		return 0, errors.New("jwt secret is not set")
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	switch v := claims["id"].(type) {
	case float64:
		return uint(v), nil
	case string:
		var n uint
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, errors.New("invalid id claim")
		}
		return n, nil
	default:
		return 0, errors.New("missing id claim")
	}
}

// GetUserID extracts the authenticated user id placed into the request
// context by the auth middleware.
func GetUserID(r *http.Request) (uint, bool) {
	v := r.Context().Value(UserIDKey)
	uid, ok := v.(uint)
	return uid, ok
}
