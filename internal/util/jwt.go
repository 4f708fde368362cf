package util

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "_token_"

// VerificationTTL is how long an email verification link stays valid.
const VerificationTTL = 10 * time.Minute

var errMissingClaim = errors.New("token is missing required claim")

// GenerateJWT creates a session token for a given user ID.
func GenerateJWT(userID int, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT validates a session token and extracts the user ID.
func ParseJWT(tokenStr, secret string) (int, error) {
	claims, err := parse(tokenStr, secret)
	if err != nil {
		return 0, err
	}

	userIDFloat, ok := claims["id"].(float64)
	if !ok {
		return 0, errMissingClaim
	}

	return int(userIDFloat), nil
}

// GenerateVerificationToken signs a short-lived token embedding the email address.
func GenerateVerificationToken(email, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseVerificationToken validates a verification token and returns its email.
func ParseVerificationToken(tokenStr, secret string) (string, error) {
	claims, err := parse(tokenStr, secret)
	if err != nil {
		return "", err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", errMissingClaim
	}
	return email, nil
}

func parse(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}
	return claims, nil
}

// ExtractToken reads the session cookie, falling back to a bearer header.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	parts := strings.Split(auth, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return parts[1]
}
