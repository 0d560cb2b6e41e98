package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DevClaims mirrors the Firebase ID token claims used by the service.
type DevClaims struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Name        string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 token for subject. It is used for
// local development and tests where no Firebase project is available.
func GenerateToken(secret []byte, subject string, claims DevClaims, duration time.Duration) (string, error) {
	now := time.Now()
	claims.Subject = subject
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(duration))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken parses an HS256 token and returns its claims.
func ValidateToken(secret []byte, tokenString string) (*DevClaims, error) {
	claims := &DevClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	return claims, nil
}
