package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret string
	jwtExpiry time.Duration
)

// InitJWT initializes the process-wide signing secret and token lifetime.
// Config loading fails fast when the secret is absent, so an empty secret
// never reaches this point.
func InitJWT(secret string, expiry time.Duration) {
	jwtSecret = secret
	jwtExpiry = expiry
}

// Claims is the signed claim set carried by every issued token: subject id,
// login email and resolved role.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues a signed HS256 token for the given principal.
func SignToken(id, email, role string) (string, error) {
	claims := Claims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyToken validates a token and returns its claims. It never returns an
// error: malformed, expired or tampered tokens all yield nil, which every
// caller treats uniformly as "unauthenticated".
func VerifyToken(tokenString string) *Claims {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims
	}
	return nil
}
