package auth

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"medlink.com/internal/config"
	"medlink.com/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// devSecret is substituted only in development mode when no secret is
// configured. Production refuses to start without jwt.secret.
const devSecret = "medlink-dev-only-secret"

// Claims carries the identity encoded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ResolveSecret returns the signing secret for the given config. A
// missing secret is fatal in production; in development a clearly-marked
// default is used so local setups still boot.
func ResolveSecret(cfg *config.Config) []byte {
	if cfg.JWT.Secret != "" {
		return []byte(cfg.JWT.Secret)
	}
	if cfg.IsProduction() {
		log.Fatal("jwt.secret is not configured; refusing to start in production")
	}
	log.Println("WARNING: jwt.secret not configured, using development default — do not use in production")
	return []byte(devSecret)
}

// GenerateToken signs a session token for the user with the configured
// validity window.
func GenerateToken(user *model.User, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: user.Email,
		Role:  user.Role,
	})
	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
