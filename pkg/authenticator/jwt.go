package authenticator

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/lifequest-lab/backend/config"
)

// tokenClaims carries the typed payload alongside the registered claims.
type tokenClaims[T any] struct {
	jwt.RegisteredClaims
	Data T `json:"data,omitempty"`
}

type jwtEngine[T any] struct {
	secret     string
	expiration time.Duration
}

func NewTokenEngine[T any](cfg config.TokenConfigs) TokenEngine[T] {
	return &jwtEngine[T]{secret: cfg.Secret, expiration: cfg.Expiration}
}

func (e *jwtEngine[T]) Generate(sub string, data T) (string, error) {
	now := time.Now()
	claims := tokenClaims[T]{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(e.expiration)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(e.secret))
}

func (e *jwtEngine[T]) Verify(token string) (T, error) {
	var claims tokenClaims[T]
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(e.secret), nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return claims.Data, nil
}
