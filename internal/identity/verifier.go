package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deckdrop/deckdrop/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
)

var ErrInvalidToken = errors.New("invalid_token")

// Verifier checks a bearer credential and resolves the caller's user ID.
// Token issuance belongs to the identity provider, not this service.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type jwtVerifier struct {
	secret []byte
}

func NewJWTVerifier(cfg config.Config) (Verifier, error) {
	secret := strings.TrimSpace(cfg.AuthJWTSecret)
	if secret == "" {
		return nil, errors.New("auth JWT secret is not configured")
	}
	return &jwtVerifier{secret: []byte(secret)}, nil
}

func (v *jwtVerifier) Verify(ctx context.Context, tokenStr string) (string, error) {
	_ = ctx

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

var Module = fx.Module("identity",
	fx.Provide(NewJWTVerifier),
)
