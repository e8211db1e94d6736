package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nguyentranbao-ct/shopping-search/internal/config"
	"github.com/nguyentranbao-ct/shopping-search/internal/models"
)

var ErrVerifierDisabled = errors.New("identity verification is not configured")

// Verifier resolves bearer tokens issued by the external identity provider.
type Verifier interface {
	Verify(token string) (*models.Identity, error)
}

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type hmacVerifier struct {
	secret []byte
}

func NewVerifier(conf *config.Config) Verifier {
	return &hmacVerifier{secret: []byte(conf.Auth.JWTSecret)}
}

func (v *hmacVerifier) Verify(token string) (*models.Identity, error) {
	if len(v.secret) == 0 {
		return nil, ErrVerifierDisabled
	}

	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if c.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}

	return &models.Identity{UserID: c.Subject, Email: c.Email}, nil
}
