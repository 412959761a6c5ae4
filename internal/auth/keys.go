package auth

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingSecret is returned when a signing secret is absent.
var ErrMissingSecret = errors.New("signing secret not configured")

// ErrSharedSecret is returned when access and refresh secrets are identical.
var ErrSharedSecret = errors.New("access and refresh secrets must differ")

// SigningKeys holds the per-kind HMAC secrets.
type SigningKeys struct {
	access  []byte
	refresh []byte
}

// NewSigningKeys validates and stores both secrets.
func NewSigningKeys(accessSecret, refreshSecret string) (*SigningKeys, error) {
	if strings.TrimSpace(accessSecret) == "" {
		return nil, fmt.Errorf("access token: %w", ErrMissingSecret)
	}
	if strings.TrimSpace(refreshSecret) == "" {
		return nil, fmt.Errorf("refresh token: %w", ErrMissingSecret)
	}
	if accessSecret == refreshSecret {
		return nil, ErrSharedSecret
	}
	return &SigningKeys{access: []byte(accessSecret), refresh: []byte(refreshSecret)}, nil
}

// Secret returns the secret bound to kind.
func (k *SigningKeys) Secret(kind Kind) ([]byte, error) {
	switch kind {
	case KindAccess:
		return k.access, nil
	case KindRefresh:
		return k.refresh, nil
	default:
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}
}
