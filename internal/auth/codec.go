package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes access credentials from refresh credentials.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Validity windows. Both the embedded exp claim and the caller-visible
// expiry are derived from this table.
var ttlByKind = map[Kind]time.Duration{
	KindAccess:  30 * time.Minute,
	KindRefresh: 7 * 24 * time.Hour,
}

// TTL returns the validity window of kind, or zero for unknown kinds.
func TTL(kind Kind) time.Duration {
	return ttlByKind[kind]
}

var (
	ErrBadSignature     = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrMalformedPayload = errors.New("token payload malformed")
)

// Claims describes the JWT payload. Only the subject is carried.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for signing and verification.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec signs and verifies credentials. It holds no mutable state and is safe
// for concurrent use.
type Codec struct {
	keys *SigningKeys
	now  func() time.Time
}

// NewCodec builds a codec over the given keys.
func NewCodec(keys *SigningKeys, opts ...Option) *Codec {
	c := &Codec{keys: keys, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Sign issues a token of the given kind for subject and returns it with its expiry.
func (c *Codec) Sign(subject string, kind Kind) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("subject required")
	}
	secret, err := c.keys.Secret(kind)
	if err != nil {
		return "", time.Time{}, err
	}

	issuedAt := c.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(TTL(kind))
	claims := &Claims{
		UserID: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return tokenString, expiresAt, nil
}

// Verify checks tokenStr against the secret of kind and returns the subject.
// Errors are one of ErrBadSignature, ErrExpired or ErrMalformedPayload.
func (c *Codec) Verify(tokenStr string, kind Kind) (string, error) {
	secret, err := c.keys.Secret(kind)
	if err != nil {
		return "", err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", classify(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", ErrMalformedPayload
	}
	return claims.UserID, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrMalformedPayload
	default:
		return ErrBadSignature
	}
}
