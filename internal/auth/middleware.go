package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/starbite-api/pkg/util"
)

const subjectKey = "auth_subject"

// RejectionObserver is notified whenever a guard turns a request away.
type RejectionObserver interface {
	RecordAuthRejection(guard, reason string)
}

// AccessGuard validates bearer access tokens for protected routes.
type AccessGuard struct {
	codec    *Codec
	observer RejectionObserver
}

// NewAccessGuard constructs the guard. observer may be nil.
func NewAccessGuard(codec *Codec, observer RejectionObserver) *AccessGuard {
	return &AccessGuard{codec: codec, observer: observer}
}

// Authenticate resolves an Authorization header value to a subject.
func (g *AccessGuard) Authenticate(header string) (string, error) {
	token, ok := bearerToken(header)
	if !ok {
		g.reject("missing")
		return "", apperrors.NewUnauthenticated("missing bearer token")
	}

	subject, err := g.codec.Verify(token, KindAccess)
	if err != nil {
		g.reject(reason(err))
		return "", apperrors.NewForbidden("invalid access token")
	}
	return subject, nil
}

// Handle enforces authentication for protected routes.
func (g *AccessGuard) Handle(c *fiber.Ctx) error {
	subject, err := g.Authenticate(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.Locals(subjectKey, subject)
	return c.Next()
}

func (g *AccessGuard) reject(why string) {
	if g.observer != nil {
		g.observer.RecordAuthRejection("access", why)
	}
}

// RefreshGuard validates the refresh token carried in the request body.
type RefreshGuard struct {
	codec    *Codec
	observer RejectionObserver
}

// NewRefreshGuard constructs the guard. observer may be nil.
func NewRefreshGuard(codec *Codec, observer RejectionObserver) *RefreshGuard {
	return &RefreshGuard{codec: codec, observer: observer}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

// Authenticate resolves a refresh token to a subject.
func (g *RefreshGuard) Authenticate(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		g.reject("missing")
		return "", apperrors.NewUnauthenticated("missing refresh token")
	}

	subject, err := g.codec.Verify(token, KindRefresh)
	if err != nil {
		g.reject(reason(err))
		if errors.Is(err, ErrExpired) {
			return "", apperrors.NewRefreshExpired()
		}
		return "", apperrors.NewForbidden("invalid refresh token")
	}
	return subject, nil
}

// Handle authorizes the access-token exchange.
func (g *RefreshGuard) Handle(c *fiber.Ctx) error {
	var req refreshRequest
	if len(c.Body()) > 0 {
		// an unparsable body carries no credential
		_ = c.BodyParser(&req)
	}

	subject, err := g.Authenticate(req.RefreshToken)
	if err != nil {
		return err
	}
	c.Locals(subjectKey, subject)
	return c.Next()
}

func (g *RefreshGuard) reject(why string) {
	if g.observer != nil {
		g.observer.RecordAuthRejection("refresh", why)
	}
}

// SubjectFromContext retrieves the authenticated user id.
func SubjectFromContext(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(subjectKey).(string)
	if !ok || subject == "" {
		return "", false
	}
	return subject, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	default:
		return "bad_signature"
	}
}
