package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestIssueReturnsBothKinds(t *testing.T) {
	codec, clock := newTestCodec(t)
	issuer := NewIssuer(codec)

	pair, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.Access.Kind != KindAccess || pair.Refresh.Kind != KindRefresh {
		t.Fatalf("kinds = %s/%s", pair.Access.Kind, pair.Refresh.Kind)
	}
	if pair.Access.Token == pair.Refresh.Token {
		t.Fatal("access and refresh tokens must differ")
	}
	if want := clock.now.Add(30 * time.Minute); !pair.Access.ExpiresAt.Equal(want) {
		t.Fatalf("access expiresAt = %v, want %v", pair.Access.ExpiresAt, want)
	}
	if want := clock.now.Add(7 * 24 * time.Hour); !pair.Refresh.ExpiresAt.Equal(want) {
		t.Fatalf("refresh expiresAt = %v, want %v", pair.Refresh.ExpiresAt, want)
	}

	subject, err := codec.Verify(pair.Access.Token, KindAccess)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if subject != "user-42" {
		t.Fatalf("subject = %q, want user-42", subject)
	}
}

func TestIssuedExpiryMatchesEmbeddedClaim(t *testing.T) {
	codec, _ := newTestCodec(t)
	pair, err := NewIssuer(codec).Issue("user-9")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, cred := range []Credential{pair.Access, pair.Refresh} {
		claims := &Claims{}
		if _, _, err := jwt.NewParser().ParseUnverified(cred.Token, claims); err != nil {
			t.Fatalf("parse %s: %v", cred.Kind, err)
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(cred.ExpiresAt) {
			t.Fatalf("%s: embedded exp %v != issued %v", cred.Kind, claims.ExpiresAt, cred.ExpiresAt)
		}
		if claims.UserID != "user-9" {
			t.Fatalf("%s: userId = %q", cred.Kind, claims.UserID)
		}
	}
}

func TestIssueAccessOnly(t *testing.T) {
	codec, _ := newTestCodec(t)
	cred, err := NewIssuer(codec).IssueAccess("user-3")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	if cred.Kind != KindAccess {
		t.Fatalf("kind = %s", cred.Kind)
	}
	if _, err := codec.Verify(cred.Token, KindRefresh); err == nil {
		t.Fatal("access credential accepted as refresh")
	}
}
