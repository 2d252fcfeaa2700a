package auth

import (
	"context"
	"errors"
	"testing"
	"time"
	"touring-route-service/internal/domain"
)

func TestVerifierRoundTrip(t *testing.T) {
	v, err := NewVerifier("s3cret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := v.Issue(domain.User{ID: "u1", Email: "rider@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	user, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != "u1" || user.Email != "rider@example.com" {
		t.Fatalf("user = %+v", user)
	}
}

func TestVerifierRejectsBadTokens(t *testing.T) {
	v, _ := NewVerifier("s3cret")
	other, _ := NewVerifier("other")

	foreign, _ := other.Issue(domain.User{ID: "u1"}, time.Hour)
	expired, _ := v.Issue(domain.User{ID: "u1"}, -time.Minute)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
	} {
		if _, err := v.Verify(token); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("%s: err = %v, want ErrUnauthenticated", name, err)
		}
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc"); !ok || tok != "abc" {
		t.Fatalf("tok=%q ok=%v", tok, ok)
	}
	for _, h := range []string{"", "Basic abc", "Bearer ", "abc"} {
		if _, ok := BearerToken(h); ok {
			t.Fatalf("%q should not yield a token", h)
		}
	}
}

func TestUserContext(t *testing.T) {
	if _, ok := UserFrom(context.Background()); ok {
		t.Fatalf("empty context has no user")
	}
	ctx := WithUser(context.Background(), domain.User{ID: "u1"})
	if u, ok := UserFrom(ctx); !ok || u.ID != "u1" {
		t.Fatalf("user = %+v ok=%v", u, ok)
	}
}
