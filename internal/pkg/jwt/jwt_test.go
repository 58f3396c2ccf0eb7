package jwt

import (
	"strings"
	"testing"
	"time"
)

func TestCreateVerifyRoundTrip(t *testing.T) {
	codec := NewCodec([]byte("test-secret"), time.Hour)
	token, expire, err := codec.Create(42, "alice", []string{"user"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !expire.After(time.Now()) {
		t.Fatalf("expire not in the future: %v", expire)
	}
	claims, err := codec.Verify("Bearer " + token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.AccountID != 42 {
		t.Fatalf("unexpected account id: %d", claims.AccountID)
	}
	if claims.Name != "alice" {
		t.Fatalf("unexpected name: %s", claims.Name)
	}
	if len(claims.Authorities) != 1 || claims.Authorities[0] != "user" {
		t.Fatalf("unexpected authorities: %v", claims.Authorities)
	}
	if claims.ID() == "" {
		t.Fatal("empty jti")
	}
}

func TestVerifyRejectsMissingBearerPrefix(t *testing.T) {
	codec := NewCodec([]byte("test-secret"), time.Hour)
	token, _, err := codec.Create(1, "bob", []string{"user"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, header := range []string{"", token, "bearer " + token, "Token " + token} {
		if _, err := codec.Verify(header); err == nil {
			t.Fatalf("verify accepted header %q", header)
		}
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := NewCodec([]byte("test-secret"), time.Hour)
	token, _, err := codec.Create(1, "bob", []string{"user"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := codec.Verify("Bearer " + tampered); err == nil {
		t.Fatal("verify accepted tampered token")
	}
	if _, err := codec.Verify("Bearer not.a.token"); err == nil {
		t.Fatal("verify accepted malformed token")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewCodec([]byte("secret-a"), time.Hour)
	verifier := NewCodec([]byte("secret-b"), time.Hour)
	token, _, err := issuer.Create(1, "bob", []string{"user"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := verifier.Verify("Bearer " + token); err == nil {
		t.Fatal("verify accepted token signed with another secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := NewCodec([]byte("test-secret"), -time.Minute)
	token, _, err := codec.Create(1, "bob", []string{"user"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := codec.Verify("Bearer " + token); err == nil {
		t.Fatal("verify accepted expired token")
	}
}

func TestVerifyFailureIsUniform(t *testing.T) {
	codec := NewCodec([]byte("test-secret"), -time.Minute)
	token, _, err := codec.Create(1, "bob", []string{"user"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, expiredErr := codec.Verify("Bearer " + token)
	_, malformedErr := codec.Verify("Bearer garbage")
	if expiredErr != ErrInvalidToken || malformedErr != ErrInvalidToken {
		t.Fatalf("expected uniform %v, got %v and %v", ErrInvalidToken, expiredErr, malformedErr)
	}
	if strings.Contains(expiredErr.Error(), "expired") {
		t.Fatalf("error leaks failure detail: %v", expiredErr)
	}
}
