package auth

import (
	"testing"
	"time"

	"medlink.com/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:    "a3f2b9d0-0000-4000-8000-000000000001",
		Email: "doc@example.com",
		Role:  model.RoleDoctor,
	}
}

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	user := testUser()

	tok, err := GenerateToken(user, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Fatalf("email mismatch: got %q want %q", claims.Email, user.Email)
	}
	if claims.Role != user.Role {
		t.Fatalf("role mismatch: got %q want %q", claims.Role, user.Role)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")

	tok, err := GenerateToken(testUser(), secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken(tok, secret); err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(testUser(), []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if _, err := ParseToken(tok, []byte("wrong-secret")); err == nil {
		t.Fatal("expected error for invalid signature, got nil")
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("not.a.jwt", []byte("k")); err == nil {
		t.Fatal("expected error for malformed token, got nil")
	}
}
