package auth

import (
	"testing"
	"time"
)

func newTestService(t *testing.T) *AuthService {
	t.Helper()
	s, err := NewAuthService([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return s
}

func TestGenerateToken_Roundtrip(t *testing.T) {
	s := newTestService(t)

	token, err := s.GenerateToken("u1", "alice", RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "alice" || claims.Role != RoleAdmin {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestValidateToken_WrongSecretRejected(t *testing.T) {
	s := newTestService(t)
	other, err := NewAuthService([]byte("other-secret"), time.Hour)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	token, err := s.GenerateToken("u1", "alice", RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestValidateToken_ExpiredRejected(t *testing.T) {
	s, err := NewAuthService([]byte("test-secret"), time.Millisecond)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}

	token, err := s.GenerateToken("u1", "alice", RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := s.ValidateToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	if _, err := NewAuthService(nil, time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
