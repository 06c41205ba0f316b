package store

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/auth"
)

func TestEnsureUser_CreatesExternalAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user, err := s.EnsureUser(ctx, "ext-123", "alice")
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	if user.Role != string(auth.RoleUser) {
		t.Fatalf("expected role user, got %q", user.Role)
	}
	if user.Password != nil {
		t.Fatal("external account must have NULL password")
	}
}

func TestEnsureUser_ExistingRowIsReturnedUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.EnsureUser(ctx, "ext-123", "alice"); err != nil {
		t.Fatalf("first ensure: %v", err)
	}

	user, err := s.EnsureUser(ctx, "ext-123", "renamed")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("existing row must not be rewritten, got username %q", user.Username)
	}
}

func TestFetchUserByName_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.FetchUserByName(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
