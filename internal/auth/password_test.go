package auth

import (
	"errors"
	"testing"
)

func TestVerifyPassword_NullStoredPassword(t *testing.T) {
	err := VerifyPassword(nil, "anything")
	if !errors.Is(err, ErrWrongAuthMethod) {
		t.Fatalf("expected ErrWrongAuthMethod, got %v", err)
	}
}

func TestVerifyPassword_PlaintextLegacyRows(t *testing.T) {
	stored := "legacy-password"

	if err := VerifyPassword(&stored, "legacy-password"); err != nil {
		t.Fatalf("matching plaintext must pass: %v", err)
	}
	if err := VerifyPassword(&stored, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestVerifyPassword_BcryptHash(t *testing.T) {
	hashed, err := HashPassword("s3cret-value")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if err := VerifyPassword(&hashed, "s3cret-value"); err != nil {
		t.Fatalf("matching bcrypt must pass: %v", err)
	}
	if err := VerifyPassword(&hashed, "wrong"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestRoleRanking(t *testing.T) {
	cases := []struct {
		role Role
		min  Role
		ok   bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleSuperadmin, false},
		{RoleAdmin, RoleUser, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleSuperadmin, false},
		{RoleSuperadmin, RoleUser, true},
		{RoleSuperadmin, RoleAdmin, true},
		{RoleSuperadmin, RoleSuperadmin, true},
		{Role("unknown"), RoleUser, false},
	}

	for _, tc := range cases {
		if got := tc.role.AtLeast(tc.min); got != tc.ok {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tc.role, tc.min, got, tc.ok)
		}
	}
}
