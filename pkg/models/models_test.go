package models

import (
	"testing"
)

func TestHashPassword(t *testing.T) {
	t.Run("valid password", func(t *testing.T) {
		hash, err := HashPassword("correct-horse-battery")
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		if hash == "" || hash == "correct-horse-battery" {
			t.Error("expected non-empty hash distinct from the password")
		}
	})

	t.Run("too short", func(t *testing.T) {
		if _, err := HashPassword("short"); err != ErrPasswordTooShort {
			t.Errorf("expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("too long", func(t *testing.T) {
		long := make([]byte, MaxPasswordLength+1)
		for i := range long {
			long[i] = 'a'
		}
		if _, err := HashPassword(string(long)); err != ErrPasswordTooLong {
			t.Errorf("expected ErrPasswordTooLong, got %v", err)
		}
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !VerifyPassword("correct-horse-battery", hash) {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Error("expected non-matching password to fail")
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr error
	}{
		{
			name:    "valid",
			user:    User{Email: "alice@example.com", PasswordHash: "hash"},
			wantErr: nil,
		},
		{
			name:    "missing email",
			user:    User{PasswordHash: "hash"},
			wantErr: ErrEmailRequired,
		},
		{
			name:    "missing password hash",
			user:    User{Email: "alice@example.com"},
			wantErr: ErrPasswordHashRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.user.Validate(); err != tt.wantErr {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAllModels(t *testing.T) {
	if len(AllModels()) != 3 {
		t.Errorf("expected 3 models, got %d", len(AllModels()))
	}
}
