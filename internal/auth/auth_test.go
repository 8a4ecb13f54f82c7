package auth

import (
	"errors"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("family-secret")
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	if hash == "family-secret" {
		t.Fatal("hash must not equal the password")
	}

	if err := CheckPassword(hash, "family-secret"); err != nil {
		t.Errorf("CheckPassword(correct) error: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrBadCredentials", err)
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	ti := NewTokenIssuer([]byte("test-secret"), time.Hour)

	token, err := ti.Issue("parent")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	sub, err := ti.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if sub != "parent" {
		t.Errorf("subject = %q, want parent", sub)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer([]byte("secret-a"), time.Hour).Issue("parent")
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewTokenIssuer([]byte("secret-b"), time.Hour).Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	ti := NewTokenIssuer([]byte("test-secret"), time.Minute)
	ti.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }

	token, err := ti.Issue("parent")
	if err != nil {
		t.Fatal(err)
	}

	ti.now = func() time.Time { return time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC) }
	if _, err := ti.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	ti := NewTokenIssuer([]byte("test-secret"), time.Hour)
	if _, err := ti.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}
