package services

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.Contains(hash, "$") {
		t.Fatalf("hash missing salt separator: %q", hash)
	}

	match, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !match {
		t.Fatal("expected matching password to verify")
	}

	match, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if match {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if first == second {
		t.Fatal("expected different salts to produce different hashes")
	}
}

func TestVerifyPasswordBadFormat(t *testing.T) {
	if _, err := VerifyPassword("not-a-valid-hash", "anything"); err == nil {
		t.Fatal("expected error for malformed stored hash")
	}
}
