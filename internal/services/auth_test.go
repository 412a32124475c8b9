package services

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("CorrectHorse1!"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	if !verifyPassword("CorrectHorse1!", string(hash)) {
		t.Error("Expected matching bcrypt password to verify")
	}
	if verifyPassword("WrongPassword", string(hash)) {
		t.Error("Expected wrong password to fail")
	}
}

func TestVerifyPassword_LegacySHA256Fallback(t *testing.T) {
	sum := sha256.Sum256([]byte("legacy-password"))
	legacyHash := hex.EncodeToString(sum[:])

	if !verifyPassword("legacy-password", legacyHash) {
		t.Error("Expected legacy SHA-256 hash to verify")
	}
	if verifyPassword("other-password", legacyHash) {
		t.Error("Expected wrong password to fail against legacy hash")
	}
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	if verifyPassword("anything", "not-a-real-hash") {
		t.Error("Expected verification to fail for a malformed stored hash")
	}
}

func TestEmailRegex(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@sub.domain.org"}
	invalid := []string{"", "plain", "missing@tld", "@nodomain.com", "spaces in@mail.com"}

	for _, e := range valid {
		if !emailRegex.MatchString(e) {
			t.Errorf("Expected %q to be accepted", e)
		}
	}
	for _, e := range invalid {
		if emailRegex.MatchString(e) {
			t.Errorf("Expected %q to be rejected", e)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := generateToken(64)
	if err != nil {
		t.Fatal(err)
	}
	b, err := generateToken(64)
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 128 {
		t.Errorf("Expected 128 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("Expected tokens to be unique")
	}
}
