package password

import (
	"errors"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "admin123" {
		t.Fatalf("expected encoded hash, got plaintext")
	}

	if err := Verify("admin123", hash); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := Verify("wrong", hash); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	a, err := Hash("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := Hash("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct salts to produce distinct hashes")
	}
}

func TestVerify_RejectsMalformedHash(t *testing.T) {
	if err := Verify("admin123", "not-a-hash"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
