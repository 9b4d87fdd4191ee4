package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/apetrov/linechat/internal/common/constants"
)

func TestGenerateSaltSizeAndUniqueness(t *testing.T) {
	h := NewIteratedHasher()

	saltA, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}
	saltB, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}

	if saltA == saltB {
		t.Fatal("two generated salts are identical")
	}

	raw, err := base64.StdEncoding.DecodeString(saltA)
	if err != nil {
		t.Fatalf("salt is not valid base64: %v", err)
	}
	if len(raw) != constants.SaltSizeBytes {
		t.Fatalf("salt is %d bytes, want %d", len(raw), constants.SaltSizeBytes)
	}
}

func TestHashIsDeterministicPerSalt(t *testing.T) {
	h := NewIteratedHasher()

	hashA, err := h.Hash("password1", "saltsalt")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	hashB, err := h.Hash("password1", "saltsalt")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hashA != hashB {
		t.Fatal("same password and salt produced different hashes")
	}

	hashC, err := h.Hash("password1", "othersalt")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hashA == hashC {
		t.Fatal("different salts produced the same hash")
	}
}

func TestCompareRoundTrip(t *testing.T) {
	h := NewIteratedHasher()

	salt, err := h.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt returned error: %v", err)
	}
	hash, err := h.Hash("password1", salt)
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if err := h.Compare(hash, "password1", salt); err != nil {
		t.Fatalf("Compare rejected the correct password: %v", err)
	}
	if err := h.Compare(hash, "password2", salt); err == nil {
		t.Fatal("Compare accepted a wrong password")
	}
	if err := h.Compare(hash, "password1", "wrongsalt"); err == nil {
		t.Fatal("Compare accepted a wrong salt")
	}
}
