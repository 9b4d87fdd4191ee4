package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/apetrov/linechat/internal/common/constants"
	commonerrors "github.com/apetrov/linechat/internal/common/errors"
)

// PasswordHasher derives and verifies password hashes against an
// externally stored per-user salt.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(password, salt string) (string, error)
	Compare(hash, password, salt string) error
}

var ErrHashMismatch = commonerrors.NewDomainError(
	"HASH_MISMATCH",
	commonerrors.CategoryAuth,
	"password hash mismatch",
)

// IteratedHasher repeatedly digests the accumulating SHA-256 output,
// seeded once with salt+password.
type IteratedHasher struct {
	iterations int
}

func NewIteratedHasher() *IteratedHasher {
	return &IteratedHasher{iterations: constants.HashIterations}
}

func (h *IteratedHasher) GenerateSalt() (string, error) {
	salt := make([]byte, constants.SaltSizeBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

func (h *IteratedHasher) Hash(password, salt string) (string, error) {
	sum := []byte(salt + password)
	for i := 0; i < h.iterations; i++ {
		digest := sha256.Sum256(sum)
		sum = digest[:]
	}
	return base64.StdEncoding.EncodeToString(sum), nil
}

func (h *IteratedHasher) Compare(hash, password, salt string) error {
	attempt, err := h.Hash(password, salt)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(hash), []byte(attempt)) != 1 {
		return ErrHashMismatch
	}
	return nil
}
