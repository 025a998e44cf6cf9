package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltChars         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	DefaultSaltLength = 8
	DefaultIterations = 600000
)

// PasswordHasher produces salted PBKDF2-HMAC-SHA256 hashes encoded as
// "pbkdf2:sha256:<iterations>$<salt>$<hex digest>".
type PasswordHasher struct {
	Iterations int
	SaltLength int
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PasswordHasher{Iterations: iterations, SaltLength: DefaultSaltLength}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	salt, err := genSalt(h.SaltLength)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	sum := pbkdf2.Key([]byte(password), []byte(salt), h.Iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", h.Iterations, salt, hex.EncodeToString(sum)), nil
}

// Verify checks password against an encoded hash. The iteration count is read
// from the hash, so hashes written with other settings keep working.
func (h *PasswordHasher) Verify(encoded, password string) bool {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, digest := parts[0], parts[1], parts[2]

	args := strings.Split(method, ":")
	if len(args) < 2 || args[0] != "pbkdf2" || args[1] != "sha256" {
		return false
	}
	iterations := DefaultIterations
	if len(args) == 3 {
		n, err := strconv.Atoi(args[2])
		if err != nil || n <= 0 {
			return false
		}
		iterations = n
	}

	want, err := hex.DecodeString(digest)
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func genSalt(n int) (string, error) {
	if n <= 0 {
		n = DefaultSaltLength
	}
	max := big.NewInt(int64(len(saltChars)))
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltChars[idx.Int64()])
	}
	return b.String(), nil
}
