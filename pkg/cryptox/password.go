package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2Hasher hashes raw credentials into PHC-format Argon2id strings. The
// pepper is appended to every credential before hashing and is never stored
// next to the hashes.
type Argon2Hasher struct {
	Pepper string
}

// NewArgon2Hasher returns a hasher using the pepper stored at pepperFile.
func NewArgon2Hasher(pepperFile string) (*Argon2Hasher, error) {
	pepper, err := LoadOrCreatePepper(pepperFile)
	if err != nil {
		return nil, err
	}
	return &Argon2Hasher{Pepper: pepper}, nil
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *Argon2Hasher) Hash(raw string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey([]byte(raw+h.Pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}
