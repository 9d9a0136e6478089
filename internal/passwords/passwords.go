// Package passwords hashes and verifies user passwords.
//
// The algorithm and its cost parameters are chosen through Config at
// construction time. Verification dispatches on the stored hash format, so
// hashes produced under a previous configuration keep verifying after the
// algorithm is switched.
package passwords

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// MaxBcryptInput is the number of password bytes bcrypt consumes.
// Longer inputs are truncated to this boundary before hashing and verifying.
const MaxBcryptInput = 72

var (
	ErrUnknownAlgorithm = errors.New("unknown password hashing algorithm")
	ErrMalformedHash    = errors.New("malformed password hash")
)

// Config selects the hashing algorithm and its parameters.
type Config struct {
	Algorithm     string
	BcryptCost    int
	Argon2Time    uint32
	Argon2Memory  uint32 // KiB
	Argon2Threads uint8
	Argon2KeyLen  uint32
	Argon2SaltLen int
}

// DefaultConfig returns bcrypt at its default cost.
func DefaultConfig() Config {
	return Config{
		Algorithm:     AlgorithmBcrypt,
		BcryptCost:    bcrypt.DefaultCost,
		Argon2Time:    1,
		Argon2Memory:  64 * 1024,
		Argon2Threads: 4,
		Argon2KeyLen:  32,
		Argon2SaltLen: 16,
	}
}

// Hasher hashes and verifies passwords.
type Hasher struct {
	cfg Config
}

// New creates a Hasher, validating the configuration.
func New(cfg Config) (*Hasher, error) {
	switch cfg.Algorithm {
	case AlgorithmBcrypt:
		if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case AlgorithmArgon2id:
		if cfg.Argon2Time == 0 || cfg.Argon2Memory == 0 || cfg.Argon2Threads == 0 || cfg.Argon2KeyLen == 0 || cfg.Argon2SaltLen <= 0 {
			return nil, errors.New("argon2id parameters must be positive")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, cfg.Algorithm)
	}
	return &Hasher{cfg: cfg}, nil
}

// Hash returns a one-way hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if h.cfg.Algorithm == AlgorithmArgon2id {
		return h.hashArgon2(plaintext)
	}
	hash, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash.
// A malformed or unrecognised hash is reported as a mismatch.
func (h *Hasher) Verify(plaintext, hash string) bool {
	if strings.HasPrefix(hash, "$argon2id$") {
		ok, err := verifyArgon2(plaintext, hash)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > MaxBcryptInput {
		b = b[:MaxBcryptInput]
	}
	return b
}

func (h *Hasher) hashArgon2(plaintext string) (string, error) {
	salt := make([]byte, h.cfg.Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plaintext), salt, h.cfg.Argon2Time, h.cfg.Argon2Memory, h.cfg.Argon2Threads, h.cfg.Argon2KeyLen)

	enc := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.cfg.Argon2Memory, h.cfg.Argon2Time, h.cfg.Argon2Threads,
		enc.EncodeToString(salt), enc.EncodeToString(key)), nil
}

// verifyArgon2 parses $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func verifyArgon2(plaintext, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrMalformedHash
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := enc.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(plaintext), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
