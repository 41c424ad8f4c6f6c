package vaultcrypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// DeriveKeyOpts is the struct given to DeriveKey method
type DeriveKeyOpts struct {
	Password   string
	Salt       []byte
	Iterations int
}

func (o DeriveKeyOpts) validate() error {
	if len(o.Password) <= 0 {
		return ErrNullPassword
	}
	if len(o.Salt) <= 0 {
		return ErrNullSalt
	}
	if o.Iterations < 0 {
		return ErrInvalidIterations
	}
	return nil
}

// DeriveKey derives a 32 byte master key from the password and salt with
// PBKDF2-SHA256.
func DeriveKey(opts DeriveKeyOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	iterations := opts.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key(
		[]byte(opts.Password), opts.Salt, iterations, KeySize, sha256.New,
	), nil
}

// DeriveVaultID returns the first 16 hex chars of sha256(key).
func DeriveVaultID(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:])[:vaultIDLen]
}

// NewSalt returns a random salt of SaltSize bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Zero overwrites the given buffer.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
