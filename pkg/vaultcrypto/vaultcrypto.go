package vaultcrypto

import "errors"

const (
	// KeySize is the length in bytes of a derived master key.
	KeySize = 32
	// SaltSize is the length in bytes of a freshly generated vault salt.
	SaltSize = 16
	// NonceSize is the length in bytes of the AES-GCM nonce.
	NonceSize = 12
	// DefaultIterations is the PBKDF2 round count used when none is given.
	DefaultIterations = 100000

	vaultIDLen = 16
)

// LegacySalt is the constant salt used by installations created before a
// per-install salt was persisted. It must never change.
var LegacySalt = []byte("permavault-salt!")

var (
	// ErrNullPassword ...
	ErrNullPassword = errors.New("password must not be null")
	// ErrNullSalt ...
	ErrNullSalt = errors.New("salt must not be null")
	// ErrInvalidIterations ...
	ErrInvalidIterations = errors.New("key derivation iterations must be positive")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrInvalidKeyLength ...
	ErrInvalidKeyLength = errors.New("key must be 32 bytes long")
	// ErrInvalidEnvelope ...
	ErrInvalidEnvelope = errors.New(
		"encrypted blob must be a json object with base64 ciphertext and nonce",
	)
	// ErrInvalidNonce ...
	ErrInvalidNonce = errors.New("nonce must be 12 bytes long")
	// ErrAuthenticationFailed is returned when the AEAD tag does not verify,
	// either because the key is wrong or the data was tampered with.
	ErrAuthenticationFailed = errors.New("message authentication failed")
)
