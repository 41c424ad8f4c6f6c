package vaultcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
)

// Envelope is the persisted form of an encrypted payload.
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// String returns the json serialization of the envelope.
func (e Envelope) String() string {
	buf, _ := json.Marshal(e)
	return string(buf)
}

// ParseEnvelope deserializes a json envelope and checks that both fields are
// valid base64.
func ParseEnvelope(blob string) (*Envelope, error) {
	env := &Envelope{}
	if err := json.Unmarshal([]byte(blob), env); err != nil {
		return nil, ErrInvalidEnvelope
	}
	if env.Ciphertext == "" || env.Nonce == "" {
		return nil, ErrInvalidEnvelope
	}
	if _, err := base64.StdEncoding.DecodeString(env.Ciphertext); err != nil {
		return nil, ErrInvalidEnvelope
	}
	if _, err := base64.StdEncoding.DecodeString(env.Nonce); err != nil {
		return nil, ErrInvalidEnvelope
	}
	return env, nil
}

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText []byte
	Key       []byte
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Key) != KeySize {
		return ErrInvalidKeyLength
	}
	return nil
}

// Encrypt encrypts (with AES-256-GCM) the plaintext with the given key. A new
// random nonce is drawn at every call.
func Encrypt(opts EncryptOpts) (*Envelope, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	gcm, err := newGCM(opts.Key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, opts.PlainText, nil)

	return &Envelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
	}, nil
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	Envelope Envelope
	Key      []byte
}

func (o DecryptOpts) validate() error {
	if len(o.Key) != KeySize {
		return ErrInvalidKeyLength
	}
	if o.Envelope.Ciphertext == "" || o.Envelope.Nonce == "" {
		return ErrInvalidEnvelope
	}
	return nil
}

// Decrypt opens the envelope with the given key. Any tag mismatch results in
// ErrAuthenticationFailed.
func Decrypt(opts DecryptOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ciphertext, err := base64.StdEncoding.DecodeString(opts.Envelope.Ciphertext)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	nonce, err := base64.StdEncoding.DecodeString(opts.Envelope.Nonce)
	if err != nil {
		return nil, ErrInvalidEnvelope
	}
	if len(nonce) != NonceSize {
		return nil, ErrInvalidNonce
	}

	gcm, err := newGCM(opts.Key)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// Seal encrypts the plaintext and returns the serialized envelope.
func Seal(plaintext, key []byte) (string, error) {
	env, err := Encrypt(EncryptOpts{PlainText: plaintext, Key: key})
	if err != nil {
		return "", err
	}
	return env.String(), nil
}

// Open parses a serialized envelope and decrypts it.
func Open(blob string, key []byte) ([]byte, error) {
	env, err := ParseEnvelope(blob)
	if err != nil {
		return nil, err
	}
	return Decrypt(DecryptOpts{Envelope: *env, Key: key})
}

func newGCM(key []byte) (cipher.AEAD, error) {
	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(blockCipher)
}
