package chainkeys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"

	"github.com/permavault/permavault-daemon/internal/core/domain"
)

var arweaveAddressRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)

// jwk is the RSA JSON Web Key format of Arweave keyfiles.
type jwk struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	D   string `json:"d"`
	P   string `json:"p"`
	Q   string `json:"q"`
	Dp  string `json:"dp"`
	Dq  string `json:"dq"`
	Qi  string `json:"qi"`
}

// arweaveManager stores secrets as the keyfile JSON.
type arweaveManager struct {
	keyBits int
}

func NewArweaveManager(keyBits int) *arweaveManager {
	return &arweaveManager{keyBits}
}

func (m *arweaveManager) Chain() domain.Chain {
	return domain.ChainArweave
}

func (m *arweaveManager) NewKey() (*domain.ChainKey, error) {
	privKey, err := rsa.GenerateKey(rand.Reader, m.keyBits)
	if err != nil {
		return nil, err
	}
	return m.fromPrivKey(privKey)
}

func (m *arweaveManager) ImportKey(raw string) (*domain.ChainKey, error) {
	key := jwk{}
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}
	privKey, err := key.toPrivateKey()
	if err != nil {
		return nil, err
	}
	return m.fromPrivKey(privKey)
}

func (m *arweaveManager) ImportMnemonic(string) (*domain.ChainKey, error) {
	return nil, ErrMnemonicNotSupported
}

func (m *arweaveManager) IsValidAddress(addr string) bool {
	return arweaveAddressRegexp.MatchString(addr)
}

func (m *arweaveManager) fromPrivKey(privKey *rsa.PrivateKey) (*domain.ChainKey, error) {
	buf, err := json.Marshal(newJWK(privKey))
	if err != nil {
		return nil, err
	}
	return &domain.ChainKey{
		Chain:   domain.ChainArweave,
		Address: arweaveAddress(&privKey.PublicKey),
		Secret:  domain.DecryptedSecret{Key: string(buf)},
	}, nil
}

// arweaveAddress is the base64url sha256 of the modulus.
func arweaveAddress(pubKey *rsa.PublicKey) string {
	hash := sha256.Sum256(pubKey.N.Bytes())
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func newJWK(privKey *rsa.PrivateKey) jwk {
	privKey.Precompute()
	enc := func(i *big.Int) string {
		return base64.RawURLEncoding.EncodeToString(i.Bytes())
	}
	return jwk{
		Kty: "RSA",
		N:   enc(privKey.N),
		E:   enc(big.NewInt(int64(privKey.E))),
		D:   enc(privKey.D),
		P:   enc(privKey.Primes[0]),
		Q:   enc(privKey.Primes[1]),
		Dp:  enc(privKey.Precomputed.Dp),
		Dq:  enc(privKey.Precomputed.Dq),
		Qi:  enc(privKey.Precomputed.Qinv),
	}
}

func (k jwk) toPrivateKey() (*rsa.PrivateKey, error) {
	if k.Kty != "RSA" {
		return nil, fmt.Errorf("%w: key type must be RSA", ErrInvalidPrivateKey)
	}

	dec := func(s string) (*big.Int, error) {
		buf, err := base64.RawURLEncoding.DecodeString(s)
		if err != nil || len(buf) == 0 {
			return nil, ErrInvalidPrivateKey
		}
		return new(big.Int).SetBytes(buf), nil
	}

	values := make([]*big.Int, 0, 5)
	for _, s := range []string{k.N, k.E, k.D, k.P, k.Q} {
		v, err := dec(s)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if !values[1].IsInt64() {
		return nil, ErrInvalidPrivateKey
	}

	privKey := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: values[0], E: int(values[1].Int64())},
		D:         values[2],
		Primes:    []*big.Int{values[3], values[4]},
	}
	if err := privKey.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrivateKey, err)
	}
	privKey.Precompute()
	return privKey, nil
}
