package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// WalletRecord is one chain account under custody of a vault. EncryptedKey is
// the JSON envelope holding the sealed DecryptedSecret.
type WalletRecord struct {
	ID           uint64
	Address      string
	EncryptedKey string
	Alias        string
	Chain        Chain
	VaultID      string
	CreatedAt    int64
}

// NewWalletRecord returns a record timestamped now, in unix milliseconds.
func NewWalletRecord(
	chain Chain, address, alias, encryptedKey, vaultID string,
) (*WalletRecord, error) {
	w := &WalletRecord{
		Address:      strings.TrimSpace(address),
		EncryptedKey: encryptedKey,
		Alias:        strings.TrimSpace(alias),
		Chain:        chain,
		VaultID:      vaultID,
		CreatedAt:    time.Now().UnixMilli(),
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w.Alias == "" {
		w.Alias = w.DefaultAlias()
	}
	return w, nil
}

func (w WalletRecord) Validate() error {
	if w.Address == "" {
		return ErrNullAddress
	}
	if w.VaultID == "" {
		return ErrNullVaultID
	}
	if w.EncryptedKey == "" {
		return ErrNullEncryptedKey
	}
	if !w.Chain.IsKnown() {
		return ErrUnknownChain
	}
	return nil
}

// DefaultAlias is used when a wallet is created or imported without alias.
func (w WalletRecord) DefaultAlias() string {
	addr := w.Address
	if len(addr) > 10 {
		addr = addr[:6] + "..." + addr[len(addr)-4:]
	}
	return strings.ToUpper(w.Chain.Symbol()) + " " + addr
}

// DecryptedSecret is the plaintext sealed into a WalletRecord. It must never
// be persisted as is.
type DecryptedSecret struct {
	Key      string `json:"key"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

func (s DecryptedSecret) Serialize() ([]byte, error) {
	return json.Marshal(s)
}

// ParseDecryptedSecret parses the plaintext recovered from a WalletRecord.
func ParseDecryptedSecret(buf []byte) (*DecryptedSecret, error) {
	s := &DecryptedSecret{}
	if err := json.Unmarshal(buf, s); err != nil {
		return nil, ErrInvalidSecret
	}
	if s.Key == "" {
		return nil, ErrInvalidSecret
	}
	return s, nil
}

// ChainKey is the outcome of generating or importing key material.
type ChainKey struct {
	Chain   Chain
	Address string
	Secret  DecryptedSecret
}
