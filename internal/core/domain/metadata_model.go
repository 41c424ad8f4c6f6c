package domain

import (
	"encoding/hex"
	"strings"
)

const (
	// MetadataSystemSalt is the installation-wide salt, base64 encoded.
	MetadataSystemSalt = "vault_system_salt"
	// MetadataActiveAddress is the vault-scoped address selected by the user.
	MetadataActiveAddress = "active_address"
	// MetadataUseExternal is the vault-scoped toggle for external wallets.
	MetadataUseExternal = "use_external"

	vaultIDLen = 16
	scopeSep   = "_"
)

// MetadataKey identifies a metadata row. Scope is the owning vault id, empty
// for installation-wide keys. Its persisted form is "<name>_<scope>".
type MetadataKey struct {
	Scope string
	Name  string
}

// SystemKey returns an installation-wide key.
func SystemKey(name string) MetadataKey {
	return MetadataKey{Name: name}
}

// VaultKey returns a key scoped to the given vault.
func VaultKey(vaultID, name string) MetadataKey {
	return MetadataKey{Scope: vaultID, Name: name}
}

func (k MetadataKey) IsVaultScoped() bool {
	return k.Scope != ""
}

// WithScope returns the same key moved under another vault.
func (k MetadataKey) WithScope(vaultID string) MetadataKey {
	return MetadataKey{Scope: vaultID, Name: k.Name}
}

func (k MetadataKey) String() string {
	if k.Scope == "" {
		return k.Name
	}
	return k.Name + scopeSep + k.Scope
}

// ParseMetadataKey splits a persisted key. A trailing segment is taken as
// scope only if it has the exact shape of a vault id.
func ParseMetadataKey(s string) (MetadataKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MetadataKey{}, ErrInvalidMetadataKey
	}

	i := len(s) - vaultIDLen - len(scopeSep)
	if i > 0 && s[i:i+len(scopeSep)] == scopeSep && IsVaultID(s[i+len(scopeSep):]) {
		return MetadataKey{Name: s[:i], Scope: s[i+len(scopeSep):]}, nil
	}
	return MetadataKey{Name: s}, nil
}

// IsVaultID returns whether s is 16 lowercase hex chars.
func IsVaultID(s string) bool {
	if len(s) != vaultIDLen || strings.ToLower(s) != s {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Metadata is a key-value row of the vault metadata table.
type Metadata struct {
	Key   MetadataKey
	Value string
}
