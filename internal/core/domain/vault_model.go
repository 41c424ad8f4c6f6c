package domain

import (
	"sync"

	"github.com/permavault/permavault-daemon/pkg/vaultcrypto"
)

// VaultState is the session lifecycle: Locked -> Unlocked -> Locked.
type VaultState int

const (
	VaultLocked VaultState = iota
	VaultUnlocked
)

func (s VaultState) String() string {
	if s == VaultUnlocked {
		return "unlocked"
	}
	return "locked"
}

// VaultSession holds the master key and the vault id of the unlocked vault.
// The zero value is a locked session.
type VaultSession struct {
	lock      sync.RWMutex
	masterKey []byte
	vaultID   string
}

func NewVaultSession() *VaultSession {
	return &VaultSession{}
}

// Unlock atomically replaces the session state. The session keeps its own
// copy of the key.
func (s *VaultSession) Unlock(masterKey []byte, vaultID string) {
	key := make([]byte, len(masterKey))
	copy(key, masterKey)

	s.lock.Lock()
	defer s.lock.Unlock()

	vaultcrypto.Zero(s.masterKey)
	s.masterKey = key
	s.vaultID = vaultID
}

// Lock wipes the master key from memory.
func (s *VaultSession) Lock() {
	s.lock.Lock()
	defer s.lock.Unlock()

	vaultcrypto.Zero(s.masterKey)
	s.masterKey = nil
	s.vaultID = ""
}

func (s *VaultSession) State() VaultState {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.masterKey == nil {
		return VaultLocked
	}
	return VaultUnlocked
}

func (s *VaultSession) IsLocked() bool {
	return s.State() == VaultLocked
}

func (s *VaultSession) VaultID() (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.masterKey == nil {
		return "", ErrVaultLocked
	}
	return s.vaultID, nil
}

// MasterKey returns a copy of the key. Callers should wipe it after use.
func (s *VaultSession) MasterKey() ([]byte, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.masterKey == nil {
		return nil, ErrVaultLocked
	}
	key := make([]byte, len(s.masterKey))
	copy(key, s.masterKey)
	return key, nil
}
