package domain_test

import (
	"sync"
	"testing"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultSession(t *testing.T) {
	s := domain.NewVaultSession()
	require.True(t, s.IsLocked())
	require.Equal(t, "locked", s.State().String())

	_, err := s.MasterKey()
	require.ErrorIs(t, err, domain.ErrVaultLocked)
	_, err = s.VaultID()
	require.ErrorIs(t, err, domain.ErrVaultLocked)

	key := []byte{1, 2, 3, 4}
	s.Unlock(key, "66687aadf862bd77")
	require.Equal(t, domain.VaultUnlocked, s.State())

	key[0] = 9
	got, err := s.MasterKey()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got)

	got[1] = 9
	again, err := s.MasterKey()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, again)

	vaultID, err := s.VaultID()
	require.NoError(t, err)
	require.Equal(t, "66687aadf862bd77", vaultID)

	s.Lock()
	require.True(t, s.IsLocked())
	_, err = s.MasterKey()
	require.ErrorIs(t, err, domain.ErrVaultLocked)
}

func TestVaultSessionConcurrentAccess(t *testing.T) {
	s := domain.NewVaultSession()
	wg := &sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.Unlock([]byte{byte(i)}, "0000000000000000")
			} else {
				s.Lock()
			}
		}(i)
		go func() {
			defer wg.Done()
			if key, err := s.MasterKey(); err == nil {
				assert.Len(t, key, 1)
			}
		}()
	}
	wg.Wait()
}
