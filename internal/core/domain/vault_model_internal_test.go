package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVaultSessionWipesKey(t *testing.T) {
	s := NewVaultSession()
	s.Unlock([]byte{1, 2, 3, 4}, "66687aadf862bd77")
	first := s.masterKey

	s.Unlock([]byte{5, 6, 7, 8}, "66687aadf862bd77")
	require.Equal(t, []byte{0, 0, 0, 0}, first)

	second := s.masterKey
	s.Lock()
	require.Equal(t, []byte{0, 0, 0, 0}, second)
	require.Nil(t, s.masterKey)
}
