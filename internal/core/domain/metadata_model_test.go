package domain_test

import (
	"testing"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestMetadataKey(t *testing.T) {
	vaultID := "66687aadf862bd77"

	tests := []struct {
		raw      string
		expected domain.MetadataKey
	}{
		{"vault_system_salt", domain.SystemKey(domain.MetadataSystemSalt)},
		{"active_address_" + vaultID, domain.VaultKey(vaultID, domain.MetadataActiveAddress)},
		{"use_external_" + vaultID, domain.VaultKey(vaultID, domain.MetadataUseExternal)},
		// trailing segments that are not vault ids stay in the name
		{"theme_1234567890", domain.SystemKey("theme_1234567890")},
		{"active_address_66687AADF862BD77", domain.SystemKey("active_address_66687AADF862BD77")},
		{"x_" + vaultID + "_foo", domain.SystemKey("x_" + vaultID + "_foo")},
		{"_" + vaultID, domain.SystemKey("_" + vaultID)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			key, err := domain.ParseMetadataKey(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.expected, key)
			require.Equal(t, tt.raw, key.String())
		})
	}

	_, err := domain.ParseMetadataKey("  ")
	require.ErrorIs(t, err, domain.ErrInvalidMetadataKey)
}

func TestMetadataKeyWithScope(t *testing.T) {
	key := domain.VaultKey("0000000000000001", domain.MetadataActiveAddress)
	moved := key.WithScope("00000000000000ff")
	require.Equal(t, "active_address_00000000000000ff", moved.String())
	require.True(t, moved.IsVaultScoped())
	require.False(t, domain.SystemKey(domain.MetadataSystemSalt).IsVaultScoped())
}
