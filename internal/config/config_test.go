package config_test

import (
	"path/filepath"
	"testing"

	"github.com/permavault/permavault-daemon/internal/config"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		datadir := t.TempDir()
		t.Setenv("PERMAVAULT_DATADIR", datadir)

		require.NoError(t, config.InitConfig())
		require.Equal(t, datadir, config.GetDatadir())
		require.Equal(t, "sqlite", config.GetString(config.DBTypeKey))
		require.Equal(t, 3, config.GetInt(config.ExplorerMaxAttemptsKey))
		require.Equal(t, 2.0, config.GetFloat(config.MinFeeRateKey))
		require.DirExists(t, filepath.Join(datadir, config.DbLocation))
		require.DirExists(t, filepath.Join(datadir, config.BlobsLocation))
	})

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown_network", map[string]string{"PERMAVAULT_NETWORK": "signet"}},
		{"unknown_db_type", map[string]string{"PERMAVAULT_DB_TYPE": "postgres"}},
		{"unknown_blob_store", map[string]string{"PERMAVAULT_BLOB_STORE": "s3"}},
		{"min_fee_rate_too_low", map[string]string{"PERMAVAULT_MIN_FEE_RATE": "0.5"}},
		{
			"default_fee_rate_below_min",
			map[string]string{
				"PERMAVAULT_MIN_FEE_RATE":     "5",
				"PERMAVAULT_DEFAULT_FEE_RATE": "3",
			},
		},
		{"too_few_iterations", map[string]string{"PERMAVAULT_KDF_ITERATIONS": "1000"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PERMAVAULT_DATADIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			require.Error(t, config.InitConfig())
		})
	}
}
