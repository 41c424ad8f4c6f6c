package bitcoin_test

import (
	"testing"

	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/stretchr/testify/require"
)

func TestEstimateVsize(t *testing.T) {
	tests := []struct {
		inputs, outputs int
		expected        uint64
	}{
		{1, 1, 111},
		{1, 2, 154},
		{2, 2, 212},
		{3, 2, 269},
		{4, 2, 327},
		{10, 2, 672},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, bitcoin.EstimateVsize(tt.inputs, tt.outputs))
	}
}

func TestEstimateFee(t *testing.T) {
	require.Equal(t, uint64(924), bitcoin.EstimateFee(154, 6))
	require.Equal(t, uint64(385), bitcoin.EstimateFee(154, 2.5))
	require.Equal(t, uint64(155), bitcoin.EstimateFee(154, 1.001))
}
