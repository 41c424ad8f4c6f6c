package balance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/pkg/mathutil"
)

const lamportDecimals = 9

type solanaProvider struct {
	client *rpc.Client
}

func NewSolanaProvider(endpoint string) (ports.BalanceProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("missing solana rpc endpoint")
	}
	return &solanaProvider{rpc.New(endpoint)}, nil
}

func (p *solanaProvider) Chain() domain.Chain {
	return domain.ChainSolana
}

func (p *solanaProvider) GetBalance(
	ctx context.Context, address string,
) (ports.Balance, error) {
	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid solana address %s: %w", address, err)
	}
	result, err := p.client.GetBalance(ctx, pubKey, rpc.CommitmentFinalized)
	if err != nil {
		return nil, err
	}

	lamports := strconv.FormatUint(result.Value, 10)
	display, err := mathutil.ShiftDecimals(lamports, lamportDecimals)
	if err != nil {
		return nil, err
	}
	return newBalance(domain.ChainSolana, address, lamports, display), nil
}
