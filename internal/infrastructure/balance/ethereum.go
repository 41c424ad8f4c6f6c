package balance

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/pkg/mathutil"
)

const weiDecimals = 18

type ethereumProvider struct {
	client *ethclient.Client
}

// NewEthereumProvider dials the JSON-RPC endpoint of an EVM node.
func NewEthereumProvider(
	ctx context.Context, endpoint string,
) (ports.BalanceProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("missing ethereum rpc endpoint")
	}
	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ethereum rpc: %w", err)
	}
	return &ethereumProvider{client}, nil
}

func (p *ethereumProvider) Chain() domain.Chain {
	return domain.ChainEthereum
}

func (p *ethereumProvider) GetBalance(
	ctx context.Context, address string,
) (ports.Balance, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid ethereum address %s", address)
	}
	wei, err := p.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, err
	}
	display, err := mathutil.ShiftDecimals(wei.String(), weiDecimals)
	if err != nil {
		return nil, err
	}
	return newBalance(domain.ChainEthereum, address, wei.String(), display), nil
}
