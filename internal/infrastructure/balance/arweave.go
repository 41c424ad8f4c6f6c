package balance

import (
	"context"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/pkg/arweave"
	"github.com/permavault/permavault-daemon/pkg/mathutil"
)

type arweaveProvider struct {
	client *arweave.Client
}

func NewArweaveProvider(client *arweave.Client) ports.BalanceProvider {
	return &arweaveProvider{client}
}

func (p *arweaveProvider) Chain() domain.Chain {
	return domain.ChainArweave
}

func (p *arweaveProvider) GetBalance(
	ctx context.Context, address string,
) (ports.Balance, error) {
	winston, err := p.client.GetBalance(ctx, address)
	if err != nil {
		return nil, err
	}
	ar, err := mathutil.WinstonToAR(winston)
	if err != nil {
		return nil, err
	}
	return newBalance(domain.ChainArweave, address, winston, ar), nil
}
