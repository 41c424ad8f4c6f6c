package balance

import (
	"context"
	"strconv"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	"github.com/permavault/permavault-daemon/pkg/mathutil"
)

type bitcoinProvider struct {
	explorer explorer.Service
}

// NewBitcoinProvider returns a provider backed by the esplora explorer.
func NewBitcoinProvider(explorerSvc explorer.Service) ports.BalanceProvider {
	return &bitcoinProvider{explorerSvc}
}

func (p *bitcoinProvider) Chain() domain.Chain {
	return domain.ChainBitcoin
}

func (p *bitcoinProvider) GetBalance(
	ctx context.Context, address string,
) (ports.Balance, error) {
	sats, err := p.explorer.GetBalance(ctx, address)
	if err != nil {
		return nil, err
	}
	return newBalance(
		domain.ChainBitcoin, address,
		strconv.FormatInt(sats, 10), mathutil.SatsToBTC(sats),
	), nil
}
