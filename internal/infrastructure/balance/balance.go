package balance

import (
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
)

type balance struct {
	chain         domain.Chain
	address       string
	amount        string
	displayAmount string
}

func newBalance(
	chain domain.Chain, address, amount, displayAmount string,
) ports.Balance {
	return balance{chain, address, amount, displayAmount}
}

func (b balance) GetChain() domain.Chain {
	return b.chain
}

func (b balance) GetAddress() string {
	return b.address
}

func (b balance) GetAmount() string {
	return b.amount
}

func (b balance) GetDisplayAmount() string {
	return b.displayAmount
}
