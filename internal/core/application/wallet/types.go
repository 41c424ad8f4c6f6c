package wallet

import "github.com/permavault/permavault-daemon/internal/core/domain"

// Wallet is a WalletRecord without its encrypted secret.
type Wallet struct {
	ID        uint64
	Chain     domain.Chain
	Address   string
	Alias     string
	CreatedAt int64
}

func fromRecord(w domain.WalletRecord) Wallet {
	return Wallet{
		ID:        w.ID,
		Chain:     w.Chain,
		Address:   w.Address,
		Alias:     w.Alias,
		CreatedAt: w.CreatedAt,
	}
}

// Balance is the balance of a wallet. Error is set instead of the amounts
// if the balance could not be fetched.
type Balance struct {
	Wallet        Wallet
	Symbol        string
	Amount        string
	DisplayAmount string
	Error         string
}

// Settings are the per-vault user preferences.
type Settings struct {
	ActiveAddress string
	UseExternal   bool
}
