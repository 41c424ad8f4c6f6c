package httpinterface

import (
	"github.com/permavault/permavault-daemon/internal/core/application/transfer"
	"github.com/permavault/permavault-daemon/internal/core/application/vault"
	"github.com/permavault/permavault-daemon/internal/core/application/wallet"
	"github.com/permavault/permavault-daemon/internal/core/domain"
)

type passwordRequest struct {
	Password string `json:"password"`
}

type createWalletRequest struct {
	Chain string `json:"chain"`
	Alias string `json:"alias"`
}

type importWalletRequest struct {
	Key   string `json:"key"`
	Alias string `json:"alias"`
	// Chain is the chain a mnemonic is derived for, it is ignored for any
	// other kind of key.
	Chain string `json:"chain"`
}

type updateWalletRequest struct {
	Alias string `json:"alias"`
}

type activeAddressRequest struct {
	Address string `json:"address"`
}

type useExternalRequest struct {
	UseExternal bool `json:"useExternal"`
}

type transferRequest struct {
	WalletID uint64 `json:"walletId"`
	To       string `json:"to"`
	Amount   uint64 `json:"amount"`
	Password string `json:"password,omitempty"`
}

type statusResponse struct {
	Locked      bool   `json:"locked"`
	VaultID     string `json:"vaultId,omitempty"`
	WalletCount int    `json:"walletCount"`
	HasSalt     bool   `json:"hasSalt"`
}

func newStatusResponse(s *vault.Status) statusResponse {
	return statusResponse{
		Locked:      s.Locked,
		VaultID:     s.VaultID,
		WalletCount: s.WalletCount,
		HasSalt:     s.HasSalt,
	}
}

type walletResponse struct {
	ID        uint64       `json:"id"`
	Chain     domain.Chain `json:"chain"`
	Address   string       `json:"address"`
	Alias     string       `json:"alias"`
	CreatedAt int64        `json:"createdAt"`
}

func newWalletResponse(w wallet.Wallet) walletResponse {
	return walletResponse{
		ID:        w.ID,
		Chain:     w.Chain,
		Address:   w.Address,
		Alias:     w.Alias,
		CreatedAt: w.CreatedAt,
	}
}

type walletsResponse struct {
	Wallets []walletResponse `json:"wallets"`
}

type clearWalletsResponse struct {
	Deleted int `json:"deleted"`
}

type secretResponse struct {
	Key      string `json:"key"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

type balanceResponse struct {
	WalletID      uint64       `json:"walletId"`
	Chain         domain.Chain `json:"chain"`
	Address       string       `json:"address"`
	Symbol        string       `json:"symbol"`
	Amount        string       `json:"amount,omitempty"`
	DisplayAmount string       `json:"displayAmount,omitempty"`
	Error         string       `json:"error,omitempty"`
}

type balancesResponse struct {
	Balances []balanceResponse `json:"balances"`
}

type settingsResponse struct {
	ActiveAddress string `json:"activeAddress"`
	UseExternal   bool   `json:"useExternal"`
}

type activeAddressResponse struct {
	Address string `json:"address"`
}

type previewResponse struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Amount       uint64  `json:"amount"`
	FeeRate      float64 `json:"feeRate"`
	Vsize        uint64  `json:"vsize"`
	NumInputs    int     `json:"numInputs"`
	NumOutputs   int     `json:"numOutputs"`
	TotalInput   uint64  `json:"totalInput"`
	Fee          uint64  `json:"fee"`
	EffectiveFee uint64  `json:"effectiveFee"`
	Change       uint64  `json:"change"`
}

func newPreviewResponse(p *transfer.Preview) previewResponse {
	return previewResponse{
		From:         p.From,
		To:           p.To,
		Amount:       p.Amount,
		FeeRate:      p.FeeRate,
		Vsize:        p.Vsize,
		NumInputs:    p.NumInputs,
		NumOutputs:   p.NumOutputs,
		TotalInput:   p.TotalInput,
		Fee:          p.Fee,
		EffectiveFee: p.EffectiveFee,
		Change:       p.Change,
	}
}

type sendResponse struct {
	TxID string `json:"txid"`
}

type fileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	BlobID      string `json:"blobId"`
	CreatedAt   int64  `json:"createdAt"`
}

func newFileResponse(f domain.FileRecord) fileResponse {
	return fileResponse{
		ID:          f.ID,
		Name:        f.Name,
		ContentType: f.ContentType,
		Size:        f.Size,
		BlobID:      f.BlobID,
		CreatedAt:   f.CreatedAt,
	}
}

type filesResponse struct {
	Files []fileResponse `json:"files"`
}

type priceResponse struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit,omitempty"`
}
