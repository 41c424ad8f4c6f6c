package httpinterface

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/permavault/permavault-daemon/internal/core/domain"
)

func parseWalletID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}

func (h *handler) listWallets(c echo.Context) error {
	wallets, err := h.wallet.ListWallets(c.Request().Context())
	if err != nil {
		return err
	}

	resp := walletsResponse{Wallets: make([]walletResponse, 0, len(wallets))}
	for _, w := range wallets {
		resp.Wallets = append(resp.Wallets, newWalletResponse(w))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handler) createWallet(c echo.Context) error {
	var req createWalletRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	w, err := h.wallet.CreateWallet(
		c.Request().Context(), domain.ParseChain(req.Chain), req.Alias,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newWalletResponse(*w))
}

func (h *handler) importWallet(c echo.Context) error {
	var req importWalletRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	w, err := h.wallet.AddWallet(
		c.Request().Context(), req.Key, req.Alias, domain.ParseChain(req.Chain),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newWalletResponse(*w))
}

func (h *handler) getWallet(c echo.Context) error {
	id, err := parseWalletID(c)
	if err != nil {
		return err
	}

	w, err := h.wallet.GetWallet(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newWalletResponse(*w))
}

func (h *handler) updateWallet(c echo.Context) error {
	id, err := parseWalletID(c)
	if err != nil {
		return err
	}
	var req updateWalletRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	w, err := h.wallet.UpdateAlias(c.Request().Context(), id, req.Alias)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newWalletResponse(*w))
}

func (h *handler) deleteWallet(c echo.Context) error {
	id, err := parseWalletID(c)
	if err != nil {
		return err
	}

	if err := h.wallet.DeleteWallet(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) clearWallets(c echo.Context) error {
	count, err := h.wallet.ClearWallets(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clearWalletsResponse{count})
}

func (h *handler) revealWallet(c echo.Context) error {
	id, err := parseWalletID(c)
	if err != nil {
		return err
	}
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	secret, err := h.wallet.RevealWallet(c.Request().Context(), id, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, secretResponse{
		Key:      secret.Key,
		Mnemonic: secret.Mnemonic,
	})
}

func (h *handler) receiveQR(c echo.Context) error {
	id, err := parseWalletID(c)
	if err != nil {
		return err
	}
	size := 0
	if s := c.QueryParam("size"); s != "" {
		if size, err = strconv.Atoi(s); err != nil {
			return errInvalidSize
		}
	}

	png, err := h.wallet.ReceiveQR(c.Request().Context(), id, size)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

func (h *handler) listBalances(c echo.Context) error {
	balances, err := h.wallet.Balances(c.Request().Context())
	if err != nil {
		return err
	}

	resp := balancesResponse{
		Balances: make([]balanceResponse, 0, len(balances)),
	}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, balanceResponse{
			WalletID:      b.Wallet.ID,
			Chain:         b.Wallet.Chain,
			Address:       b.Wallet.Address,
			Symbol:        b.Symbol,
			Amount:        b.Amount,
			DisplayAmount: b.DisplayAmount,
			Error:         b.Error,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handler) getSettings(c echo.Context) error {
	settings, err := h.wallet.GetSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settingsResponse{
		ActiveAddress: settings.ActiveAddress,
		UseExternal:   settings.UseExternal,
	})
}

func (h *handler) getActiveAddress(c echo.Context) error {
	settings, err := h.wallet.GetSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activeAddressResponse{settings.ActiveAddress})
}

func (h *handler) setActiveAddress(c echo.Context) error {
	var req activeAddressRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.wallet.SetActiveAddress(ctx, req.Address); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) setUseExternal(c echo.Context) error {
	var req useExternalRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.wallet.SetUseExternal(ctx, req.UseExternal); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
