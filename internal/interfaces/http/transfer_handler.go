package httpinterface

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *handler) quoteBitcoinTransfer(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	preview, err := h.transfer.Quote(
		c.Request().Context(), req.WalletID, req.To, req.Amount,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPreviewResponse(preview))
}

func (h *handler) sendBitcoin(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	txid, err := h.transfer.Send(
		c.Request().Context(), req.WalletID, req.To, req.Amount, req.Password,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sendResponse{txid})
}
