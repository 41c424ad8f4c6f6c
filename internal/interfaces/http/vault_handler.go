package httpinterface

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *handler) getStatus(c echo.Context) error {
	status, err := h.vault.Status(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newStatusResponse(status))
}

func (h *handler) unlock(c echo.Context) error {
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.vault.Unlock(ctx, req.Password); err != nil {
		return err
	}
	return h.getStatus(c)
}

func (h *handler) lock(c echo.Context) error {
	h.vault.Lock(c.Request().Context())
	return h.getStatus(c)
}
