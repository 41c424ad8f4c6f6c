package httpinterface

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/permavault/permavault-daemon/internal/core/domain"
)

func (h *handler) exportBackup(c echo.Context) error {
	export, err := h.backup.Export(c.Request().Context())
	if err != nil {
		return err
	}

	filename := fmt.Sprintf(
		"permavault-backup-%s.json",
		time.UnixMilli(export.ExportDate).UTC().Format("2006-01-02"),
	)
	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", filename),
	)
	return c.JSON(http.StatusOK, export)
}

// importBackup always answers with the import result. Failures that
// happen after the vault check are reported with status 400.
func (h *handler) importBackup(c echo.Context) error {
	merge := false
	if m := c.QueryParam("merge"); m != "" {
		var err error
		if merge, err = strconv.ParseBool(m); err != nil {
			return errInvalidMerge
		}
	}

	ctx := c.Request().Context()
	status, err := h.vault.Status(ctx)
	if err != nil {
		return err
	}
	if status.Locked {
		return domain.ErrVaultLocked
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	result := h.backup.Import(ctx, data, merge)
	if !result.Success {
		return c.JSON(http.StatusBadRequest, result)
	}
	return c.JSON(http.StatusOK, result)
}
