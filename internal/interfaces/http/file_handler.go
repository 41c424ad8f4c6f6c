package httpinterface

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/permavault/permavault-daemon/internal/core/application/file"
	"github.com/permavault/permavault-daemon/internal/core/domain"
)

func (h *handler) listFiles(c echo.Context) error {
	number, err := intQueryParam(c, "page")
	if err != nil {
		return err
	}
	size, err := intQueryParam(c, "size")
	if err != nil {
		return err
	}

	files, err := h.file.List(
		c.Request().Context(), domain.NewPage(number, size),
	)
	if err != nil {
		return err
	}

	resp := filesResponse{Files: make([]fileResponse, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, newFileResponse(f))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handler) uploadFile(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return errMissingFile
	}
	if header.Size > file.MaxFileSize {
		return file.ErrFileTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, file.MaxFileSize+1))
	if err != nil {
		return err
	}

	name := c.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	record, err := h.file.Upload(c.Request().Context(), name, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newFileResponse(*record))
}

func (h *handler) downloadFile(c echo.Context) error {
	record, data, err := h.file.Download(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", record.Name),
	)
	contentType := record.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Blob(http.StatusOK, contentType, data)
}

func (h *handler) deleteFile(c echo.Context) error {
	if err := h.file.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) getUploadPrice(c echo.Context) error {
	size, err := strconv.ParseInt(c.QueryParam("size"), 10, 64)
	if err != nil {
		return errInvalidSize
	}

	price, err := h.file.Price(c.Request().Context(), size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, priceResponse{price.Amount, price.Unit})
}

func intQueryParam(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errInvalidPaging
	}
	return n, nil
}
