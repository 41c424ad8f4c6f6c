package httpinterface

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/permavault/permavault-daemon/internal/core/application/backup"
	"github.com/permavault/permavault-daemon/internal/core/application/file"
	"github.com/permavault/permavault-daemon/internal/core/application/transfer"
	"github.com/permavault/permavault-daemon/internal/core/application/wallet"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/infrastructure/blobstore"
	"github.com/permavault/permavault-daemon/internal/infrastructure/chainkeys"
	"github.com/permavault/permavault-daemon/pkg/arweave"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	pkgwallet "github.com/permavault/permavault-daemon/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

var (
	errInvalidID     = errors.New("invalid id")
	errInvalidSize   = errors.New("invalid size")
	errMissingFile   = errors.New("missing multipart field \"file\"")
	errInvalidMerge  = errors.New("merge must be true or false")
	errInvalidPaging = errors.New("page and size must be positive integers")
)

var errorStatus = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		errInvalidID, errInvalidSize, errMissingFile, errInvalidMerge,
		errInvalidPaging,
		domain.ErrNullPassword, domain.ErrNullAddress, domain.ErrNullVaultID,
		domain.ErrNullEncryptedKey, domain.ErrUnknownChain,
		domain.ErrInvalidMetadataKey, domain.ErrNullFileName,
		domain.ErrUnrecognizedKey,
		chainkeys.ErrMnemonicNotSupported, chainkeys.ErrInvalidPrivateKey,
		pkgwallet.ErrNullMnemonic, pkgwallet.ErrInvalidMnemonic,
		wallet.ErrInvalidQRSize, transfer.ErrNotBitcoinWallet,
		backup.ErrInvalidFormat, file.ErrEmptyFile,
		bitcoin.ErrInvalidAddress, bitcoin.ErrInvalidAmount,
		bitcoin.ErrInvalidFeeRate, bitcoin.ErrInvalidWIF,
		blobstore.ErrInvalidBlobID, arweave.ErrInvalidTxID,
	}},
	{http.StatusUnauthorized, []error{domain.ErrIncorrectPassword}},
	{http.StatusPaymentRequired, []error{bitcoin.ErrInsufficientBalance}},
	{http.StatusForbidden, []error{domain.ErrVaultLocked}},
	{http.StatusNotFound, []error{
		domain.ErrWalletNotFound, domain.ErrFileNotFound,
		domain.ErrMetadataNotFound, blobstore.ErrBlobNotFound,
		arweave.ErrNotFound,
	}},
	{http.StatusConflict, []error{
		domain.ErrWalletAlreadyExists, domain.ErrFileAlreadyExists,
	}},
	{http.StatusRequestEntityTooLarge, []error{file.ErrFileTooLarge}},
	{http.StatusUnprocessableEntity, []error{bitcoin.ErrKeyMismatch}},
	{http.StatusNotImplemented, []error{blobstore.ErrReadOnlyStore}},
	{http.StatusBadGateway, []error{
		explorer.ErrUpstreamUnavailable, explorer.ErrMalformedResponse,
		arweave.ErrGatewayUnavailable, arweave.ErrMalformedResponse,
	}},
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func statusOf(err error) int {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	var explorerErr *explorer.HTTPError
	if errors.As(err, &explorerErr) {
		return http.StatusBadGateway
	}
	for _, s := range errorStatus {
		for _, e := range s.errs {
			if errors.Is(err, e) {
				return s.status
			}
		}
	}
	return http.StatusInternalServerError
}

func messageOf(err error) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
		return http.StatusText(httpErr.Code)
	}
	return err.Error()
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := statusOf(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		log.WithError(err).WithField("request_id", requestID(c)).Warn(
			"rest request failed",
		)
	}

	resp := errorResponse{Error: messageOf(err), RequestID: requestID(c)}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, resp)
	}
	if err != nil {
		log.WithError(err).Warn("failed to write error response")
	}
}
