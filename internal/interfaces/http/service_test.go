package httpinterface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/labstack/echo/v4"
	"github.com/permavault/permavault-daemon/internal/core/application"
	"github.com/permavault/permavault-daemon/internal/infrastructure/blobstore"
	"github.com/permavault/permavault-daemon/internal/infrastructure/chainkeys"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	"github.com/stretchr/testify/require"
)

const (
	password = "correct horse battery staple"
	ethKey   = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	ethAddr  = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

type unreachableExplorer struct{}

func (unreachableExplorer) GetUnspents(context.Context, string) ([]explorer.Utxo, error) {
	return nil, explorer.ErrUpstreamUnavailable
}

func (unreachableExplorer) GetFeeEstimates(context.Context) (explorer.FeeEstimates, error) {
	return nil, explorer.ErrUpstreamUnavailable
}

func (unreachableExplorer) GetBalance(context.Context, string) (int64, error) {
	return 0, explorer.ErrUpstreamUnavailable
}

func (unreachableExplorer) BroadcastTransaction(context.Context, string) (string, error) {
	return "", explorer.ErrUpstreamUnavailable
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	network := &chaincfg.RegressionNetParams
	chainKeys, err := chainkeys.NewService(chainkeys.Config{
		Network:        network,
		ArweaveKeyBits: 1024,
	})
	require.NoError(t, err)
	blobs, err := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	appConfig := &application.Config{
		DBType:        application.DBInMemory,
		KdfIterations: 1000,
		Network:       network,
		ChainKeys:     chainKeys,
		Explorer:      unreachableExplorer{},
		FeeRatePolicy: bitcoin.DefaultFeeRatePolicy(),
		BlobStore:     blobs,
	}
	require.NoError(t, appConfig.Validate())

	opts := ServiceOpts{
		Port:        9090,
		VaultSvc:    appConfig.VaultService(),
		WalletSvc:   appConfig.WalletService(),
		TransferSvc: appConfig.TransferService(),
		BackupSvc:   appConfig.BackupService(),
		FileSvc:     appConfig.FileService(),
	}
	require.NoError(t, opts.validate())
	return newRouter(opts)
}

func doRequest(
	t *testing.T, e *echo.Echo, method, path string, body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func unlock(t *testing.T, e *echo.Echo) {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/v1/unlock", passwordRequest{password})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestVaultRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(t, e, http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	var status statusResponse
	decode(t, rec, &status)
	require.True(t, status.Locked)
	require.Empty(t, status.VaultID)

	rec = doRequest(t, e, http.MethodGet, "/v1/wallets", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	var errResp errorResponse
	decode(t, rec, &errResp)
	require.NotEmpty(t, errResp.Error)
	require.Equal(t, rec.Header().Get(echo.HeaderXRequestID), errResp.RequestID)

	rec = doRequest(t, e, http.MethodPost, "/v1/unlock", passwordRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/unlock", passwordRequest{password})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &status)
	require.False(t, status.Locked)
	require.Len(t, status.VaultID, 16)
	require.True(t, status.HasSalt)

	rec = doRequest(t, e, http.MethodPost, "/v1/lock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &status)
	require.True(t, status.Locked)
}

func TestWalletRoutes(t *testing.T) {
	e := newTestRouter(t)
	unlock(t, e)

	rec := doRequest(t, e, http.MethodPost, "/v1/wallets", createWalletRequest{
		Chain: "bitcoin", Alias: "savings",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var btcWallet walletResponse
	decode(t, rec, &btcWallet)
	require.Equal(t, "savings", btcWallet.Alias)
	require.Equal(t, "bitcoin", btcWallet.Chain.String())

	rec = doRequest(t, e, http.MethodPost, "/v1/wallets", createWalletRequest{
		Chain: "dogecoin",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/wallets/import", importWalletRequest{
		Key: ethKey, Alias: "imported",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ethWallet walletResponse
	decode(t, rec, &ethWallet)
	require.True(t, bytes.EqualFold([]byte(ethAddr), []byte(ethWallet.Address)))

	rec = doRequest(t, e, http.MethodPost, "/v1/wallets/import", importWalletRequest{
		Key: ethKey,
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/wallets/import", importWalletRequest{
		Key: "not a key",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/wallets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var wallets walletsResponse
	decode(t, rec, &wallets)
	require.Len(t, wallets.Wallets, 2)

	walletPath := "/v1/wallets/" + jsonNumber(ethWallet.ID)

	rec = doRequest(t, e, http.MethodPatch, walletPath, updateWalletRequest{"hot"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated walletResponse
	decode(t, rec, &updated)
	require.Equal(t, "hot", updated.Alias)

	rec = doRequest(t, e, http.MethodGet, walletPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/wallets/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/wallets/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(
		t, e, http.MethodPost, walletPath+"/reveal", passwordRequest{"wrong"},
	)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(
		t, e, http.MethodPost, walletPath+"/reveal", passwordRequest{password},
	)
	require.Equal(t, http.StatusOK, rec.Code)
	var secret secretResponse
	decode(t, rec, &secret)
	require.NotEmpty(t, secret.Key)

	rec = doRequest(t, e, http.MethodGet, walletPath+"/qr?size=128", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = doRequest(t, e, http.MethodGet, walletPath+"/qr?size=10", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balances balancesResponse
	decode(t, rec, &balances)
	require.Len(t, balances.Balances, 2)
	for _, b := range balances.Balances {
		require.NotEmpty(t, b.Error)
	}

	rec = doRequest(t, e, http.MethodPut, "/v1/settings/active-address",
		activeAddressRequest{ethWallet.Address},
	)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, e, http.MethodPut, "/v1/settings/use-external",
		useExternalRequest{true},
	)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settings settingsResponse
	decode(t, rec, &settings)
	require.Equal(t, ethWallet.Address, settings.ActiveAddress)
	require.True(t, settings.UseExternal)

	rec = doRequest(t, e, http.MethodDelete, walletPath, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/settings/active-address", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active activeAddressResponse
	decode(t, rec, &active)
	require.Empty(t, active.Address)

	rec = doRequest(t, e, http.MethodDelete, "/v1/wallets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared clearWalletsResponse
	decode(t, rec, &cleared)
	require.Equal(t, 1, cleared.Deleted)
}

func TestTransferRoutes(t *testing.T) {
	e := newTestRouter(t)
	unlock(t, e)

	rec := doRequest(t, e, http.MethodPost, "/v1/wallets/import", importWalletRequest{
		Key: ethKey,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ethWallet walletResponse
	decode(t, rec, &ethWallet)

	rec = doRequest(t, e, http.MethodPost, "/v1/wallets", createWalletRequest{
		Chain: "bitcoin",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var btcWallet walletResponse
	decode(t, rec, &btcWallet)

	rec = doRequest(t, e, http.MethodPost, "/v1/bitcoin/quote", transferRequest{
		WalletID: ethWallet.ID, To: btcWallet.Address, Amount: 10000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/bitcoin/quote", transferRequest{
		WalletID: btcWallet.ID, To: "not-an-address", Amount: 10000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/bitcoin/quote", transferRequest{
		WalletID: btcWallet.ID, To: btcWallet.Address, Amount: 10000,
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/bitcoin/send", transferRequest{
		WalletID: btcWallet.ID, To: btcWallet.Address, Amount: 10000,
		Password: "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBackupRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := doRequest(t, e, http.MethodGet, "/v1/backup/export", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	unlock(t, e)
	for _, chain := range []string{"ethereum", "solana"} {
		rec = doRequest(t, e, http.MethodPost, "/v1/wallets", createWalletRequest{
			Chain: chain,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/backup/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(
		t, rec.Header().Get(echo.HeaderContentDisposition), "permavault-backup-",
	)
	exported := rec.Body.Bytes()

	rec = doRequest(t, e, http.MethodDelete, "/v1/wallets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	importBackup := func(query string, data []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(
			http.MethodPost, "/v1/backup/import"+query, bytes.NewReader(data),
		)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec = importBackup("?merge=maybe", exported)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = importBackup("?merge=true", []byte(`{"version":"1.0.0"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = importBackup("?merge=true", exported)
	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Success         bool `json:"success"`
		ImportedWallets int  `json:"importedWallets"`
	}
	decode(t, rec, &result)
	require.True(t, result.Success)
	require.Equal(t, 2, result.ImportedWallets)

	rec = doRequest(t, e, http.MethodGet, "/v1/wallets", nil)
	var wallets walletsResponse
	decode(t, rec, &wallets)
	require.Len(t, wallets.Wallets, 2)
}

func TestFileRoutes(t *testing.T) {
	e := newTestRouter(t)
	unlock(t, e)

	upload := func(name string, data []byte) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		part, err := w.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/v1/files", body)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	content := []byte("hello permanent world")
	rec := upload("hello.txt", content)
	require.Equal(t, http.StatusCreated, rec.Code)
	var uploaded fileResponse
	decode(t, rec, &uploaded)
	require.Equal(t, "hello.txt", uploaded.Name)
	require.Equal(t, int64(len(content)), uploaded.Size)
	require.Contains(t, uploaded.ContentType, "text/plain")

	rec = upload("empty.txt", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/files", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/files?page=1&size=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var files filesResponse
	decode(t, rec, &files)
	require.Len(t, files.Files, 1)

	rec = doRequest(t, e, http.MethodGet, "/v1/files?page=x", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/files/"+uploaded.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, content, rec.Body.Bytes())
	require.Contains(
		t, rec.Header().Get(echo.HeaderContentDisposition), "hello.txt",
	)

	rec = doRequest(t, e, http.MethodGet, "/v1/files/price?size=1024", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var price priceResponse
	decode(t, rec, &price)
	require.Equal(t, "0", price.Amount)

	rec = doRequest(t, e, http.MethodGet, "/v1/files/price?size=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, "/v1/files/"+uploaded.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/files/"+uploaded.ID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsRoute(t *testing.T) {
	e := newTestRouter(t)
	unlock(t, e)

	rec := doRequest(t, e, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "permavault_vault_unlocks_total")
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot},
		{"explorer http error", &explorer.HTTPError{StatusCode: 400}, http.StatusBadGateway},
		{"wrapped insufficient balance",
			errors.Join(errors.New("plan"), bitcoin.ErrInsufficientBalance),
			http.StatusPaymentRequired},
		{"key mismatch", bitcoin.ErrKeyMismatch, http.StatusUnprocessableEntity},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.status, statusOf(tt.err))
		})
	}
}

func TestServiceOpts(t *testing.T) {
	_, err := NewService(ServiceOpts{Port: 9090})
	require.Error(t, err)

	_, err = NewService(ServiceOpts{Port: 0})
	require.Error(t, err)
}

func jsonNumber(n uint64) string {
	buf, _ := json.Marshal(n)
	return string(buf)
}
