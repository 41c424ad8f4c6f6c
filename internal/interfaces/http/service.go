package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/permavault/permavault-daemon/internal/core/application"
	"github.com/permavault/permavault-daemon/internal/interfaces"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	// APIPrefix is the path prefix of every REST route but /metrics.
	APIPrefix = "/v1"

	bodyLimit       = "40M"
	shutdownTimeout = 5 * time.Second
)

type ServiceOpts struct {
	Port int

	VaultSvc    application.VaultService
	WalletSvc   application.WalletService
	TransferSvc application.TransferService
	BackupSvc   application.BackupService
	FileSvc     application.FileService
}

func (o ServiceOpts) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid listen port %d", o.Port)
	}
	if o.VaultSvc == nil {
		return fmt.Errorf("vault app service must not be null")
	}
	if o.WalletSvc == nil {
		return fmt.Errorf("wallet app service must not be null")
	}
	if o.TransferSvc == nil {
		return fmt.Errorf("transfer app service must not be null")
	}
	if o.BackupSvc == nil {
		return fmt.Errorf("backup app service must not be null")
	}
	if o.FileSvc == nil {
		return fmt.Errorf("file app service must not be null")
	}
	return nil
}

func (o ServiceOpts) address() string {
	return fmt.Sprintf(":%d", o.Port)
}

type service struct {
	opts   ServiceOpts
	server *echo.Echo
}

// NewService returns the REST interface of the daemon.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{opts, newRouter(opts)}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.address())
	if err != nil {
		return err
	}
	s.server.Listener = lis

	go func() {
		if err := s.server.Start(""); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Warn("rest interface stopped unexpectedly")
		}
	}()
	log.Infof("rest interface listening on %s", lis.Addr())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop rest interface")
	}
	log.Debug("disabled rest interface")
}

func newRouter(opts ServiceOpts) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: newRequestID,
	}))
	e.Use(logRequest)
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h := &handler{
		vault:    opts.VaultSvc,
		wallet:   opts.WalletSvc,
		transfer: opts.TransferSvc,
		backup:   opts.BackupSvc,
		file:     opts.FileSvc,
	}

	v1 := e.Group(APIPrefix)

	v1.GET("/status", h.getStatus)
	v1.POST("/unlock", h.unlock)
	v1.POST("/lock", h.lock)

	v1.GET("/wallets", h.listWallets)
	v1.POST("/wallets", h.createWallet)
	v1.DELETE("/wallets", h.clearWallets)
	v1.POST("/wallets/import", h.importWallet)
	v1.GET("/wallets/:id", h.getWallet)
	v1.PATCH("/wallets/:id", h.updateWallet)
	v1.DELETE("/wallets/:id", h.deleteWallet)
	v1.POST("/wallets/:id/reveal", h.revealWallet)
	v1.GET("/wallets/:id/qr", h.receiveQR)
	v1.GET("/balances", h.listBalances)

	v1.GET("/settings", h.getSettings)
	v1.GET("/settings/active-address", h.getActiveAddress)
	v1.PUT("/settings/active-address", h.setActiveAddress)
	v1.PUT("/settings/use-external", h.setUseExternal)

	v1.POST("/bitcoin/quote", h.quoteBitcoinTransfer)
	v1.POST("/bitcoin/send", h.sendBitcoin)

	v1.GET("/backup/export", h.exportBackup)
	v1.POST("/backup/import", h.importBackup)

	v1.GET("/files", h.listFiles)
	v1.POST("/files", h.uploadFile)
	v1.GET("/files/price", h.getUploadPrice)
	v1.GET("/files/:id", h.downloadFile)
	v1.DELETE("/files/:id", h.deleteFile)

	return e
}

type handler struct {
	vault    application.VaultService
	wallet   application.WalletService
	transfer application.TransferService
	backup   application.BackupService
	file     application.FileService
}
