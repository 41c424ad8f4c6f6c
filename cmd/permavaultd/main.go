package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/permavault/permavault-daemon/internal/config"
	"github.com/permavault/permavault-daemon/internal/core/application"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/internal/infrastructure/balance"
	"github.com/permavault/permavault-daemon/internal/infrastructure/blobstore"
	"github.com/permavault/permavault-daemon/internal/infrastructure/chainkeys"
	httpinterface "github.com/permavault/permavault-daemon/internal/interfaces/http"
	"github.com/permavault/permavault-daemon/pkg/arweave"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	"github.com/permavault/permavault-daemon/pkg/explorer/esplora"
	"github.com/permavault/permavault-daemon/pkg/stats"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appConfig, err := newAppConfig(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize app services")
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}
	defer appConfig.RepoManager().Close()

	if config.GetBool(config.EnableProfilerKey) {
		interval := time.Duration(config.GetInt(config.StatsIntervalKey)) * time.Second
		statsDir := filepath.Join(config.GetDatadir(), config.ProfilerLocation)
		stats.EnableMemoryStatistics(ctx, interval, statsDir)
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Port:        config.GetInt(config.ListeningPortKey),
		VaultSvc:    appConfig.VaultService(),
		WalletSvc:   appConfig.WalletService(),
		TransferSvc: appConfig.TransferService(),
		BackupSvc:   appConfig.BackupService(),
		FileSvc:     appConfig.FileService(),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize rest interface")
	}

	log.Info("starting daemon")
	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start daemon")
	}

	if pwdFile := config.GetString(config.WalletUnlockPasswordFile); pwdFile != "" {
		if err := autoUnlock(ctx, appConfig.VaultService(), pwdFile); err != nil {
			log.WithError(err).Warn("failed to auto-unlock vault")
		} else {
			log.Info("vault unlocked from password file")
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
	appConfig.VaultService().Lock(ctx)
	svc.Stop()
	cancel()
	log.Info("exiting")
}

func newAppConfig(ctx context.Context) (*application.Config, error) {
	network, err := bitcoin.NetworkParams(config.GetString(config.NetworkKey))
	if err != nil {
		return nil, err
	}

	chainKeys, err := chainkeys.NewService(chainkeys.Config{Network: network})
	if err != nil {
		return nil, err
	}

	explorerSvc, err := esplora.NewService(esplora.Config{
		URL:            config.GetString(config.ExplorerEndpointKey),
		RequestTimeout: config.GetDuration(config.ExplorerRequestTimeoutKey),
		MaxAttempts:    config.GetInt(config.ExplorerMaxAttemptsKey),
		RateLimit:      config.GetInt(config.ExplorerRateLimitKey),
	})
	if err != nil {
		return nil, err
	}

	arweaveClient, err := arweave.NewClient(arweave.Config{
		GatewayURL:     config.GetString(config.ArweaveGatewayKey),
		RequestTimeout: config.GetDuration(config.ExplorerRequestTimeoutKey),
	})
	if err != nil {
		return nil, err
	}

	balanceProviders, err := newBalanceProviders(ctx, explorerSvc, arweaveClient)
	if err != nil {
		return nil, err
	}

	blobStore, err := newBlobStore(arweaveClient)
	if err != nil {
		return nil, err
	}

	dbType := config.GetString(config.DBTypeKey)
	var dbConfig interface{}
	if dbType != application.DBInMemory {
		dbConfig = filepath.Join(config.GetDatadir(), config.DbLocation)
	}

	return &application.Config{
		DBType:        dbType,
		DBConfig:      dbConfig,
		KdfIterations: config.GetInt(config.KdfIterationsKey),
		Network:       network,
		ChainKeys:     chainKeys,
		Explorer:      explorerSvc,
		FeeRatePolicy: bitcoin.FeeRatePolicy{
			TargetBlocks: config.GetInt(config.FeeTargetBlocksKey),
			Fallback:     config.GetFloat(config.DefaultFeeRateKey),
			Min:          config.GetFloat(config.MinFeeRateKey),
		},
		BalanceProviders: balanceProviders,
		BlobStore:        blobStore,
	}, nil
}

func newBalanceProviders(
	ctx context.Context, explorerSvc explorer.Service, arweaveClient *arweave.Client,
) ([]ports.BalanceProvider, error) {
	providers := []ports.BalanceProvider{
		balance.NewBitcoinProvider(explorerSvc),
		balance.NewArweaveProvider(arweaveClient),
	}

	if endpoint := config.GetString(config.SolanaRpcEndpointKey); endpoint != "" {
		solana, err := balance.NewSolanaProvider(endpoint)
		if err != nil {
			return nil, err
		}
		providers = append(providers, solana)
	}

	if endpoint := config.GetString(config.EthereumRpcEndpointKey); endpoint != "" {
		ethereum, err := balance.NewEthereumProvider(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		providers = append(providers, ethereum)
	}
	return providers, nil
}

func newBlobStore(arweaveClient *arweave.Client) (ports.BlobStore, error) {
	switch kind := config.GetString(config.BlobStoreKey); kind {
	case application.BlobStoreLocal:
		return blobstore.NewLocalStore(
			filepath.Join(config.GetDatadir(), config.BlobsLocation),
		)
	case application.BlobStoreArweave:
		return blobstore.NewArweaveStore(arweaveClient), nil
	default:
		return nil, fmt.Errorf("unsupported blob store %s", kind)
	}
}

func autoUnlock(
	ctx context.Context, vaultSvc application.VaultService, pwdFile string,
) error {
	buf, err := os.ReadFile(pwdFile)
	if err != nil {
		return err
	}
	password := strings.TrimSpace(string(buf))
	return vaultSvc.Unlock(ctx, password)
}
