package application

import (
	"fmt"
	"path/filepath"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	"github.com/permavault/permavault-daemon/internal/infrastructure/blobstore"
	dbbadger "github.com/permavault/permavault-daemon/internal/infrastructure/storage/db/badger"
	"github.com/permavault/permavault-daemon/internal/infrastructure/storage/db/inmemory"
	sqlitedb "github.com/permavault/permavault-daemon/internal/infrastructure/storage/db/sqlite"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	log "github.com/sirupsen/logrus"
)

const (
	DBSqlite   = "sqlite"
	DBBadger   = "badger"
	DBInMemory = "inmemory"

	BlobStoreLocal   = blobstore.LocalStore
	BlobStoreArweave = blobstore.ArweaveStore

	sqliteDbFile = "vault.db"
)

var (
	SupportedDBType = map[string]struct{}{
		DBSqlite:   {},
		DBBadger:   {},
		DBInMemory: {},
	}
	SupportedBlobStore = map[string]struct{}{
		BlobStoreLocal:   {},
		BlobStoreArweave: {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the db directory for sqlite and badger.
	DBConfig interface{}

	KdfIterations    int
	Network          *chaincfg.Params
	ChainKeys        ports.ChainKeys
	Explorer         explorer.Service
	FeeRatePolicy    bitcoin.FeeRatePolicy
	BalanceProviders []ports.BalanceProvider
	BlobStore        ports.BlobStore

	repo     ports.RepoManager
	vault    VaultService
	wallet   WalletService
	transfer TransferService
	backup   BackupService
	file     FileService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.vaultService(); err != nil {
		return err
	}
	if _, err := c.walletService(); err != nil {
		return err
	}
	if _, err := c.transferService(); err != nil {
		return err
	}
	if _, err := c.backupService(); err != nil {
		return err
	}
	if _, err := c.fileService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) VaultService() VaultService {
	svc, _ := c.vaultService()
	return svc
}

func (c *Config) WalletService() WalletService {
	svc, _ := c.walletService()
	return svc
}

func (c *Config) TransferService() TransferService {
	svc, _ := c.transferService()
	return svc
}

func (c *Config) BackupService() BackupService {
	svc, _ := c.backupService()
	return svc
}

func (c *Config) FileService() FileService {
	svc, _ := c.fileService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		var (
			repoManager ports.RepoManager
			err         error
		)
		switch c.DBType {
		case DBSqlite:
			datadir, _ := c.DBConfig.(string)
			repoManager, err = sqlitedb.NewService(filepath.Join(datadir, sqliteDbFile))
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err = dbbadger.NewRepoManager(datadir, log.New())
		case DBInMemory:
			repoManager = inmemory.NewRepoManager()
		default:
			err = fmt.Errorf("unsupported db type %s", c.DBType)
		}
		if err != nil {
			return nil, err
		}
		c.repo = repoManager
	}
	return c.repo, nil
}

func (c *Config) vaultService() (VaultService, error) {
	if c.vault == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		vault, err := NewVaultService(repo, c.KdfIterations)
		if err != nil {
			return nil, err
		}
		c.vault = vault
	}
	return c.vault, nil
}

func (c *Config) walletService() (WalletService, error) {
	if c.wallet == nil {
		vault, err := c.vaultService()
		if err != nil {
			return nil, err
		}
		repo, _ := c.repoManager()
		wallet, err := NewWalletService(
			vault, repo, c.ChainKeys, c.BalanceProviders,
		)
		if err != nil {
			return nil, err
		}
		c.wallet = wallet
	}
	return c.wallet, nil
}

func (c *Config) transferService() (TransferService, error) {
	if c.transfer == nil {
		wallet, err := c.walletService()
		if err != nil {
			return nil, err
		}
		transfer, err := NewTransferService(
			wallet, c.Explorer, c.Network, c.FeeRatePolicy,
		)
		if err != nil {
			return nil, err
		}
		c.transfer = transfer
	}
	return c.transfer, nil
}

func (c *Config) backupService() (BackupService, error) {
	if c.backup == nil {
		vault, err := c.vaultService()
		if err != nil {
			return nil, err
		}
		repo, _ := c.repoManager()
		backup, err := NewBackupService(vault, repo)
		if err != nil {
			return nil, err
		}
		c.backup = backup
	}
	return c.backup, nil
}

func (c *Config) fileService() (FileService, error) {
	if c.file == nil {
		vault, err := c.vaultService()
		if err != nil {
			return nil, err
		}
		repo, _ := c.repoManager()
		file, err := NewFileService(vault, repo, c.BlobStore)
		if err != nil {
			return nil, err
		}
		c.file = file
	}
	return c.file, nil
}
