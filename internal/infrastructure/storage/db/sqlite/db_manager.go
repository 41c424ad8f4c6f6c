package sqlitedb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/httpfs"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	sqliteDriver       = "sqlite"
	sqliteOptionPrefix = "_pragma"
	sqliteTxLock       = "_txlock=immediate"
	maxConns           = 25
)

//go:embed migration/*.sql
var migrations embed.FS

var pragmaOptions = []string{
	"foreign_keys=on",
	"journal_mode=WAL",
	"busy_timeout=5000",
	"synchronous=full",
}

type repoManager struct {
	db *sql.DB

	walletRepository   domain.WalletRepository
	metadataRepository domain.MetadataRepository
	fileRepository     domain.FileRepository
}

// NewService opens (or creates if not exists) the sqlite db at the given path
// and applies all pending migrations.
func NewService(dbPath string) (ports.RepoManager, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("missing db path")
	}

	opts := make(url.Values)
	for _, o := range pragmaOptions {
		opts.Add(sqliteOptionPrefix, o)
	}
	dsn := fmt.Sprintf("%s?%s&%s", dbPath, opts.Encode(), sqliteTxLock)

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	if err := migrateDb(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}

	rm := &repoManager{db: db}
	rm.walletRepository = NewWalletRepositoryImpl(db, rm.execTx)
	rm.metadataRepository = NewMetadataRepositoryImpl(db)
	rm.fileRepository = NewFileRepositoryImpl(db)

	return rm, nil
}

func (r *repoManager) WalletRepository() domain.WalletRepository {
	return r.walletRepository
}

func (r *repoManager) MetadataRepository() domain.MetadataRepository {
	return r.metadataRepository
}

func (r *repoManager) FileRepository() domain.FileRepository {
	return r.fileRepository
}

func (r *repoManager) Close() {
	if err := r.db.Close(); err != nil {
		log.WithError(err).Warn("failed to close sqlite db")
	}
}

func (r *repoManager) execTx(
	ctx context.Context, txBody func(*sql.Tx) error,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Rollback is a no-op if the tx has been committed.
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	if err := txBody(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func migrateDb(db *sql.DB) error {
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return err
	}
	source, err := httpfs.New(http.FS(migrations), "migration")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("migration", source, sqliteDriver, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
