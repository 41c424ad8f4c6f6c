package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

type repoManager struct {
	store *badgerhold.Store

	walletRepository   domain.WalletRepository
	metadataRepository domain.MetadataRepository
	fileRepository     domain.FileRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// An empty baseDbDir opens an in-memory store.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	dbDir := ""
	if baseDbDir != "" {
		dbDir = filepath.Join(baseDbDir, "vault")
	}
	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening vault db: %w", err)
	}

	rm := &repoManager{store: store}
	rm.walletRepository = NewWalletRepositoryImpl(store)
	rm.metadataRepository = NewMetadataRepositoryImpl(store)
	rm.fileRepository = NewFileRepositoryImpl(store)
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
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close badger db")
	}
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	var opts badger.Options
	if dbDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(dbDir)
	}
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// execTx runs txBody in a read-write transaction, or in the one carried by
// ctx under the "tx" key.
func execTx(
	ctx context.Context, store *badgerhold.Store, txBody func(*badger.Txn) error,
) error {
	if tx, ok := ctx.Value("tx").(*badger.Txn); ok && tx != nil {
		return txBody(tx)
	}

	tx := store.Badger().NewTransaction(true)
	defer tx.Discard()

	if err := txBody(tx); err != nil {
		return err
	}
	return tx.Commit()
}
