package inmemory

import (
	"sync"

	"github.com/permavault/permavault-daemon/internal/core/domain"
	"github.com/permavault/permavault-daemon/internal/core/ports"
)

type walletInmemoryStore struct {
	wallets   map[uint64]domain.WalletRecord
	addresses map[string]uint64
	nextID    uint64
	locker    *sync.RWMutex
}

type metadataInmemoryStore struct {
	metadata map[domain.MetadataKey]string
	locker   *sync.RWMutex
}

type fileInmemoryStore struct {
	files  map[string]domain.FileRecord
	locker *sync.RWMutex
}

type repoManager struct {
	walletRepository   domain.WalletRepository
	metadataRepository domain.MetadataRepository
	fileRepository     domain.FileRepository
}

func NewRepoManager() ports.RepoManager {
	walletStore := &walletInmemoryStore{
		wallets:   map[uint64]domain.WalletRecord{},
		addresses: map[string]uint64{},
		locker:    &sync.RWMutex{},
	}
	metadataStore := &metadataInmemoryStore{
		metadata: map[domain.MetadataKey]string{},
		locker:   &sync.RWMutex{},
	}
	fileStore := &fileInmemoryStore{
		files:  map[string]domain.FileRecord{},
		locker: &sync.RWMutex{},
	}

	return &repoManager{
		walletRepository:   NewWalletRepositoryImpl(walletStore),
		metadataRepository: NewMetadataRepositoryImpl(metadataStore),
		fileRepository:     NewFileRepositoryImpl(fileStore),
	}
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

func (r *repoManager) Close() {}
