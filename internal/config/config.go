package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/permavault/permavault-daemon/internal/core/application"
	"github.com/permavault/permavault-daemon/pkg/bitcoin"

	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// ListeningPortKey is the port where the REST interface will listen on
	ListeningPortKey = "LISTEN_PORT"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// NetworkKey is the Bitcoin network, one of mainnet, testnet, regtest
	NetworkKey = "NETWORK"
	// ExplorerEndpointKey is the base url of the Esplora explorer
	ExplorerEndpointKey = "EXPLORER_ENDPOINT"
	// ExplorerRequestTimeoutKey is the timeout of a single explorer request
	ExplorerRequestTimeoutKey = "EXPLORER_REQUEST_TIMEOUT"
	// ExplorerMaxAttemptsKey is the number of attempts for explorer GET requests
	ExplorerMaxAttemptsKey = "EXPLORER_MAX_ATTEMPTS"
	// ExplorerRateLimitKey is the max number of explorer requests per second
	ExplorerRateLimitKey = "EXPLORER_RATE_LIMIT"
	// FeeTargetBlocksKey is the confirmation target used to pick the fee rate
	FeeTargetBlocksKey = "FEE_TARGET_BLOCKS"
	// DefaultFeeRateKey is the sat/vbyte rate used when estimates are unavailable
	DefaultFeeRateKey = "DEFAULT_FEE_RATE"
	// MinFeeRateKey is the sat/vbyte floor applied to any fee rate
	MinFeeRateKey = "MIN_FEE_RATE"
	// KdfIterationsKey is the number of PBKDF2 rounds for the master key
	KdfIterationsKey = "KDF_ITERATIONS"
	// BlobStoreKey selects where encrypted files are stored, local or arweave
	BlobStoreKey = "BLOB_STORE"
	// ArweaveGatewayKey is the url of the Arweave gateway
	ArweaveGatewayKey = "ARWEAVE_GATEWAY"
	// EthereumRpcEndpointKey is the JSON-RPC endpoint used for ETH balances.
	// Balances are disabled if empty.
	EthereumRpcEndpointKey = "ETHEREUM_RPC_ENDPOINT"
	// SolanaRpcEndpointKey is the JSON-RPC endpoint used for SOL balances.
	SolanaRpcEndpointKey = "SOLANA_RPC_ENDPOINT"
	// EnableProfilerKey enables the periodic print of runtime statistics
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval in seconds for printing runtime statistics
	StatsIntervalKey = "STATS_INTERVAL"
	// WalletUnlockPasswordFile defines full path to a file that contains the
	// password for unlocking the vault, if provided the vault is unlocked
	// automatically
	WalletUnlockPasswordFile = "WALLET_UNLOCK_PASSWORD_FILE"

	DbLocation       = "db"
	BlobsLocation    = "blobs"
	ProfilerLocation = "stats"

	minKdfIterations = 10000
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("permavault-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("PERMAVAULT")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(ListeningPortKey, 9090)
	vip.SetDefault(DBTypeKey, application.DBSqlite)
	vip.SetDefault(NetworkKey, bitcoin.MainNet)
	vip.SetDefault(ExplorerEndpointKey, "https://blockstream.info/api")
	vip.SetDefault(ExplorerRequestTimeoutKey, 15*time.Second)
	vip.SetDefault(ExplorerMaxAttemptsKey, 3)
	vip.SetDefault(ExplorerRateLimitKey, 10)
	vip.SetDefault(FeeTargetBlocksKey, bitcoin.DefaultFeeTargetBlocks)
	vip.SetDefault(DefaultFeeRateKey, bitcoin.DefaultFeeRate)
	vip.SetDefault(MinFeeRateKey, bitcoin.MinFeeRate)
	vip.SetDefault(KdfIterationsKey, 100000)
	vip.SetDefault(BlobStoreKey, application.BlobStoreLocal)
	vip.SetDefault(ArweaveGatewayKey, "https://arweave.net")
	vip.SetDefault(SolanaRpcEndpointKey, "https://api.mainnet-beta.solana.com")
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetFloat(key string) float64 {
	return vip.GetFloat64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := bitcoin.NetworkParams(GetString(NetworkKey)); err != nil {
		return err
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("unsupported db type %s", dbType)
	}

	blobStore := GetString(BlobStoreKey)
	if _, ok := application.SupportedBlobStore[blobStore]; !ok {
		return fmt.Errorf("unsupported blob store %s", blobStore)
	}

	minFeeRate := GetFloat(MinFeeRateKey)
	if minFeeRate < 1 {
		return fmt.Errorf("%s must be equal or greater than 1", MinFeeRateKey)
	}
	if GetFloat(DefaultFeeRateKey) < minFeeRate {
		return fmt.Errorf(
			"%s must be equal or greater than %s", DefaultFeeRateKey, MinFeeRateKey,
		)
	}

	if GetInt(KdfIterationsKey) < minKdfIterations {
		return fmt.Errorf(
			"%s must be equal or greater than %d", KdfIterationsKey, minKdfIterations,
		)
	}

	if GetInt(ExplorerMaxAttemptsKey) < 1 {
		return fmt.Errorf("%s must be at least 1", ExplorerMaxAttemptsKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	if GetString(BlobStoreKey) == application.BlobStoreLocal {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, BlobsLocation)); err != nil {
			return err
		}
	}

	if GetBool(EnableProfilerKey) {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
