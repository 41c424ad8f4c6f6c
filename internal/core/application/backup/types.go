package backup

// FormatVersion is the version written in every export.
const FormatVersion = "1.0.0"

// Export is the backup file of a vault. Wallet ids are not exported.
type Export struct {
	Version       string           `json:"version"`
	ExportDate    int64            `json:"exportDate"`
	Wallets       []ExportedWallet `json:"wallets"`
	VaultMetadata []Metadata       `json:"vaultMetadata"`
}

type ExportedWallet struct {
	Address      string `json:"address"`
	EncryptedKey string `json:"encryptedKey"`
	Alias        string `json:"alias"`
	Chain        string `json:"chain"`
	VaultID      string `json:"vaultId"`
	CreatedAt    int64  `json:"createdAt"`
}

type Metadata struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ImportResult summarizes an import. Failures are reported in Error.
type ImportResult struct {
	Success          bool   `json:"success"`
	ImportedWallets  int    `json:"importedWallets"`
	ImportedMetadata int    `json:"importedMetadata"`
	NewVaultID       string `json:"newVaultId,omitempty"`
	Error            string `json:"error,omitempty"`
}

// importFile is the permissive shape used to detect missing fields.
type importFile struct {
	Version       *string           `json:"version"`
	ExportDate    int64             `json:"exportDate"`
	Wallets       *[]ExportedWallet `json:"wallets"`
	VaultMetadata []Metadata        `json:"vaultMetadata"`
}
