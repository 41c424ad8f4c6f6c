package domain

import "errors"

var (
	// ErrVaultLocked is returned when an operation requires an unlocked vault.
	ErrVaultLocked = errors.New("vault must be unlocked to perform this operation")
	// ErrNullPassword ...
	ErrNullPassword = errors.New("password must not be null")
	// ErrIncorrectPassword is the only error returned for a failed password
	// check, whatever the failing step.
	ErrIncorrectPassword = errors.New("incorrect password or decryption failed")
	// ErrWalletAlreadyExists is returned when the address is already registered
	// under the same vault.
	ErrWalletAlreadyExists = errors.New("wallet already exists in vault")
	// ErrWalletNotFound ...
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrNullAddress ...
	ErrNullAddress = errors.New("address must not be null")
	// ErrNullVaultID ...
	ErrNullVaultID = errors.New("vault id must not be null")
	// ErrNullEncryptedKey ...
	ErrNullEncryptedKey = errors.New("encrypted key must not be null")
	// ErrUnknownChain ...
	ErrUnknownChain = errors.New("unknown chain")
	// ErrMetadataNotFound ...
	ErrMetadataNotFound = errors.New("metadata not found")
	// ErrInvalidMetadataKey ...
	ErrInvalidMetadataKey = errors.New("invalid metadata key")
	// ErrFileNotFound ...
	ErrFileNotFound = errors.New("file not found")
	// ErrFileAlreadyExists ...
	ErrFileAlreadyExists = errors.New("file already exists")
	// ErrNullFileName ...
	ErrNullFileName = errors.New("file name must not be null")
	// ErrUnrecognizedKey is returned when an imported key or phrase does not
	// match the format of any supported chain.
	ErrUnrecognizedKey = errors.New(
		"input does not match any supported private key or mnemonic format",
	)
	// ErrInvalidSecret ...
	ErrInvalidSecret = errors.New("decrypted secret is malformed")
)
