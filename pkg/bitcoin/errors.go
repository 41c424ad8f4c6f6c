package bitcoin

import "errors"

var (
	// ErrInsufficientBalance is returned when the available utxos can't cover
	// the requested amount plus fees.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAddress is returned for addresses that are not bech32/bech32m
	// witness addresses of the configured network.
	ErrInvalidAddress = errors.New("invalid bitcoin address")
	// ErrKeyMismatch is returned when the signing key does not control the
	// funding address.
	ErrKeyMismatch = errors.New("key does not match account")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidFeeRate ...
	ErrInvalidFeeRate = errors.New("fee rate must be greater than zero")
	// ErrNullPlan ...
	ErrNullPlan = errors.New("transfer plan must not be null")
	// ErrNullNetwork ...
	ErrNullNetwork = errors.New("network params are null")
	// ErrInvalidWIF ...
	ErrInvalidWIF = errors.New("invalid WIF private key")
	// ErrInvalidTweak is returned in the negligible case the taproot tweak
	// overflows the curve order or yields a zero key.
	ErrInvalidTweak = errors.New("invalid taproot tweak")
	// ErrUnknownNetwork ...
	ErrUnknownNetwork = errors.New("unknown network, must be one of mainnet, testnet, regtest")
)
