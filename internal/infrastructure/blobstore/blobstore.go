package blobstore

import "errors"

const (
	// LocalStore keeps blobs under the daemon datadir.
	LocalStore = "local"
	// ArweaveStore reads blobs from an Arweave gateway.
	ArweaveStore = "arweave"
)

var (
	// ErrBlobNotFound ...
	ErrBlobNotFound = errors.New("blob not found")
	// ErrReadOnlyStore is returned by stores that cannot upload.
	ErrReadOnlyStore = errors.New("blob store is read-only")
	// ErrInvalidBlobID ...
	ErrInvalidBlobID = errors.New("invalid blob id")
)
