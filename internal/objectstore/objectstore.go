// Package objectstore abstracts the blob storage used for raffle cover
// images. Only raffle creation writes here; the core never reads blobs
// back, it stores the resolved URL on the record.
package objectstore

import "context"

// Store accepts raw bytes under a destination path and returns a URL the
// uploaded object can be retrieved from.
type Store interface {
	Put(ctx context.Context, path string, data []byte) (url string, err error)
}
