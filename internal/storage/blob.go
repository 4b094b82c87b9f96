package storage

import "io"

// BlobStore keeps uploaded source documents so a quiz can be traced back
// to the material it was generated from.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
}
