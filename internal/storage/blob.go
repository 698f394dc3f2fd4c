package storage

import "io"

// BlobStore holds versioned reference-data files by key.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	List(prefix string) ([]string, error) // sorted keys under prefix
}
