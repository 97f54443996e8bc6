package storage

import "io"

// BlobStore holds uploaded documents (transcripts, resumes). Parsing them is
// someone else's job; this layer only stores bytes under a key.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}
