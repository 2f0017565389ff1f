// Package storage persists uploaded file content. Keys are flat names chosen
// by the caller; metadata lives elsewhere.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var ErrInvalidKey = errors.New("storage: invalid key")

// BlobStore is implemented by LocalStore and S3Store.
type BlobStore interface {
	// Put streams r under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Name() string
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return ErrInvalidKey
	}
	return nil
}
