// Package storage provides the object storage boundary for uploaded images.
// Implementations take a byte buffer and a name and return a publicly
// resolvable URL; deletion is best effort and must never block database
// cleanup of the referencing row.
package storage

import "context"

// Storage stores and removes uploaded objects
type Storage interface {
	// Save writes data under pathPrefix/name and returns the public URL
	Save(ctx context.Context, pathPrefix, name string, data []byte) (string, error)
	// Delete best-effort removes the object a previous Save returned url for
	Delete(ctx context.Context, url string) error
}
