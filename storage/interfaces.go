package storage

import (
	"context"
	"time"

	"github.com/poiesic/chunkdeck/core"
)

// KeyValueStore is a flat string-keyed byte store.
// Implementations must be thread-safe.
type KeyValueStore interface {
	// Get returns the value stored at key.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ModifiedAt returns when key was last written.
	// Returns ErrNotFound if the key doesn't exist.
	ModifiedAt(ctx context.Context, key string) (time.Time, error)

	// Close closes the storage backend and releases resources.
	Close() error
}

// DocumentRepository stores named documents, the working copy and the
// registry of saved titles.
type DocumentRepository interface {
	// GetDocument loads the document saved under title, migrated to the
	// latest schema version. The returned title is whatever was embedded in
	// the stored JSON; callers decide whether to trust it.
	// Returns ErrNotFound if no document is saved under title.
	GetDocument(ctx context.Context, title string) (*core.ChunkDocument, error)

	// PutDocument saves doc under doc.Title.
	PutDocument(ctx context.Context, doc *core.ChunkDocument) error

	// DeleteDocument removes the document saved under title.
	// Deleting a missing document is not an error.
	DeleteDocument(ctx context.Context, title string) error

	// DocumentSavedAt returns when the document under title was last saved.
	// Returns ErrNotFound if no document is saved under title.
	DocumentSavedAt(ctx context.Context, title string) (time.Time, error)

	// GetWorkingCopy loads the working copy.
	// Returns ErrNotFound if none has been written yet.
	GetWorkingCopy(ctx context.Context) (*core.ChunkDocument, error)

	// PutWorkingCopy writes the working copy. Writes whose encoding is
	// identical to the previous write are skipped.
	PutWorkingCopy(ctx context.Context, doc *core.ChunkDocument) error

	// GetRegistry returns the ordered list of saved titles.
	// Returns an empty list if the registry has never been written.
	GetRegistry(ctx context.Context) ([]string, error)

	// PutRegistry replaces the registry.
	PutRegistry(ctx context.Context, titles []string) error
}
