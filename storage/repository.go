package storage

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/poiesic/chunkdeck/core"
)

// documentRepository implements DocumentRepository over any KeyValueStore.
type documentRepository struct {
	kv KeyValueStore

	mu          sync.Mutex
	workingHash []byte // fingerprint of the last working copy written
}

var _ DocumentRepository = (*documentRepository)(nil)

// NewDocumentRepository creates a DocumentRepository backed by kv.
func NewDocumentRepository(kv KeyValueStore) DocumentRepository {
	return &documentRepository{kv: kv}
}

func (r *documentRepository) GetDocument(ctx context.Context, title string) (*core.ChunkDocument, error) {
	data, err := r.kv.Get(ctx, DocumentKey(title))
	if err != nil {
		return nil, err
	}
	return UnmarshalDocument(data)
}

func (r *documentRepository) PutDocument(ctx context.Context, doc *core.ChunkDocument) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, DocumentKey(doc.Title), data)
}

func (r *documentRepository) DeleteDocument(ctx context.Context, title string) error {
	return r.kv.Delete(ctx, DocumentKey(title))
}

func (r *documentRepository) DocumentSavedAt(ctx context.Context, title string) (time.Time, error) {
	return r.kv.ModifiedAt(ctx, DocumentKey(title))
}

func (r *documentRepository) GetWorkingCopy(ctx context.Context) (*core.ChunkDocument, error) {
	data, err := r.kv.Get(ctx, WorkingCopyKey)
	if err != nil {
		return nil, err
	}
	doc, err := UnmarshalDocument(data)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.workingHash = Fingerprint(data)
	r.mu.Unlock()
	return doc, nil
}

func (r *documentRepository) PutWorkingCopy(ctx context.Context, doc *core.ChunkDocument) error {
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}
	sum := Fingerprint(data)

	r.mu.Lock()
	defer r.mu.Unlock()

	if bytes.Equal(sum, r.workingHash) {
		return nil
	}
	if err := r.kv.Set(ctx, WorkingCopyKey, data); err != nil {
		return err
	}
	r.workingHash = sum
	return nil
}

func (r *documentRepository) GetRegistry(ctx context.Context) ([]string, error) {
	data, err := r.kv.Get(ctx, RegistryKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	return UnmarshalRegistry(data)
}

func (r *documentRepository) PutRegistry(ctx context.Context, titles []string) error {
	data, err := MarshalRegistry(titles)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, RegistryKey, data)
}
