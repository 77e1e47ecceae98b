package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/chunkdeck/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStore is a KeyValueStore over a map that counts writes.
type mapStore struct {
	mu       sync.Mutex
	data     map[string][]byte
	modified map[string]time.Time
	sets     int
	failSet  error
}

func newMapStore() *mapStore {
	return &mapStore{data: map[string][]byte{}, modified: map[string]time.Time{}}
}

func (m *mapStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *mapStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	m.modified[key] = time.Now()
	return nil
}

func (m *mapStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.modified, key)
	return nil
}

func (m *mapStore) ModifiedAt(ctx context.Context, key string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts, ok := m.modified[key]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return ts, nil
}

func (m *mapStore) Close() error { return nil }

func TestDocumentKey(t *testing.T) {
	assert.Equal(t, "AL_records_VA==", DocumentKey("T"))
	assert.Equal(t, "AL_records_", DocumentKey(""))

	key := DocumentKey("消耗精力 / notes")
	decoded, err := base64.StdEncoding.DecodeString(key[len(DocumentKeyPrefix):])
	require.NoError(t, err)
	assert.Equal(t, "消耗精力 / notes", string(decoded))

	assert.NotEqual(t, DocumentKey("a"), DocumentKey("b"))
	assert.NotEqual(t, DocumentKey("ab"), DocumentKey("a b"))
}

func TestDocumentRepository_PutGet(t *testing.T) {
	ctx := context.Background()
	kv := newMapStore()
	repo := NewDocumentRepository(kv)

	doc := core.DefaultDocument()
	doc.Footer = "footer"
	require.NoError(t, repo.PutDocument(ctx, doc))

	_, ok := kv.data[DocumentKey(doc.Title)]
	assert.True(t, ok)

	loaded, err := repo.GetDocument(ctx, doc.Title)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	_, err = repo.DocumentSavedAt(ctx, doc.Title)
	assert.NoError(t, err)
}

func TestDocumentRepository_StoresCompactJSON(t *testing.T) {
	ctx := context.Background()
	kv := newMapStore()
	repo := NewDocumentRepository(kv)

	doc := core.DefaultDocument()
	doc.Footer = "footer"
	require.NoError(t, repo.PutDocument(ctx, doc))

	expected, err := core.EncodeDocument(doc)
	require.NoError(t, err)
	stored := kv.data[DocumentKey(doc.Title)]
	assert.Equal(t, expected, stored)
	assert.NotContains(t, string(stored), "\n")
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(newMapStore())

	_, err := repo.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetWorkingCopy(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.DocumentSavedAt(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentRepository_GetLegacy(t *testing.T) {
	ctx := context.Background()
	kv := newMapStore()
	repo := NewDocumentRepository(kv)

	kv.data[DocumentKey("legacy")] = []byte(`[{"id": "r1", "level": "-", "front": "f", "back": "b", "additions": []}]`)

	doc, err := repo.GetDocument(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, core.LatestVersion, doc.Version)
	assert.Equal(t, "", doc.Title)
	require.Len(t, doc.Records, 1)
}

func TestDocumentRepository_GetMalformed(t *testing.T) {
	ctx := context.Background()
	kv := newMapStore()
	repo := NewDocumentRepository(kv)

	kv.data[DocumentKey("bad")] = []byte(`{"version": 2, "records": [`)

	_, err := repo.GetDocument(ctx, "bad")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerializationFailed)
	assert.ErrorIs(t, err, core.ErrMalformedDocument)
}

func TestDocumentRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentRepository(newMapStore())

	doc := core.NewChunkDocument("gone")
	require.NoError(t, repo.PutDocument(ctx, doc))
	require.NoError(t, repo.DeleteDocument(ctx, "gone"))

	_, err := repo.GetDocument(ctx, "gone")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, repo.DeleteDocument(ctx, "never-existed"))
}

func TestDocumentRepository_PutNil(t *testing.T) {
	repo := NewDocumentRepository(newMapStore())
	assert.ErrorIs(t, repo.PutDocument(context.Background(), nil), ErrNilDocument)
	assert.ErrorIs(t, repo.PutWorkingCopy(context.Background(), nil), ErrNilDocument)
}

func TestDocumentRepository_WorkingCopyDedupe(t *testing.T) {
	ctx := context.Background()
	kv := newMapStore()
	repo := NewDocumentRepository(kv)

	doc := core.DefaultDocument()
	require.NoError(t, repo.PutWorkingCopy(ctx, doc))
	require.NoError(t, repo.PutWorkingCopy(ctx, doc))
	assert.Equal(t, 1, kv.sets, "identical working copy should be written once")

	doc.AddRecord()
	require.NoError(t, repo.PutWorkingCopy(ctx, doc))
	assert.Equal(t, 2, kv.sets)

	loaded, err := repo.GetWorkingCopy(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestDocumentRepository_WorkingCopyFailedWriteRetries(t *testing.T) {
	ctx := context.Background()
	kv := newMapStore()
	repo := NewDocumentRepository(kv)

	kv.failSet = errors.New("disk full")
	doc := core.NewChunkDocument("T")
	assert.Error(t, repo.PutWorkingCopy(ctx, doc))

	kv.failSet = nil
	require.NoError(t, repo.PutWorkingCopy(ctx, doc))
	assert.Equal(t, 1, kv.sets)
}

func TestDocumentRepository_Registry(t *testing.T) {
	ctx := context.Background()
	kv := newMapStore()
	repo := NewDocumentRepository(kv)

	titles, err := repo.GetRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, titles)

	require.NoError(t, repo.PutRegistry(ctx, []string{"a", "b"}))
	assert.Equal(t, `["a","b"]`, string(kv.data[RegistryKey]))

	titles, err = repo.GetRegistry(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, titles)

	require.NoError(t, repo.PutRegistry(ctx, nil))
	assert.Equal(t, `[]`, string(kv.data[RegistryKey]))
}

func TestUnmarshalRegistry_Invalid(t *testing.T) {
	_, err := UnmarshalRegistry([]byte(`{"not": "an array"}`))
	assert.ErrorIs(t, err, ErrSerializationFailed)

	titles, err := UnmarshalRegistry([]byte(`null`))
	require.NoError(t, err)
	assert.Equal(t, []string{}, titles)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("document"))
	assert.Len(t, a, 32)
	assert.Equal(t, a, Fingerprint([]byte("document")))
	assert.NotEqual(t, a, Fingerprint([]byte("document2")))
}
