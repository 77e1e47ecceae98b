package badger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/poiesic/chunkdeck/core"
	"github.com/poiesic/chunkdeck/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

	backend, err := OpenBackend(tmpFile, false)
	assert.Error(t, err)
	assert.Nil(t, backend)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	_, err = backend.Get(context.Background(), "any")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestBackend_SetGetDelete(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	_, err = backend.Get(ctx, "AL_missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, backend.Set(ctx, "AL_key", []byte(`{"a":1}`)))
	value, err := backend.Get(ctx, "AL_key")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(value))

	require.NoError(t, backend.Set(ctx, "AL_key", []byte(`{"a":2}`)))
	value, err = backend.Get(ctx, "AL_key")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(value))

	require.NoError(t, backend.Delete(ctx, "AL_key"))
	_, err = backend.Get(ctx, "AL_key")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.NoError(t, backend.Delete(ctx, "AL_never"))
}

func TestBackend_EmptyValue(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "empty", nil))
	value, err := backend.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestBackend_ModifiedAt(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	before := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, backend.Set(ctx, "k", []byte("v")))
	after := time.Now().UTC()

	ts, err := backend.ModifiedAt(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ts.Before(before), "modified time %v before %v", ts, before)
	assert.False(t, ts.After(after), "modified time %v after %v", ts, after)

	_, err = backend.ModifiedAt(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBackend_Keys(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	for _, key := range []string{"AL_records_b", "AL_records_a", "AL_chunkDocument", "other"} {
		require.NoError(t, backend.Set(ctx, key, []byte("x")))
	}

	keys, err := backend.Keys(ctx, storage.DocumentKeyPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"AL_records_a", "AL_records_b"}, keys)

	keys, err = backend.Keys(ctx, "none_")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestBackend_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NoError(t, backend.Set(ctx, "k", []byte("durable")))
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend.Close()

	value, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "durable", string(value))
}

func TestEntry_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		entry entry
	}{
		{"empty", entry{}},
		{"json payload", entry{Payload: `{"version":2}`, UpdatedAt: time.Now().UnixMicro()}},
		{"unicode payload", entry{Payload: "消耗精力 → energy", UpdatedAt: 1}},
		{"negative time", entry{Payload: "x", UpdatedAt: -42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := marshalEntry(tt.entry)
			require.Len(t, data, entryMUS.Size(tt.entry))

			decoded, err := unmarshalEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry, decoded)

			n, err := entryMUS.Skip(data)
			require.NoError(t, err)
			assert.Equal(t, len(data), n)
		})
	}
}

func TestUnmarshalEntry_Invalid(t *testing.T) {
	_, err := unmarshalEntry([]byte{})
	assert.ErrorIs(t, err, storage.ErrSerializationFailed)
}

func TestBackend_UnreadableEntryIsLogged(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	var logs bytes.Buffer
	backend.logger = slog.New(slog.NewTextHandler(&logs, nil))

	require.NoError(t, backend.db.Update(func(tx *badgerdb.Txn) error {
		return tx.Set([]byte("corrupt"), []byte{})
	}))

	_, err = backend.Get(context.Background(), "corrupt")
	assert.ErrorIs(t, err, storage.ErrSerializationFailed)
	assert.Contains(t, logs.String(), "unreadable entry")
	assert.Contains(t, logs.String(), "key=corrupt")
}

func TestMemoryRepository(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	doc := core.DefaultDocument()
	require.NoError(t, repo.PutDocument(ctx, doc))

	loaded, err := repo.GetDocument(ctx, doc.Title)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	savedAt, err := repo.DocumentSavedAt(ctx, doc.Title)
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())
}
