package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkDocument_AddRecord(t *testing.T) {
	doc := NewChunkDocument("T")
	record := doc.AddRecord()

	require.Len(t, doc.Records, 1)
	found := doc.FindRecord(record.ID)
	assert.Same(t, record, found)
	assert.Equal(t, DefaultLevel, found.Level)
	assert.Empty(t, found.Front)
	assert.Empty(t, found.Back)
	assert.Empty(t, found.Additions)

	second := doc.AddRecord()
	require.Len(t, doc.Records, 2)
	assert.Same(t, second, doc.Records[1], "records are appended at the end")
}

func TestChunkDocument_FindRecord_Sentinel(t *testing.T) {
	doc := NewChunkDocument("T")
	doc.AddRecord()

	sentinel := doc.FindRecord("missing")
	require.NotNil(t, sentinel)
	assert.NotEqual(t, "missing", sentinel.ID)
	assert.Equal(t, DefaultLevel, sentinel.Level)
	assert.Len(t, doc.Records, 1, "sentinel must not be inserted")

	_, ok := doc.LookupRecord("missing")
	assert.False(t, ok)
}

func TestChunkDocument_DeleteRecord(t *testing.T) {
	doc := NewChunkDocument("T")
	first := doc.AddRecord()
	second := doc.AddRecord()

	t.Run("nonexistent id", func(t *testing.T) {
		assert.False(t, doc.DeleteRecord("missing"))
		assert.Len(t, doc.Records, 2)
	})

	t.Run("existing id", func(t *testing.T) {
		assert.True(t, doc.DeleteRecord(first.ID))
		require.Len(t, doc.Records, 1)
		assert.Equal(t, second.ID, doc.Records[0].ID)
	})

	t.Run("already deleted", func(t *testing.T) {
		assert.False(t, doc.DeleteRecord(first.ID))
		assert.Len(t, doc.Records, 1)
	})
}

func TestChunkDocument_DeleteRecord_FirstMatchOnly(t *testing.T) {
	doc := NewChunkDocument("T", &ChunkRecord{ID: "dup", Front: "one"}, &ChunkRecord{ID: "dup", Front: "two"})
	assert.True(t, doc.DeleteRecord("dup"))
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "two", doc.Records[0].Front)
}

func TestChunkDocument_AddAddition(t *testing.T) {
	doc := NewChunkDocument("T")
	record := doc.AddRecord()
	other := doc.AddRecord()

	t.Run("existing record", func(t *testing.T) {
		addition := doc.AddAddition(record.ID)
		require.Len(t, record.Additions, 1)
		assert.Same(t, addition, record.Additions[0])
		assert.Equal(t, DefaultIcon, addition.Icon)
		assert.Empty(t, other.Additions)
	})

	t.Run("nonexistent record is absorbed by the sentinel", func(t *testing.T) {
		doc.AddAddition("missing")
		assert.Len(t, record.Additions, 1)
		assert.Empty(t, other.Additions)
		assert.Len(t, doc.Records, 2)
	})
}

func TestChunkDocument_FindAddition(t *testing.T) {
	doc := NewChunkDocument("T")
	record := doc.AddRecord()
	addition := doc.AddAddition(record.ID)

	assert.Same(t, addition, doc.FindAddition(record.ID, addition.ID))

	t.Run("missing addition", func(t *testing.T) {
		sentinel := doc.FindAddition(record.ID, "missing")
		assert.NotEqual(t, "missing", sentinel.ID)
		assert.Len(t, record.Additions, 1)
	})

	t.Run("missing record", func(t *testing.T) {
		sentinel := doc.FindAddition("missing", addition.ID)
		assert.NotSame(t, addition, sentinel)
		assert.Equal(t, DefaultIcon, sentinel.Icon)
	})

	t.Run("lookup reports absence", func(t *testing.T) {
		_, ok := doc.LookupAddition(record.ID, "missing")
		assert.False(t, ok)
		_, ok = doc.LookupAddition("missing", addition.ID)
		assert.False(t, ok)
		got, ok := doc.LookupAddition(record.ID, addition.ID)
		assert.True(t, ok)
		assert.Same(t, addition, got)
	})
}

func TestChunkDocument_DeleteAddition(t *testing.T) {
	doc := NewChunkDocument("T")
	record := doc.AddRecord()
	first := doc.AddAddition(record.ID)
	second := doc.AddAddition(record.ID)

	assert.False(t, doc.DeleteAddition(record.ID, "missing"))
	assert.False(t, doc.DeleteAddition("missing", first.ID))
	assert.Len(t, record.Additions, 2)

	assert.True(t, doc.DeleteAddition(record.ID, first.ID))
	require.Len(t, record.Additions, 1)
	assert.Equal(t, second.ID, record.Additions[0].ID)
}
