package badger

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/chunkdeck/storage"
)

// entry is the value layout written to BadgerDB: the caller's payload plus
// the write time in Unix microseconds.
type entry struct {
	Payload   string
	UpdatedAt int64
}

// entryMUS serializes entry in MUS format, fields in declaration order.
var entryMUS = entrySer{}

type entrySer struct{}

func (s entrySer) Marshal(v entry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Payload, bs)
	return n + varint.Int64.Marshal(v.UpdatedAt, bs[n:])
}

func (s entrySer) Unmarshal(bs []byte) (v entry, n int, err error) {
	v.Payload, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.UpdatedAt, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	return
}

func (s entrySer) Size(v entry) (size int) {
	size = ord.String.Size(v.Payload)
	return size + varint.Int64.Size(v.UpdatedAt)
}

func (s entrySer) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

func marshalEntry(e entry) []byte {
	buf := make([]byte, entryMUS.Size(e))
	entryMUS.Marshal(e, buf)
	return buf
}

func unmarshalEntry(data []byte) (entry, error) {
	e, _, err := entryMUS.Unmarshal(data)
	if err != nil {
		return entry{}, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	return e, nil
}
