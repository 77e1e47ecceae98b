package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/chunkdeck/storage"
)

// Backend wraps a BadgerDB instance and implements storage.KeyValueStore.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.KeyValueStore = (*Backend)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist.
func OpenBackend(filePath string, inMemory bool) (*Backend, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		// Ensure directory exists
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: slog.Default(),
	}, nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	if err := b.db.Close(); err != nil {
		b.logger.Error("failed to close badger database", "err", err)
		return err
	}
	return nil
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded if fn returns an error.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	if b.db.IsClosed() {
		return storage.ErrStorageClosed
	}
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// Get returns the payload stored at key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	e, err := b.readEntry(key)
	if err != nil {
		return nil, err
	}
	return []byte(e.Payload), nil
}

// Set stores value at key, stamped with the current time.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	e := entry{
		Payload:   string(value),
		UpdatedAt: time.Now().UTC().UnixMicro(),
	}
	return b.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(key), marshalEntry(e)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes key.
func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ModifiedAt returns the time key was last written.
func (b *Backend) ModifiedAt(ctx context.Context, key string) (time.Time, error) {
	e, err := b.readEntry(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMicro(e.UpdatedAt).UTC(), nil
}

// Keys returns every key starting with prefix, in key order.
func (b *Backend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := b.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, string(iter.Item().KeyCopy(nil)))
		}
		return nil
	}, false)
	return keys, err
}

func (b *Backend) readEntry(key string) (entry, error) {
	var e entry
	err := b.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			e, unmarshalErr = unmarshalEntry(val)
			if unmarshalErr != nil {
				b.logger.Warn("unreadable entry", "key", key, "err", unmarshalErr)
			}
			return unmarshalErr
		})
	}, false)
	return e, err
}
