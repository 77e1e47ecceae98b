package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/chunkdeck/core"
	"github.com/poiesic/chunkdeck/storage"
	"github.com/poiesic/chunkdeck/store"
)

// Archiver exports every registered document to its own file.
type Archiver struct {
	repo   storage.DocumentRepository
	pool   *ants.Pool
	logger *slog.Logger
}

// ArchiverOption configures an Archiver.
type ArchiverOption func(*Archiver) error

// WithPoolSize sets the number of concurrent writers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) ArchiverOption {
	return func(a *Archiver) error {
		if size < 1 {
			size = 1
		}
		if a.pool != nil {
			a.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// WithArchiverLogger sets a custom logger.
// Default is slog.Default().
func WithArchiverLogger(logger *slog.Logger) ArchiverOption {
	return func(a *Archiver) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewArchiver creates an Archiver reading from repo.
// Call Release when done.
func NewArchiver(repo storage.DocumentRepository, opts ...ArchiverOption) (*Archiver, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &Archiver{
		repo:   repo,
		pool:   pool,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if optErr := opt(a); optErr != nil {
			a.Release()
			return nil, optErr
		}
	}
	return a, nil
}

// ArchiveFilename returns the file name used for a document title.
// Format: <base64url(title)>.json
func ArchiveFilename(title string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(title)) + ".json"
}

// Archive writes each document in the registry to dir, indented like
// store.Export. Titles listed in the registry but missing from storage are
// skipped with a warning. Returns the number of files written and the joined
// errors of any that failed.
func (a *Archiver) Archive(ctx context.Context, dir string) (int, error) {
	titles, err := a.repo.GetRegistry(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read registry: %w", err)
	}

	downloader := NewFileDownloader(dir)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		written int
		errs    []error
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		written++
	}

	for _, title := range titles {
		if err := ctx.Err(); err != nil {
			record(err)
			break
		}

		wg.Add(1)
		submitErr := a.pool.Submit(func() {
			defer wg.Done()
			record(a.archiveOne(ctx, downloader, title))
		})
		if submitErr != nil {
			wg.Done()
			record(fmt.Errorf("%q: %w", title, submitErr))
		}
	}
	wg.Wait()

	// Missing documents are not failures.
	errs = slices.DeleteFunc(errs, func(err error) bool { return errors.Is(err, errSkipped) })
	return written, errors.Join(errs...)
}

var errSkipped = errors.New("skipped")

func (a *Archiver) archiveOne(ctx context.Context, downloader *FileDownloader, title string) error {
	doc, err := a.repo.GetDocument(ctx, title)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("registered document missing from storage", "title", title)
			return errSkipped
		}
		return fmt.Errorf("%q: %w", title, err)
	}
	doc.Title = title

	data, err := core.EncodeDocumentIndent(doc)
	if err != nil {
		return fmt.Errorf("%q: %w", title, err)
	}
	if err := downloader.Download(ArchiveFilename(title), store.ExportMIMEType, data); err != nil {
		return fmt.Errorf("%q: %w", title, err)
	}
	return nil
}

// Release releases the worker pool.
// The archiver should not be used after calling Release.
func (a *Archiver) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}
