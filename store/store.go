package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/chunkdeck/core"
	"github.com/poiesic/chunkdeck/storage"
)

// Store owns the current document and the registry of saved titles.
type Store struct {
	repo       storage.DocumentRepository
	notifier   Notifier
	alerter    Alerter
	downloader Downloader
	logger     *slog.Logger

	now             func() time.Time
	titleIDLength   int
	defaultDocument func() *core.ChunkDocument
	startupLoad     bool

	mu       sync.Mutex
	doc      *core.ChunkDocument
	registry []string
}

// New creates a Store over repo.
//
// The current document starts as the stored working copy, or the default
// document if none exists. The registry is read from storage. Unless
// disabled with WithStartupLoad(false), the default document's title is then
// loaded non-interactively, replacing the working copy if a document with
// that title has been saved.
func New(ctx context.Context, repo storage.DocumentRepository, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	s := &Store{
		repo:            repo,
		notifier:        nopNotifier{},
		alerter:         nopAlerter{},
		logger:          slog.Default(),
		now:             time.Now,
		titleIDLength:   core.TitleIDLength,
		defaultDocument: core.DefaultDocument,
		startupLoad:     true,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	defaults := s.defaultDocument()

	doc, err := repo.GetWorkingCopy(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		doc = defaults.Clone()
	case err != nil:
		return nil, fmt.Errorf("failed to read working copy: %w", err)
	}
	if err := s.persist(ctx, doc); err != nil {
		return nil, err
	}
	s.doc = doc

	registry, err := repo.GetRegistry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	s.registry = registry

	if s.startupLoad {
		if err := s.load(ctx, defaults.Title, false); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Document returns a deep copy of the current document.
func (s *Store) Document() *core.ChunkDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Title returns the current document's title.
func (s *Store) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Title
}

// Registry returns a copy of the saved titles in registration order.
func (s *Store) Registry() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.registry)
}

// Persist writes the current document to the working copy.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, s.doc)
}

// Mutate applies fn to a copy of the current document and persists it. The
// copy becomes the current document only if fn returns nil and the write
// succeeds; otherwise the current document is left as it was.
// The document passed to fn must not be retained after fn returns.
func (s *Store) Mutate(ctx context.Context, fn func(doc *core.ChunkDocument) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.doc.Clone()
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.persist(ctx, doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// UpdateRecord applies fn to the record with the given ID and then persists.
// Returns ErrRecordNotFound if no such record exists.
func (s *Store) UpdateRecord(ctx context.Context, id string, fn func(record *core.ChunkRecord)) error {
	return s.Mutate(ctx, func(doc *core.ChunkDocument) error {
		record, ok := doc.LookupRecord(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		fn(record)
		return nil
	})
}

// AddRecord appends a default record and returns a copy of it.
func (s *Store) AddRecord(ctx context.Context) (*core.ChunkRecord, error) {
	var record *core.ChunkRecord
	err := s.Mutate(ctx, func(doc *core.ChunkDocument) error {
		record = doc.AddRecord().Clone()
		return nil
	})
	return record, err
}

// FindRecord returns a copy of the record with the given ID, or a fresh
// default record with a different ID if none exists.
func (s *Store) FindRecord(id string) *core.ChunkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.FindRecord(id).Clone()
}

// LookupRecord returns a copy of the record with the given ID and whether it exists.
func (s *Store) LookupRecord(id string) (*core.ChunkRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.doc.LookupRecord(id)
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// DeleteRecord removes the record with the given ID and reports whether one
// was removed.
func (s *Store) DeleteRecord(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.Mutate(ctx, func(doc *core.ChunkDocument) error {
		deleted = doc.DeleteRecord(id)
		return nil
	})
	return deleted, err
}

// AddAddition appends a default addition to the record with the given ID and
// returns a copy of it. If the record does not exist the addition is lost.
func (s *Store) AddAddition(ctx context.Context, id string) (*core.Addition, error) {
	var addition *core.Addition
	err := s.Mutate(ctx, func(doc *core.ChunkDocument) error {
		addition = doc.AddAddition(id).Clone()
		return nil
	})
	return addition, err
}

// FindAddition returns a copy of the matching addition, or a fresh default
// addition if either level misses.
func (s *Store) FindAddition(id, additionID string) *core.Addition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.FindAddition(id, additionID).Clone()
}

// LookupAddition returns a copy of the matching addition and whether it exists.
func (s *Store) LookupAddition(id, additionID string) (*core.Addition, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addition, ok := s.doc.LookupAddition(id, additionID)
	if !ok {
		return nil, false
	}
	return addition.Clone(), true
}

// DeleteAddition removes the matching addition and reports whether one was removed.
func (s *Store) DeleteAddition(ctx context.Context, id, additionID string) (bool, error) {
	var deleted bool
	err := s.Mutate(ctx, func(doc *core.ChunkDocument) error {
		deleted = doc.DeleteAddition(id, additionID)
		return nil
	})
	return deleted, err
}

// Load replaces the current document with the one saved under title.
//
// If nothing is saved under title and interactive is true, the alerter is
// told NotFoundMessage and ErrDocumentNotFound is returned. If interactive
// is false the call silently does nothing. In both cases the current
// document is left unchanged, as it is when the stored JSON fails to decode.
func (s *Store) Load(ctx context.Context, title string, interactive bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, title, interactive)
}

func (s *Store) load(ctx context.Context, title string, interactive bool) error {
	doc, err := s.repo.GetDocument(ctx, title)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			if !interactive {
				s.logger.Debug("no saved document", "title", title)
				return nil
			}
			s.alerter.Alert(NotFoundMessage)
			return fmt.Errorf("%w: %q", ErrDocumentNotFound, title)
		}
		return fmt.Errorf("failed to load %q: %w", title, err)
	}

	doc.Title = title
	if err := s.persist(ctx, doc); err != nil {
		return err
	}
	s.doc = doc
	s.logger.Debug("loaded document", "title", title, "records", len(doc.Records))
	return nil
}

// Save writes the current document under its title and records the title in
// the registry.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	title := s.doc.Title
	if !slices.Contains(s.registry, title) {
		registry := append(slices.Clone(s.registry), title)
		if err := s.repo.PutRegistry(ctx, registry); err != nil {
			return fmt.Errorf("failed to update registry: %w", err)
		}
		s.registry = registry
	}

	if err := s.repo.PutDocument(ctx, s.doc); err != nil {
		return fmt.Errorf("failed to save %q: %w", title, err)
	}

	s.logger.Debug("saved document", "title", title, "records", len(s.doc.Records))
	s.notifier.Notify(SavedNotification, fmt.Sprintf("%s saved at %s", title, s.now().Format(time.RFC3339)))
	return nil
}

// Delete removes the document saved under title and drops the first
// matching registry entry. The current document is not affected.
func (s *Store) Delete(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteDocument(ctx, title); err != nil {
		return fmt.Errorf("failed to delete %q: %w", title, err)
	}

	i := slices.Index(s.registry, title)
	if i == -1 {
		return nil
	}
	registry := slices.Delete(slices.Clone(s.registry), i, i+1)
	if err := s.repo.PutRegistry(ctx, registry); err != nil {
		return fmt.Errorf("failed to update registry: %w", err)
	}
	s.registry = registry
	s.logger.Debug("deleted document", "title", title)
	return nil
}

// NewDocument saves the current document and replaces it with an empty one
// titled NewTitlePrefix plus a random suffix. Returns the new title.
func (s *Store) NewDocument(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(ctx); err != nil {
		return "", err
	}

	doc := core.NewChunkDocument(NewTitlePrefix + core.NewShortID(s.titleIDLength))
	if err := s.persist(ctx, doc); err != nil {
		return "", err
	}
	s.doc = doc
	return doc.Title, nil
}

// Export sends the current document, indented by two spaces, to the
// downloader as ExportFilename. Storage is not touched.
func (s *Store) Export(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.downloader == nil {
		return ErrDownloaderRequired
	}
	data, err := core.EncodeDocumentIndent(s.doc)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", s.doc.Title, err)
	}
	return s.downloader.Download(ExportFilename, ExportMIMEType, data)
}

// Import replaces the current document with one read from r. Versions 0
// through LatestVersion are accepted; the result must pass
// core.ValidateDocument.
func (s *Store) Import(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read import: %w", err)
	}

	version, err := core.DetectVersion(data)
	if errors.Is(err, core.ErrUnsupportedVersion) {
		return fmt.Errorf("%w: %w", core.ErrInvalidDocument, err)
	}
	if err != nil {
		return err
	}
	if err := core.ValidateVersion(version); err != nil {
		return fmt.Errorf("%w: %w", core.ErrInvalidDocument, err)
	}
	doc, err := core.DecodeDocument(data)
	if err != nil {
		return err
	}
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

// persist writes doc as the working copy. Must be called with mu held.
func (s *Store) persist(ctx context.Context, doc *core.ChunkDocument) error {
	if err := s.repo.PutWorkingCopy(ctx, doc); err != nil {
		return fmt.Errorf("failed to persist working copy: %w", err)
	}
	return nil
}
