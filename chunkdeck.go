// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunkdeck

import (
	"context"
	"encoding/base64"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/chunkdeck/export"
	"github.com/poiesic/chunkdeck/storage"
	"github.com/poiesic/chunkdeck/storage/badger"
	"github.com/poiesic/chunkdeck/store"
)

// DefaultExportDir is where exports land when no directory is configured.
const DefaultExportDir = "."

// Workspace ties a badger backend to the document store that runs on it.
type Workspace struct {
	backend    *badger.Backend
	repo       storage.DocumentRepository
	store      *store.Store
	downloader *export.FileDownloader
	logger     *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	inMemory     bool
	exportDir    string
	storeOptions []store.Option
}

// WithInMemory keeps all data in memory; the path is ignored.
func WithInMemory() WorkspaceOption {
	return func(o *workspaceOptions) {
		o.inMemory = true
	}
}

// WithExportDir sets the directory exported files are written to.
func WithExportDir(dir string) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.exportDir = dir
	}
}

// WithStoreOptions passes options through to the document store.
// They are applied after the workspace defaults and may override them.
func WithStoreOptions(opts ...store.Option) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.storeOptions = append(o.storeOptions, opts...)
	}
}

// OpenWorkspace opens the database at filePath and starts a document store on it.
func OpenWorkspace(ctx context.Context, filePath string, opts ...WorkspaceOption) (*Workspace, error) {
	// Apply options
	options := &workspaceOptions{
		exportDir: DefaultExportDir,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repo := storage.NewDocumentRepository(backend)
	downloader := export.NewFileDownloader(options.exportDir)
	logger := slog.Default()

	storeOpts := append([]store.Option{
		store.WithDownloader(downloader),
		store.WithNotifier(store.NewLogNotifier(logger)),
		store.WithLogger(logger),
	}, options.storeOptions...)

	s, err := store.New(ctx, repo, storeOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Workspace{
		backend:    backend,
		repo:       repo,
		store:      s,
		downloader: downloader,
		logger:     logger,
	}, nil
}

// Close closes the underlying backend.
func (w *Workspace) Close() error {
	if err := w.backend.Close(); err != nil {
		w.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store returns the document store.
func (w *Workspace) Store() *store.Store {
	return w.store
}

// Repository returns the document repository the store writes through.
func (w *Workspace) Repository() storage.DocumentRepository {
	return w.repo
}

// ExportDir returns the directory exports are written to.
func (w *Workspace) ExportDir() string {
	return w.downloader.Dir()
}

// NewArchiver creates an archiver over the workspace's saved documents.
// Call Release on it when done.
func (w *Workspace) NewArchiver(opts ...export.ArchiverOption) (*export.Archiver, error) {
	return export.NewArchiver(w.repo, opts...)
}

// Consistency describes disagreements between the registry and the saved documents.
type Consistency struct {
	// Unregistered are titles saved in storage but missing from the registry.
	Unregistered []string
	// Missing are registered titles with no saved document.
	Missing []string
}

// OK reports whether registry and storage agree.
func (c *Consistency) OK() bool {
	return len(c.Unregistered) == 0 && len(c.Missing) == 0
}

// Check compares the registry against the document keys present in storage.
func (w *Workspace) Check(ctx context.Context) (*Consistency, error) {
	keys, err := w.backend.Keys(ctx, storage.DocumentKeyPrefix)
	if err != nil {
		return nil, err
	}
	registry, err := w.repo.GetRegistry(ctx)
	if err != nil {
		return nil, err
	}

	stored := make([]string, 0, len(keys))
	for _, key := range keys {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(key, storage.DocumentKeyPrefix))
		if err != nil {
			w.logger.Warn("skipping undecodable document key", "key", key)
			continue
		}
		stored = append(stored, string(raw))
	}

	result := &Consistency{}
	for _, title := range stored {
		if !slices.Contains(registry, title) {
			result.Unregistered = append(result.Unregistered, title)
		}
	}
	for _, title := range registry {
		if !slices.Contains(stored, title) {
			result.Missing = append(result.Missing, title)
		}
	}
	return result, nil
}
