package store

import (
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/chunkdeck/core"
)

const (
	// ExportFilename is the name of the file produced by Export.
	ExportFilename = "AL_document.json"

	// ExportMIMEType is the content type of the file produced by Export.
	ExportMIMEType = "application/json"

	// NewTitlePrefix prefixes the random title given by NewDocument.
	NewTitlePrefix = "New "

	// NotFoundMessage is shown by an interactive Load of an unknown title.
	NotFoundMessage = "Record not found."

	// SavedNotification is the notification title emitted by Save.
	SavedNotification = "Saved"
)

// Option configures a Store.
type Option func(*Store) error

// WithNotifier sets the sink for save confirmations.
// Default discards them.
func WithNotifier(n Notifier) Option {
	return func(s *Store) error {
		if n == nil {
			n = nopNotifier{}
		}
		s.notifier = n
		return nil
	}
}

// WithAlerter sets the sink for interactive "not found" notices.
// Default discards them.
func WithAlerter(a Alerter) Option {
	return func(s *Store) error {
		if a == nil {
			a = nopAlerter{}
		}
		s.alerter = a
		return nil
	}
}

// WithDownloader sets the sink for exported documents.
// Without one, Export returns ErrDownloaderRequired.
func WithDownloader(d Downloader) Option {
	return func(s *Store) error {
		s.downloader = d
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithClock sets the time source used for save timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		if now == nil {
			return errors.New("store: clock cannot be nil")
		}
		s.now = now
		return nil
	}
}

// WithTitleIDLength sets the length of the random suffix of new titles.
// Default is core.TitleIDLength.
func WithTitleIDLength(length int) Option {
	return func(s *Store) error {
		if length < 1 {
			return errors.New("store: title id length must be at least 1")
		}
		s.titleIDLength = length
		return nil
	}
}

// WithDefaultDocument sets the constructor of the document used when no
// working copy exists. Its title is also the title loaded at startup.
// Default is core.DefaultDocument.
func WithDefaultDocument(fn func() *core.ChunkDocument) Option {
	return func(s *Store) error {
		if fn == nil {
			return errors.New("store: default document constructor cannot be nil")
		}
		s.defaultDocument = fn
		return nil
	}
}

// WithStartupLoad controls whether New loads the default document's title
// from storage. Default is true.
func WithStartupLoad(enabled bool) Option {
	return func(s *Store) error {
		s.startupLoad = enabled
		return nil
	}
}
