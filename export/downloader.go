package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/chunkdeck/store"
)

// FileDownloader writes downloads into a directory.
type FileDownloader struct {
	dir    string
	logger *slog.Logger
}

var _ store.Downloader = (*FileDownloader)(nil)

// NewFileDownloader returns a FileDownloader rooted at dir. The directory is
// created on the first download.
func NewFileDownloader(dir string) *FileDownloader {
	return &FileDownloader{
		dir:    dir,
		logger: slog.Default(),
	}
}

// Dir returns the target directory.
func (d *FileDownloader) Dir() string {
	return d.dir
}

// Download writes data to dir/filename, replacing any existing file.
func (d *FileDownloader) Download(filename, mimeType string, data []byte) error {
	if mimeType != store.ExportMIMEType {
		return fmt.Errorf("%w: %s", ErrUnsupportedMIMEType, mimeType)
	}
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(d.dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	d.logger.Debug("wrote download", "path", path, "bytes", len(data))
	return nil
}
