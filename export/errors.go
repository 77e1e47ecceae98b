package export

import "errors"

var (
	// ErrUnsupportedMIMEType is returned for downloads that are not JSON.
	ErrUnsupportedMIMEType = errors.New("unsupported mime type")

	// ErrInvalidFilename is returned for filenames that would escape the target directory.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")
)
