package store

import "errors"

var (
	// ErrRepositoryRequired is returned when a document repository is not provided.
	ErrRepositoryRequired = errors.New("document repository required")

	// ErrDocumentNotFound is returned by an interactive Load of an unknown title.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrRecordNotFound is returned by Store methods that edit a record by ID.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDownloaderRequired is returned by Export when no Downloader is configured.
	ErrDownloaderRequired = errors.New("downloader required")
)
