package core

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	// IDLength is the length of entity identifiers.
	IDLength = 21

	// TitleIDLength is the length of the random suffix in generated titles.
	TitleIDLength = 8
)

// NewID returns a random URL-safe identifier of IDLength characters.
func NewID() string {
	return gonanoid.Must(IDLength)
}

// NewShortID returns a random URL-safe identifier of the given length.
func NewShortID(length int) string {
	return gonanoid.Must(length)
}
