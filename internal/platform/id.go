package platform

import (
	"strings"

	"github.com/google/uuid"
)

const shortIDLength = 8

// NewID returns a random UUID string.
func NewID() string {
	return uuid.New().String()
}

// ShortID returns the first eight hex characters of a random UUID. It keeps
// generated file names unique when two are produced within the same clock tick.
func ShortID() string {
	return strings.ReplaceAll(NewID(), "-", "")[:shortIDLength]
}
