// Package idgen provides short, URL-safe unique ID generation backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DraftPrefix marks client references attached to idea submissions.
const DraftPrefix = "draft-"

// RequestPrefix marks correlation IDs attached to bulk uploads.
const RequestPrefix = "upl-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// Draft returns a new client reference for an idea submission.
func Draft() (string, error) {
	return GenerateWithPrefix(DraftPrefix)
}

// Upload returns a new correlation ID for a bulk upload.
func Upload() (string, error) {
	return GenerateWithPrefix(RequestPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
