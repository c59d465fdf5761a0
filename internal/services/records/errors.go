package records

import (
	apperrors "github.com/killallgit/corpus-api/pkg/errors"
)

// Listing placeholders for audio records without a linked text file
const (
	UnlinkedTextLabel   = "no linked annotation text"
	UnlinkedTextContent = "no annotation content"
)

// ErrNoFiles is returned when a batch is empty or its first file has no name
var ErrNoFiles = apperrors.InvalidInput("no files selected")
