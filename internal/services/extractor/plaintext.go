package extractor

import (
	"context"
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned for text files that are not valid UTF-8
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// PlainText reads UTF-8 text files, trimming surrounding whitespace
type PlainText struct{}

// Extract reads the whole file
func (PlainText) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff")), nil
}
