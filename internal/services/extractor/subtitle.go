package extractor

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/killallgit/corpus-api/pkg/transcript"
)

// Subtitle reads WebVTT and SubRip files as one line per cue
type Subtitle struct{}

// Extract parses the subtitle file named by path
func (Subtitle) Extract(ctx context.Context, path string) (string, error) {
	format, ok := transcript.FormatForFile(path)
	if !ok {
		return "", fmt.Errorf("not a subtitle file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}

	parsed, err := transcript.Parse(string(data), format)
	if err != nil {
		return "", err
	}
	return parsed.Text(), nil
}
