package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/killallgit/corpus-api/internal/services/cache"
	"github.com/killallgit/corpus-api/internal/services/storage"
)

// Messages returned in place of content when extraction cannot proceed
const (
	MessageFileNotFound    = "file not found"
	MessageUnsupported     = "unsupported file format"
	MessageDocxUnavailable = "reading .docx files requires the docx extractor, which is not enabled"
	messageReadErrorPrefix = "error reading file: "
)

// Extractor reads the text content of one file format
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// UnavailableError reports an extractor capability that is not installed
type UnavailableError struct {
	Message string
}

func (e *UnavailableError) Error() string {
	return e.Message
}

// Unavailable stands in for an extractor that is disabled
type Unavailable struct {
	Message string
}

// Extract always reports the missing capability
func (u Unavailable) Extract(ctx context.Context, path string) (string, error) {
	return "", &UnavailableError{Message: u.Message}
}

// Option configures a Service
type Option func(*Service)

// WithExtractor registers an extractor for a file extension such as ".md"
func WithExtractor(ext string, e Extractor) Option {
	return func(s *Service) {
		s.extractors[strings.ToLower(ext)] = e
	}
}

// WithDocx enables or disables .docx extraction
func WithDocx(enabled bool) Option {
	if enabled {
		return WithExtractor(".docx", Docx{})
	}
	return WithExtractor(".docx", Unavailable{Message: MessageDocxUnavailable})
}

// WithCache keeps extracted content in c, keyed by filename, size and
// modification time so a replaced file is read again
func WithCache(c cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// Service resolves stored text filenames to their content
type Service struct {
	store      storage.Backend
	extractors map[string]Extractor
	cache      cache.Cache
}

// NewService creates an extractor service reading from the text storage root
func NewService(store storage.Backend, opts ...Option) *Service {
	s := &Service{
		store: store,
		extractors: map[string]Extractor{
			".txt":  PlainText{},
			".docx": Docx{},
			".vtt":  Subtitle{},
			".srt":  Subtitle{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Supported reports whether a filename has a registered extractor
func (s *Service) Supported(filename string) bool {
	_, ok := s.extractors[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Extract returns the text content of a stored file. It never fails:
// missing files, unsupported formats, disabled extractors and read errors
// are all reported as descriptive strings.
func (s *Service) Extract(ctx context.Context, filename string) string {
	if filename == "" {
		return ""
	}

	path, err := s.store.Path(filename)
	if err != nil {
		return MessageFileNotFound
	}
	exists, err := s.store.Exists(ctx, filename)
	if err != nil {
		return messageReadErrorPrefix + err.Error()
	}
	if !exists {
		return MessageFileNotFound
	}

	extractor, ok := s.extractors[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return MessageUnsupported
	}

	key := s.cacheKey(filename, path)
	if key != "" {
		if content, ok := s.cache.Get(ctx, key); ok {
			return content
		}
	}

	content, err := extractor.Extract(ctx, path)
	if err != nil {
		var unavailable *UnavailableError
		if errors.As(err, &unavailable) {
			return unavailable.Message
		}
		slog.Warn("text extraction failed", "filename", filename, "error", err)
		return messageReadErrorPrefix + err.Error()
	}

	if key != "" {
		s.cache.Set(ctx, key, content)
	}
	return content
}

func (s *Service) cacheKey(filename, path string) string {
	if s.cache == nil {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s|%d|%d", filename, info.Size(), info.ModTime().UnixNano())
}
