package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const stagingDir = ".staging"

// ErrInvalidFilename is returned for names that cannot be stored as a plain basename
var ErrInvalidFilename = errors.New("invalid filename")

// FilesystemStorage implements Backend for local filesystem storage
type FilesystemStorage struct {
	basePath string
}

// NewFilesystemStorage creates the root and staging directories if absent
func NewFilesystemStorage(basePath string) (*FilesystemStorage, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(abs, stagingDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FilesystemStorage{basePath: abs}, nil
}

// CleanFilename reduces an uploaded name to its final path element.
// Both slash styles are treated as separators.
func CleanFilename(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	base := path.Base(name)
	switch base {
	case "", ".", "..", "/", stagingDir:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return base, nil
}

// Root returns the storage directory
func (fs *FilesystemStorage) Root() string {
	return fs.basePath
}

// Path returns the full path for a stored filename
func (fs *FilesystemStorage) Path(filename string) (string, error) {
	clean, err := CleanFilename(filename)
	if err != nil {
		return "", err
	}
	if clean != filename {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	return filepath.Join(fs.basePath, clean), nil
}

// Stage copies data into the staging area under a random name
func (fs *FilesystemStorage) Stage(ctx context.Context, data io.Reader) (*Staged, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(fs.basePath, stagingDir, uuid.New().String())
	file, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(file, data)
	if err != nil {
		file.Close()
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	return &Staged{Path: fullPath, Size: size}, nil
}

// Promote renames a staged file into place
func (fs *FilesystemStorage) Promote(ctx context.Context, staged *Staged, filename string) error {
	if staged == nil {
		return fmt.Errorf("nothing staged for %s", filename)
	}
	target, err := fs.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Rename(staged.Path, target); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// Discard removes a staged file
func (fs *FilesystemStorage) Discard(staged *Staged) {
	if staged == nil {
		return
	}
	_ = os.Remove(staged.Path)
}

// Open opens a stored file
func (fs *FilesystemStorage) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	fullPath, err := fs.Path(filename)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file
func (fs *FilesystemStorage) Delete(ctx context.Context, filename string) error {
	fullPath, err := fs.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a stored file exists
func (fs *FilesystemStorage) Exists(ctx context.Context, filename string) (bool, error) {
	fullPath, err := fs.Path(filename)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// ModTime returns the modification time of a stored file
func (fs *FilesystemStorage) ModTime(ctx context.Context, filename string) (time.Time, error) {
	fullPath, err := fs.Path(filename)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.ModTime(), nil
}

// List returns stored filenames in lexical order
func (fs *FilesystemStorage) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(fs.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// PurgeStaging removes abandoned staged files
func (fs *FilesystemStorage) PurgeStaging(ctx context.Context, maxAge time.Duration) ([]string, error) {
	dir := filepath.Join(fs.basePath, stagingDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read staging directory: %w", err)
	}

	var removed []string
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if time.Since(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove staged file: %w", err)
		}
		removed = append(removed, entry.Name())
	}
	return removed, nil
}
