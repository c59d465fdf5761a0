package storage

import (
	"context"
	"io"
	"time"
)

// Backend stores uploaded files under a single root directory, keyed by
// their original base filename.
type Backend interface {
	// Root returns the directory files are stored in
	Root() string

	// Stage writes data to a uniquely named file in the staging area
	Stage(ctx context.Context, data io.Reader) (*Staged, error)

	// Promote moves a staged file to its final name, replacing any existing file
	Promote(ctx context.Context, staged *Staged, filename string) error

	// Discard removes a staged file that will not be promoted
	Discard(staged *Staged)

	// Open opens a stored file for reading
	Open(ctx context.Context, filename string) (io.ReadCloser, error)

	// Delete removes a stored file; a missing file is not an error
	Delete(ctx context.Context, filename string) error

	// Exists checks if a stored file exists
	Exists(ctx context.Context, filename string) (bool, error)

	// Path returns the absolute location of a stored file
	Path(filename string) (string, error)

	// ModTime returns when a stored file was last written
	ModTime(ctx context.Context, filename string) (time.Time, error)

	// List returns the names of all stored files
	List(ctx context.Context) ([]string, error)

	// PurgeStaging removes staged files older than maxAge
	PurgeStaging(ctx context.Context, maxAge time.Duration) ([]string, error)
}

// Staged is a file written to the staging area but not yet promoted
type Staged struct {
	Path string
	Size int64
}
