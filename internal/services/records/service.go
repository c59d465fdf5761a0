package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/killallgit/corpus-api/internal/models"
	"github.com/killallgit/corpus-api/internal/services/storage"
	apperrors "github.com/killallgit/corpus-api/pkg/errors"
)

const defaultUploader = "admin"

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repo      Repository
	audio     storage.Backend
	text      storage.Backend
	extractor TextExtractor
	uploader  string
	now       func() time.Time
}

// Option configures a ServiceImpl
type Option func(*ServiceImpl)

// WithUploader sets the uploader recorded on new rows
func WithUploader(name string) Option {
	return func(s *ServiceImpl) {
		if name != "" {
			s.uploader = name
		}
	}
}

// WithClock overrides the upload timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *ServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new record service over the audio and text storage roots
func NewService(repo Repository, audio, text storage.Backend, extractor TextExtractor, opts ...Option) Service {
	s := &ServiceImpl{
		repo:      repo,
		audio:     audio,
		text:      text,
		extractor: extractor,
		uploader:  defaultUploader,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadAudio stores a batch of audio files and inserts one record per file,
// linking each to the newest text record that starts with its base name.
// Rows are committed as pending before the files move into place and marked
// uploaded once every file is stored.
func (s *ServiceImpl) UploadAudio(ctx context.Context, files []Upload, meta AudioMetadata) (*UploadResult, error) {
	batch, err := stageBatch(ctx, s.audio, files)
	if err != nil {
		return nil, err
	}
	defer batch.discard(s.audio)

	ids := make([]uint, 0, len(batch))
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for _, f := range batch {
			record := &models.AudioRecord{
				Filename:   f.name,
				Language:   meta.Language,
				SampleRate: meta.SampleRate,
				Channels:   meta.Channels,
				Status:     models.StatusPending,
				UploadTime: s.now(),
				Uploader:   s.uploader,
			}

			text, err := tx.FindTextForAudio(ctx, BaseName(f.name))
			if err != nil {
				return apperrors.DatabaseError("query", err)
			}
			if text != nil {
				linked := text.Filename
				record.TextFilename = &linked
			}

			if err := tx.CreateAudio(ctx, record); err != nil {
				return apperrors.DatabaseError("insert", err)
			}
			ids = append(ids, record.ID)
		}
		return nil
	})
	if err != nil {
		slog.Error("audio upload failed", "files", len(batch), "error", err)
		return nil, storeFailure("insert", err)
	}

	if err := batch.promote(ctx, s.audio); err != nil {
		slog.Error("audio upload failed", "files", len(batch), "error", err)
		if _, derr := s.DeleteAudio(ctx, ids); derr != nil {
			slog.Warn("failed to drop pending audio records", "ids", ids, "error", derr)
		}
		return nil, err
	}

	if err := s.repo.SetAudioStatus(ctx, ids, models.StatusUploaded); err != nil {
		slog.Error("audio upload failed", "files", len(batch), "error", err)
		return nil, apperrors.DatabaseError("update", err)
	}

	slog.Info("audio uploaded", "files", batch.names(), "language", meta.Language)
	return &UploadResult{Files: batch.names()}, nil
}

// UploadText stores a batch of text files, inserts one record per file and
// links every audio record whose base name prefixes the new filename. Links
// are written together with the uploaded status, after the files are stored.
func (s *ServiceImpl) UploadText(ctx context.Context, files []Upload, language string) (*UploadResult, error) {
	batch, err := stageBatch(ctx, s.text, files)
	if err != nil {
		return nil, err
	}
	defer batch.discard(s.text)

	ids := make([]uint, 0, len(batch))
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for _, f := range batch {
			record := &models.TextRecord{
				Filename:   f.name,
				Language:   language,
				Status:     models.StatusPending,
				UploadTime: s.now(),
				Uploader:   s.uploader,
			}
			if err := tx.CreateText(ctx, record); err != nil {
				return apperrors.DatabaseError("insert", err)
			}
			ids = append(ids, record.ID)
		}
		return nil
	})
	if err != nil {
		slog.Error("text upload failed", "files", len(batch), "error", err)
		return nil, storeFailure("insert", err)
	}

	if err := batch.promote(ctx, s.text); err != nil {
		slog.Error("text upload failed", "files", len(batch), "error", err)
		if _, derr := s.DeleteText(ctx, ids); derr != nil {
			slog.Warn("failed to drop pending text records", "ids", ids, "error", derr)
		}
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for _, f := range batch {
			linked, err := tx.LinkAudioToText(ctx, f.name)
			if err != nil {
				return apperrors.DatabaseError("update", err)
			}
			if linked > 0 {
				slog.Debug("linked audio records", "text_filename", f.name, "count", linked)
			}
		}
		if err := tx.SetTextStatus(ctx, ids, models.StatusUploaded); err != nil {
			return apperrors.DatabaseError("update", err)
		}
		return nil
	})
	if err != nil {
		slog.Error("text upload failed", "files", len(batch), "error", err)
		return nil, storeFailure("commit", err)
	}

	slog.Info("text uploaded", "files", batch.names(), "language", language)
	return &UploadResult{Files: batch.names()}, nil
}

// List returns both record collections with each audio record's linked text
// resolved through the extractor
func (s *ServiceImpl) List(ctx context.Context) (*Listing, error) {
	audio, err := s.repo.ListAudio(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("query", err)
	}
	text, err := s.repo.ListText(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("query", err)
	}

	entries := make([]AudioEntry, 0, len(audio))
	for _, record := range audio {
		entry := AudioEntry{
			AudioRecord: record,
			TextLabel:   UnlinkedTextLabel,
			TextContent: UnlinkedTextContent,
		}
		if record.Linked() {
			entry.TextLabel = *record.TextFilename
			entry.TextContent = s.extractor.Extract(ctx, *record.TextFilename)
		}
		entries = append(entries, entry)
	}

	if text == nil {
		text = []models.TextRecord{}
	}
	return &Listing{Audio: entries, Text: text}, nil
}

// DeleteAudio removes audio records by ID, then their files. Text records
// are never touched.
func (s *ServiceImpl) DeleteAudio(ctx context.Context, ids []uint) (*DeleteResult, error) {
	result := &DeleteResult{RequestedIDs: ids}
	if len(ids) == 0 {
		return result, nil
	}

	var unused []string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		records, err := tx.GetAudioByIDs(ctx, ids)
		if err != nil {
			return apperrors.DatabaseError("query", err)
		}

		result.Deleted, err = tx.DeleteAudio(ctx, ids)
		if err != nil {
			return apperrors.DatabaseError("delete", err)
		}

		names := make([]string, 0, len(records))
		for _, r := range records {
			names = append(names, r.Filename)
		}
		unused, err = unusedFilenames(ctx, tx, &models.AudioRecord{}, names)
		return err
	})
	if err != nil {
		return nil, storeFailure("delete", err)
	}

	removeFiles(ctx, s.audio, unused)
	slog.Info("audio records deleted", "ids", ids, "deleted", result.Deleted)
	return result, nil
}

// DeleteText removes text records by ID, clears text_filename on audio
// records that referenced a removed file, then removes the files
func (s *ServiceImpl) DeleteText(ctx context.Context, ids []uint) (*DeleteResult, error) {
	result := &DeleteResult{RequestedIDs: ids}
	if len(ids) == 0 {
		return result, nil
	}

	var unused []string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		records, err := tx.GetTextByIDs(ctx, ids)
		if err != nil {
			return apperrors.DatabaseError("query", err)
		}

		result.Deleted, err = tx.DeleteText(ctx, ids)
		if err != nil {
			return apperrors.DatabaseError("delete", err)
		}

		names := make([]string, 0, len(records))
		for _, r := range records {
			names = append(names, r.Filename)
		}
		// A filename re-uploaded under another row keeps its links
		unused, err = unusedFilenames(ctx, tx, &models.TextRecord{}, names)
		if err != nil {
			return err
		}

		cleared, err := tx.ClearTextFilename(ctx, unused)
		if err != nil {
			return apperrors.DatabaseError("update", err)
		}
		if cleared > 0 {
			slog.Debug("cleared text links", "text_filenames", unused, "audio_records", cleared)
		}
		return nil
	})
	if err != nil {
		return nil, storeFailure("delete", err)
	}

	removeFiles(ctx, s.text, unused)
	slog.Info("text records deleted", "ids", ids, "deleted", result.Deleted)
	return result, nil
}

// unusedFilenames returns the distinct names no surviving row still carries
func unusedFilenames(ctx context.Context, tx Repository, model any, names []string) ([]string, error) {
	inUse, err := tx.FilenamesInUse(ctx, model, names)
	if err != nil {
		return nil, apperrors.DatabaseError("query", err)
	}

	seen := make(map[string]bool, len(names))
	unused := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] || inUse[name] {
			continue
		}
		seen[name] = true
		unused = append(unused, name)
	}
	return unused, nil
}

// removeFiles deletes stored files, logging failures instead of returning them
func removeFiles(ctx context.Context, store storage.Backend, names []string) {
	for _, name := range names {
		if err := store.Delete(ctx, name); err != nil {
			slog.Warn("failed to remove stored file", "root", store.Root(), "filename", name, "error", err)
		}
	}
}

// storeFailure keeps classified errors and wraps anything else, such as a
// failed commit, as a database error
func storeFailure(op string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.DatabaseError(op, err)
}

type stagedFile struct {
	name     string
	staged   *storage.Staged
	promoted bool
}

type stagedBatch []*stagedFile

// stageBatch validates a batch and copies every named file into the staging
// area. Files after the first with an empty name are skipped.
func stageBatch(ctx context.Context, store storage.Backend, files []Upload) (stagedBatch, error) {
	if len(files) == 0 || files[0].Filename == "" {
		return nil, ErrNoFiles
	}

	batch := make(stagedBatch, 0, len(files))
	for _, f := range files {
		if f.Filename == "" {
			continue
		}
		name, err := storage.CleanFilename(f.Filename)
		if err != nil {
			batch.discard(store)
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid filename %q", f.Filename))
		}

		staged, err := stageUpload(ctx, store, f)
		if err != nil {
			batch.discard(store)
			return nil, apperrors.StorageError("write", err)
		}
		batch = append(batch, &stagedFile{name: name, staged: staged})
	}
	return batch, nil
}

func stageUpload(ctx context.Context, store storage.Backend, f Upload) (*storage.Staged, error) {
	if f.Open == nil {
		return nil, fmt.Errorf("no content for %s", f.Filename)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Filename, err)
	}
	defer rc.Close()
	return store.Stage(ctx, rc)
}

// promote moves every staged file to its final name
func (b stagedBatch) promote(ctx context.Context, store storage.Backend) error {
	for _, f := range b {
		if err := store.Promote(ctx, f.staged, f.name); err != nil {
			return apperrors.StorageError("move", err)
		}
		f.promoted = true
	}
	return nil
}

// discard removes staged files that were never promoted
func (b stagedBatch) discard(store storage.Backend) {
	for _, f := range b {
		if !f.promoted {
			store.Discard(f.staged)
		}
	}
}

func (b stagedBatch) names() []string {
	names := make([]string, 0, len(b))
	for _, f := range b {
		names = append(names, f.name)
	}
	return names
}
