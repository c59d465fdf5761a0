package records

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/killallgit/corpus-api/internal/database"
	"github.com/killallgit/corpus-api/internal/models"
	"github.com/killallgit/corpus-api/internal/services/extractor"
	"github.com/killallgit/corpus-api/internal/services/storage"
	apperrors "github.com/killallgit/corpus-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      *database.DB
	repo    Repository
	audio   *storage.FilesystemStorage
	text    *storage.FilesystemStorage
	service Service
}

// tickingClock returns a clock that advances one second per call
func tickingClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := database.Initialize(filepath.Join(dir, "records.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	audio, err := storage.NewFilesystemStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	text, err := storage.NewFilesystemStorage(filepath.Join(dir, "text_uploads"))
	require.NoError(t, err)

	repo := NewRepository(db.DB)
	return &testEnv{
		db:      db,
		repo:    repo,
		audio:   audio,
		text:    text,
		service: NewService(repo, audio, text, extractor.NewService(text), WithClock(tickingClock())),
	}
}

func upload(name, content string) Upload {
	return Upload{
		Filename: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func (e *testEnv) uploadAudio(t *testing.T, names ...string) {
	t.Helper()
	files := make([]Upload, 0, len(names))
	for _, name := range names {
		files = append(files, upload(name, "RIFF"))
	}
	_, err := e.service.UploadAudio(context.Background(), files, AudioMetadata{Language: "en", SampleRate: "16000", Channels: "1"})
	require.NoError(t, err)
}

func (e *testEnv) uploadText(t *testing.T, name, content string) {
	t.Helper()
	_, err := e.service.UploadText(context.Background(), []Upload{upload(name, content)}, "en")
	require.NoError(t, err)
}

func (e *testEnv) audioByName(t *testing.T, name string) models.AudioRecord {
	t.Helper()
	var record models.AudioRecord
	require.NoError(t, e.db.Where("filename = ?", name).Order("id DESC").First(&record).Error)
	return record
}

func (e *testEnv) ids(t *testing.T, model any) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, e.db.Model(model).Order("id").Pluck("id", &ids).Error)
	return ids
}

func stagingEntries(t *testing.T, store *storage.FilesystemStorage) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(store.Root(), ".staging"))
	require.NoError(t, err)
	return entries
}

func TestServiceImpl_UploadAudio(t *testing.T) {
	ctx := context.Background()

	t.Run("links existing text record by base name", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadText(t, "sample1_annotation.txt", "hello")

		result, err := env.service.UploadAudio(ctx, []Upload{upload("sample1.wav", "RIFF")},
			AudioMetadata{Language: "zh", SampleRate: "44100", Channels: "2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"sample1.wav"}, result.Files)

		record := env.audioByName(t, "sample1.wav")
		require.NotNil(t, record.TextFilename)
		assert.Equal(t, "sample1_annotation.txt", *record.TextFilename)
		assert.Equal(t, models.StatusUploaded, record.Status)
		assert.Equal(t, "zh", record.Language)
		assert.Equal(t, "44100", record.SampleRate)
		assert.Equal(t, "2", record.Channels)
		assert.Equal(t, "admin", record.Uploader)

		data, err := os.ReadFile(filepath.Join(env.audio.Root(), "sample1.wav"))
		require.NoError(t, err)
		assert.Equal(t, "RIFF", string(data))
		assert.Empty(t, stagingEntries(t, env.audio))
	})

	t.Run("no matching text leaves link empty", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadText(t, "other.txt", "hello")
		env.uploadAudio(t, "a.wav")

		assert.Nil(t, env.audioByName(t, "a.wav").TextFilename)
	})

	t.Run("newest matching text wins", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadText(t, "sample1_a.txt", "first")
		env.uploadText(t, "sample1_b.txt", "second")
		env.uploadAudio(t, "sample1.wav")

		record := env.audioByName(t, "sample1.wav")
		require.NotNil(t, record.TextFilename)
		assert.Equal(t, "sample1_b.txt", *record.TextFilename)
	})

	t.Run("like wildcards in base name match literally", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadText(t, "axb_notes.txt", "x")
		env.uploadText(t, "a%b.txt", "y")
		env.uploadAudio(t, "a_b.wav", "a%b.wav")

		assert.Nil(t, env.audioByName(t, "a_b.wav").TextFilename)
		linked := env.audioByName(t, "a%b.wav").TextFilename
		require.NotNil(t, linked)
		assert.Equal(t, "a%b.txt", *linked)
	})

	t.Run("prefix match is case sensitive", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadText(t, "sample1.txt", "x")
		env.uploadAudio(t, "SAMPLE1.wav")

		assert.Nil(t, env.audioByName(t, "SAMPLE1.wav").TextFilename)
	})

	t.Run("later empty filenames are skipped", func(t *testing.T) {
		env := setupTestEnv(t)
		result, err := env.service.UploadAudio(ctx, []Upload{upload("a.wav", "1"), upload("", "2"), upload("dir/b.wav", "3")}, AudioMetadata{})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.wav", "b.wav"}, result.Files)
		assert.Len(t, env.ids(t, &models.AudioRecord{}), 2)
	})

	t.Run("re-upload overwrites the file and adds a row", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.service.UploadAudio(ctx, []Upload{upload("a.wav", "old")}, AudioMetadata{})
		require.NoError(t, err)
		_, err = env.service.UploadAudio(ctx, []Upload{upload("a.wav", "new")}, AudioMetadata{})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(env.audio.Root(), "a.wav"))
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
		assert.Len(t, env.ids(t, &models.AudioRecord{}), 2)
	})
}

func TestServiceImpl_UploadValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		files    []Upload
		wantNone bool
	}{
		{name: "empty batch", files: nil, wantNone: true},
		{name: "empty first filename", files: []Upload{upload("", "x"), upload("b.wav", "y")}, wantNone: true},
		{name: "dot dot filename", files: []Upload{upload("a.wav", "x"), upload("..", "y")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			_, err := env.service.UploadAudio(ctx, tt.files, AudioMetadata{})
			require.Error(t, err)
			assert.Equal(t, 400, apperrors.GetHTTPCode(err))
			if tt.wantNone {
				assert.ErrorIs(t, err, ErrNoFiles)
			}

			assert.Empty(t, env.ids(t, &models.AudioRecord{}))
			files, err := env.audio.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, files)
			assert.Empty(t, stagingEntries(t, env.audio))
		})
	}
}

// failingPromote wraps a filesystem root and fails to move one filename into place
type failingPromote struct {
	*storage.FilesystemStorage
	fail string
}

func (f *failingPromote) Promote(ctx context.Context, staged *storage.Staged, filename string) error {
	if filename == f.fail {
		return errors.New("disk full")
	}
	return f.FilesystemStorage.Promote(ctx, staged, filename)
}

func TestServiceImpl_UploadRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("unreadable file aborts the batch", func(t *testing.T) {
		env := setupTestEnv(t)
		broken := Upload{Filename: "b.wav", Open: func() (io.ReadCloser, error) {
			return nil, errors.New("read error")
		}}

		_, err := env.service.UploadAudio(ctx, []Upload{upload("a.wav", "x"), broken}, AudioMetadata{})
		require.Error(t, err)
		assert.Equal(t, 500, apperrors.GetHTTPCode(err))
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorage))

		assert.Empty(t, env.ids(t, &models.AudioRecord{}))
		assert.Empty(t, stagingEntries(t, env.audio))
	})

	t.Run("failed move drops the pending rows", func(t *testing.T) {
		env := setupTestEnv(t)
		text := &failingPromote{FilesystemStorage: env.text, fail: "b.txt"}
		svc := NewService(env.repo, env.audio, text, extractor.NewService(env.text))
		env.uploadAudio(t, "a.wav")

		_, err := svc.UploadText(ctx, []Upload{upload("a.txt", "1"), upload("b.txt", "2")}, "en")
		require.Error(t, err)
		assert.Equal(t, 500, apperrors.GetHTTPCode(err))
		assert.Contains(t, apperrors.Message(err), "disk full")

		assert.Empty(t, env.ids(t, &models.TextRecord{}))
		assert.Nil(t, env.audioByName(t, "a.wav").TextFilename)
		assert.Empty(t, stagingEntries(t, env.text))
		exists, err := env.text.Exists(ctx, "a.txt")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("failed move keeps existing links", func(t *testing.T) {
		env := setupTestEnv(t)
		text := &failingPromote{FilesystemStorage: env.text, fail: "b.txt"}
		svc := NewService(env.repo, env.audio, text, extractor.NewService(env.text))
		env.uploadAudio(t, "a.wav")
		env.uploadText(t, "a_old.txt", "0")

		_, err := svc.UploadText(ctx, []Upload{upload("a_new.txt", "1"), upload("b.txt", "2")}, "en")
		require.Error(t, err)

		linked := env.audioByName(t, "a.wav").TextFilename
		require.NotNil(t, linked)
		assert.Equal(t, "a_old.txt", *linked)
		assert.Len(t, env.ids(t, &models.TextRecord{}), 1)
	})

	t.Run("failed audio move removes moved files", func(t *testing.T) {
		env := setupTestEnv(t)
		audio := &failingPromote{FilesystemStorage: env.audio, fail: "b.wav"}
		svc := NewService(env.repo, audio, env.text, extractor.NewService(env.text))

		_, err := svc.UploadAudio(ctx, []Upload{upload("a.wav", "1"), upload("b.wav", "2")}, AudioMetadata{})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorage))

		assert.Empty(t, env.ids(t, &models.AudioRecord{}))
		files, err := env.audio.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, files)
		assert.Empty(t, stagingEntries(t, env.audio))
	})
}

// pendingAtPromote records which audio rows are committed as pending when
// each file is moved into place
type pendingAtPromote struct {
	*storage.FilesystemStorage
	repo Repository
	seen [][]string
}

func (p *pendingAtPromote) Promote(ctx context.Context, staged *storage.Staged, filename string) error {
	rows, err := p.repo.GetPendingAudio(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Filename)
	}
	p.seen = append(p.seen, names)
	return p.FilesystemStorage.Promote(ctx, staged, filename)
}

func TestServiceImpl_UploadWritesAhead(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	audio := &pendingAtPromote{FilesystemStorage: env.audio, repo: env.repo}
	svc := NewService(env.repo, audio, env.text, extractor.NewService(env.text))

	_, err := svc.UploadAudio(ctx, []Upload{upload("a.wav", "1"), upload("b.wav", "2")}, AudioMetadata{})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"a.wav", "b.wav"}, {"a.wav", "b.wav"}}, audio.seen)

	pending, err := env.repo.GetPendingAudio(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, models.StatusUploaded, env.audioByName(t, "b.wav").Status)
}

func TestServiceImpl_PendingTextIsNotLinked(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	require.NoError(t, env.repo.CreateText(ctx, &models.TextRecord{
		Filename: "p.txt", Status: models.StatusPending, UploadTime: time.Now().UTC(),
	}))

	env.uploadAudio(t, "p.wav")
	assert.Nil(t, env.audioByName(t, "p.wav").TextFilename)
}

func TestServiceImpl_UploadText(t *testing.T) {
	ctx := context.Background()

	t.Run("links existing audio records", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadAudio(t, "sample1.wav", "sample1.mp3", "sample2.wav")
		env.uploadText(t, "sample1_annotation.txt", "hello")

		for _, name := range []string{"sample1.wav", "sample1.mp3"} {
			linked := env.audioByName(t, name).TextFilename
			require.NotNil(t, linked, name)
			assert.Equal(t, "sample1_annotation.txt", *linked)
		}
		assert.Nil(t, env.audioByName(t, "sample2.wav").TextFilename)

		var record models.TextRecord
		require.NoError(t, env.db.First(&record).Error)
		assert.Equal(t, models.StatusUploaded, record.Status)
		assert.Equal(t, "en", record.Language)
	})

	t.Run("relinks to the newest upload", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadAudio(t, "s.wav")
		env.uploadText(t, "s_v1.txt", "1")
		env.uploadText(t, "s_v2.txt", "2")

		linked := env.audioByName(t, "s.wav").TextFilename
		require.NotNil(t, linked)
		assert.Equal(t, "s_v2.txt", *linked)
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.service.UploadText(ctx, []Upload{}, "en")
		assert.ErrorIs(t, err, ErrNoFiles)
	})
}

func TestServiceImpl_List(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)

	env.uploadAudio(t, "a.wav")
	env.uploadText(t, "b_notes.txt", "  the notes \n")
	env.uploadAudio(t, "b.wav")

	listing, err := env.service.List(ctx)
	require.NoError(t, err)

	require.Len(t, listing.Audio, 2)
	assert.Equal(t, "b.wav", listing.Audio[0].Filename)
	assert.Equal(t, "b_notes.txt", listing.Audio[0].TextLabel)
	assert.Equal(t, "the notes", listing.Audio[0].TextContent)

	assert.Equal(t, "a.wav", listing.Audio[1].Filename)
	assert.Equal(t, UnlinkedTextLabel, listing.Audio[1].TextLabel)
	assert.Equal(t, UnlinkedTextContent, listing.Audio[1].TextContent)

	require.Len(t, listing.Text, 1)
	assert.Equal(t, "b_notes.txt", listing.Text[0].Filename)
}

func TestServiceImpl_ListMissingTextFile(t *testing.T) {
	env := setupTestEnv(t)
	env.uploadText(t, "c.txt", "x")
	env.uploadAudio(t, "c.wav")
	require.NoError(t, os.Remove(filepath.Join(env.text.Root(), "c.txt")))

	listing, err := env.service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Audio, 1)
	assert.Equal(t, "c.txt", listing.Audio[0].TextLabel)
	assert.Equal(t, extractor.MessageFileNotFound, listing.Audio[0].TextContent)
}

func TestServiceImpl_DeleteText(t *testing.T) {
	ctx := context.Background()

	t.Run("clears every referencing audio record", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadAudio(t, "s1.wav", "s1.mp3")
		env.uploadText(t, "s1.txt", "x")
		for _, name := range []string{"s1.wav", "s1.mp3"} {
			require.NotNil(t, env.audioByName(t, name).TextFilename)
		}

		result, err := env.service.DeleteText(ctx, env.ids(t, &models.TextRecord{}))
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Deleted)

		for _, name := range []string{"s1.wav", "s1.mp3"} {
			assert.Nil(t, env.audioByName(t, name).TextFilename, name)
		}
		exists, err := env.text.Exists(ctx, "s1.txt")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate filename keeps link and file", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadAudio(t, "d.wav")
		env.uploadText(t, "d.txt", "old")
		env.uploadText(t, "d.txt", "new")

		ids := env.ids(t, &models.TextRecord{})
		require.Len(t, ids, 2)
		_, err := env.service.DeleteText(ctx, ids[:1])
		require.NoError(t, err)

		linked := env.audioByName(t, "d.wav").TextFilename
		require.NotNil(t, linked)
		assert.Equal(t, "d.txt", *linked)
		exists, err := env.text.Exists(ctx, "d.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("unknown ids delete nothing", func(t *testing.T) {
		env := setupTestEnv(t)
		result, err := env.service.DeleteText(ctx, []uint{41, 42})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Deleted)
		assert.Equal(t, []uint{41, 42}, result.RequestedIDs)
	})
}

func TestServiceImpl_DeleteAudio(t *testing.T) {
	ctx := context.Background()

	t.Run("never alters text records", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadText(t, "x_notes.txt", "keep me")
		env.uploadAudio(t, "x.wav")

		var before []models.TextRecord
		require.NoError(t, env.db.Find(&before).Error)

		result, err := env.service.DeleteAudio(ctx, env.ids(t, &models.AudioRecord{}))
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Deleted)

		var after []models.TextRecord
		require.NoError(t, env.db.Find(&after).Error)
		assert.Equal(t, before, after)

		exists, err := env.audio.Exists(ctx, "x.wav")
		require.NoError(t, err)
		assert.False(t, exists)
		exists, err = env.text.Exists(ctx, "x_notes.txt")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("missing file is skipped", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadAudio(t, "gone.wav")
		require.NoError(t, os.Remove(filepath.Join(env.audio.Root(), "gone.wav")))

		result, err := env.service.DeleteAudio(ctx, env.ids(t, &models.AudioRecord{}))
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Deleted)
		assert.Empty(t, env.ids(t, &models.AudioRecord{}))
	})

	t.Run("empty id list is a no-op", func(t *testing.T) {
		env := setupTestEnv(t)
		env.uploadAudio(t, "keep.wav")

		result, err := env.service.DeleteAudio(ctx, []uint{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Deleted)
		assert.Len(t, env.ids(t, &models.AudioRecord{}), 1)
	})
}
