package records

import (
	"context"
	"io"

	"github.com/killallgit/corpus-api/internal/models"
)

// Repository defines the interface for audio and text record data access
type Repository interface {
	// Create operations
	CreateAudio(ctx context.Context, record *models.AudioRecord) error
	CreateText(ctx context.Context, record *models.TextRecord) error

	// Read operations
	ListAudio(ctx context.Context) ([]models.AudioRecord, error)
	ListText(ctx context.Context) ([]models.TextRecord, error)
	GetAudioByIDs(ctx context.Context, ids []uint) ([]models.AudioRecord, error)
	GetTextByIDs(ctx context.Context, ids []uint) ([]models.TextRecord, error)
	GetPendingAudio(ctx context.Context) ([]models.AudioRecord, error)
	GetPendingText(ctx context.Context) ([]models.TextRecord, error)

	// FindTextForAudio returns the text record to link to an audio file with
	// the given base name, or nil when nothing matches
	FindTextForAudio(ctx context.Context, baseName string) (*models.TextRecord, error)

	// FilenamesInUse returns the subset of filenames still carried by a row of
	// the given model (&models.AudioRecord{} or &models.TextRecord{})
	FilenamesInUse(ctx context.Context, model any, filenames []string) (map[string]bool, error)

	// Update operations
	LinkAudioToText(ctx context.Context, textFilename string) (int64, error)
	ClearTextFilename(ctx context.Context, textFilenames []string) (int64, error)
	SetAudioStatus(ctx context.Context, ids []uint, status string) error
	SetTextStatus(ctx context.Context, ids []uint, status string) error

	// Delete operations
	DeleteAudio(ctx context.Context, ids []uint) (int64, error)
	DeleteText(ctx context.Context, ids []uint) (int64, error)

	// Transaction runs fn against a repository bound to a single transaction.
	// Returning an error from fn rolls the transaction back.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
}

// Service defines the interface for record management
type Service interface {
	UploadAudio(ctx context.Context, files []Upload, meta AudioMetadata) (*UploadResult, error)
	UploadText(ctx context.Context, files []Upload, language string) (*UploadResult, error)
	List(ctx context.Context) (*Listing, error)
	DeleteAudio(ctx context.Context, ids []uint) (*DeleteResult, error)
	DeleteText(ctx context.Context, ids []uint) (*DeleteResult, error)
}

// TextExtractor resolves a stored text file to its content
type TextExtractor interface {
	Extract(ctx context.Context, filename string) string
}

// Upload is one file of a multipart batch
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// AudioMetadata is shared by every file of an audio batch. Values are free-form.
type AudioMetadata struct {
	Language   string
	SampleRate string
	Channels   string
}

// UploadResult lists the accepted filenames of a batch
type UploadResult struct {
	Files []string
}

// DeleteResult reports a delete-by-ids request
type DeleteResult struct {
	RequestedIDs []uint
	Deleted      int64
}

// AudioEntry is an audio record with its linked text resolved
type AudioEntry struct {
	models.AudioRecord
	TextLabel   string
	TextContent string
}

// Listing holds both record collections, most recent upload first
type Listing struct {
	Audio []AudioEntry
	Text  []models.TextRecord
}
