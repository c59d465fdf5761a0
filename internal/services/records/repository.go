package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/killallgit/corpus-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new record repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// newestFirst orders by upload time, breaking ties by insertion order
var newestFirst = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "upload_time"}, Desc: true},
	{Column: clause.Column{Name: "id"}, Desc: true},
}}

// CreateAudio inserts an audio record
func (r *RepositoryImpl) CreateAudio(ctx context.Context, record *models.AudioRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("creating audio record: %w", err)
	}
	return nil
}

// CreateText inserts a text record
func (r *RepositoryImpl) CreateText(ctx context.Context, record *models.TextRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("creating text record: %w", err)
	}
	return nil
}

// ListAudio returns every audio record, most recent upload first
func (r *RepositoryImpl) ListAudio(ctx context.Context) ([]models.AudioRecord, error) {
	var records []models.AudioRecord
	if err := r.db.WithContext(ctx).Clauses(newestFirst).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing audio records: %w", err)
	}
	return records, nil
}

// ListText returns every text record, most recent upload first
func (r *RepositoryImpl) ListText(ctx context.Context) ([]models.TextRecord, error) {
	var records []models.TextRecord
	if err := r.db.WithContext(ctx).Clauses(newestFirst).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing text records: %w", err)
	}
	return records, nil
}

// GetAudioByIDs returns the audio records with the given IDs
func (r *RepositoryImpl) GetAudioByIDs(ctx context.Context, ids []uint) ([]models.AudioRecord, error) {
	var records []models.AudioRecord
	if len(ids) == 0 {
		return records, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("getting audio records: %w", err)
	}
	return records, nil
}

// GetTextByIDs returns the text records with the given IDs
func (r *RepositoryImpl) GetTextByIDs(ctx context.Context, ids []uint) ([]models.TextRecord, error) {
	var records []models.TextRecord
	if len(ids) == 0 {
		return records, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("getting text records: %w", err)
	}
	return records, nil
}

// GetPendingAudio returns audio records whose file was never confirmed in place
func (r *RepositoryImpl) GetPendingAudio(ctx context.Context) ([]models.AudioRecord, error) {
	var records []models.AudioRecord
	if err := r.db.WithContext(ctx).Where("status = ?", models.StatusPending).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("getting pending audio records: %w", err)
	}
	return records, nil
}

// GetPendingText returns text records whose file was never confirmed in place
func (r *RepositoryImpl) GetPendingText(ctx context.Context) ([]models.TextRecord, error) {
	var records []models.TextRecord
	if err := r.db.WithContext(ctx).Where("status = ?", models.StatusPending).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("getting pending text records: %w", err)
	}
	return records, nil
}

// FindTextForAudio picks the most recently uploaded text record whose
// filename starts with baseName. Pending rows are not candidates.
func (r *RepositoryImpl) FindTextForAudio(ctx context.Context, baseName string) (*models.TextRecord, error) {
	if baseName == "" {
		return nil, nil
	}

	// LIKE is case-insensitive in SQLite, so it only narrows the candidates
	var candidates []models.TextRecord
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusUploaded).
		Where("filename LIKE ? ESCAPE '\\'", escapeLike(baseName)+"%").
		Clauses(newestFirst).
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("finding text record for %s: %w", baseName, err)
	}

	for i := range candidates {
		if strings.HasPrefix(candidates[i].Filename, baseName) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// FilenamesInUse returns which of the given filenames still have a row
func (r *RepositoryImpl) FilenamesInUse(ctx context.Context, model any, filenames []string) (map[string]bool, error) {
	inUse := make(map[string]bool)
	if len(filenames) == 0 {
		return inUse, nil
	}

	var found []string
	err := r.db.WithContext(ctx).Model(model).
		Where("filename IN ?", filenames).
		Distinct().
		Pluck("filename", &found).Error
	if err != nil {
		return nil, fmt.Errorf("checking filenames: %w", err)
	}
	for _, name := range found {
		inUse[name] = true
	}
	return inUse, nil
}

// LinkAudioToText points every audio record whose base name prefixes
// textFilename at that text file
func (r *RepositoryImpl) LinkAudioToText(ctx context.Context, textFilename string) (int64, error) {
	var audio []models.AudioRecord
	if err := r.db.WithContext(ctx).Select("id", "filename").Find(&audio).Error; err != nil {
		return 0, fmt.Errorf("loading audio filenames: %w", err)
	}

	var ids []uint
	for _, a := range audio {
		if Matches(a.Filename, textFilename) {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Model(&models.AudioRecord{}).
		Where("id IN ?", ids).
		Update("text_filename", textFilename)
	if result.Error != nil {
		return 0, fmt.Errorf("linking audio records to %s: %w", textFilename, result.Error)
	}
	return result.RowsAffected, nil
}

// ClearTextFilename nulls text_filename on audio records referencing any of
// the given text filenames
func (r *RepositoryImpl) ClearTextFilename(ctx context.Context, textFilenames []string) (int64, error) {
	if len(textFilenames) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.AudioRecord{}).
		Where("text_filename IN ?", textFilenames).
		Update("text_filename", gorm.Expr("NULL"))
	if result.Error != nil {
		return 0, fmt.Errorf("clearing text links: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// SetAudioStatus updates the status of the given audio records
func (r *RepositoryImpl) SetAudioStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, &models.AudioRecord{}, ids, status)
}

// SetTextStatus updates the status of the given text records
func (r *RepositoryImpl) SetTextStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, &models.TextRecord{}, ids, status)
}

func (r *RepositoryImpl) setStatus(ctx context.Context, model any, ids []uint, status string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(model).Where("id IN ?", ids).Update("status", status).Error
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

// DeleteAudio deletes audio records by ID
func (r *RepositoryImpl) DeleteAudio(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&models.AudioRecord{}, ids)
	if result.Error != nil {
		return 0, fmt.Errorf("deleting audio records: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteText deletes text records by ID
func (r *RepositoryImpl) DeleteText(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&models.TextRecord{}, ids)
	if result.Error != nil {
		return 0, fmt.Errorf("deleting text records: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Transaction runs fn inside a database transaction
func (r *RepositoryImpl) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	if fn == nil {
		return errors.New("nil transaction function")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RepositoryImpl{db: tx})
	})
}
