package models

import "time"

// AudioRecord is the metadata row for an uploaded audio file.
// TextFilename references TextRecord.Filename rather than its ID.
type AudioRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Filename     string    `gorm:"not null;index" json:"filename"`
	Language     string    `gorm:"not null" json:"language"`
	SampleRate   string    `gorm:"not null" json:"sample_rate"`
	Channels     string    `gorm:"not null" json:"channels"`
	Status       string    `gorm:"not null" json:"status"`
	UploadTime   time.Time `gorm:"not null;index" json:"upload_time"`
	Uploader     string    `gorm:"not null" json:"uploader"`
	TextFilename *string   `gorm:"index" json:"text_filename"`
}

// TableName returns the table name for the AudioRecord model
func (AudioRecord) TableName() string {
	return "audio_records"
}

// Linked reports whether the record is associated with a text file
func (a *AudioRecord) Linked() bool {
	return a.TextFilename != nil && *a.TextFilename != ""
}
