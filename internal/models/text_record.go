package models

import "time"

// TextRecord is the metadata row for an uploaded transcript or annotation file.
type TextRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Filename   string    `gorm:"not null;index" json:"filename"`
	Language   string    `gorm:"not null" json:"language"`
	Status     string    `gorm:"not null" json:"status"`
	UploadTime time.Time `gorm:"not null;index" json:"upload_time"`
	Uploader   string    `gorm:"not null" json:"uploader"`
}

// TableName returns the table name for the TextRecord model
func (TextRecord) TableName() string {
	return "text_records"
}
