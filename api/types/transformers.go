package types

import (
	"fmt"

	"github.com/killallgit/corpus-api/internal/models"
	"github.com/killallgit/corpus-api/internal/services/records"
)

// FromAudioEntry converts a listed audio record to its API view
func FromAudioEntry(entry records.AudioEntry) AudioRecordView {
	return AudioRecordView{
		ID:           entry.ID,
		Filename:     entry.Filename,
		Language:     entry.Language,
		SampleRate:   entry.SampleRate,
		Channels:     entry.Channels,
		Status:       entry.Status,
		UploadTime:   entry.UploadTime.Format(UploadTimeLayout),
		Uploader:     entry.Uploader,
		TextFilename: entry.TextLabel,
		TextContent:  entry.TextContent,
	}
}

// FromTextRecord converts a text record to its API view
func FromTextRecord(record models.TextRecord) TextRecordView {
	return TextRecordView{
		ID:         record.ID,
		Filename:   record.Filename,
		Language:   record.Language,
		Status:     record.Status,
		UploadTime: record.UploadTime.Format(UploadTimeLayout),
		Uploader:   record.Uploader,
	}
}

// NewRecordsResponse builds the combined listing. Both collections are
// always present, empty rather than null.
func NewRecordsResponse(listing *records.Listing) RecordsResponse {
	response := RecordsResponse{
		AudioRecords: make([]AudioRecordView, 0),
		TextRecords:  make([]TextRecordView, 0),
	}
	if listing == nil {
		return response
	}
	for _, entry := range listing.Audio {
		response.AudioRecords = append(response.AudioRecords, FromAudioEntry(entry))
	}
	for _, record := range listing.Text {
		response.TextRecords = append(response.TextRecords, FromTextRecord(record))
	}
	return response
}

// NewDeleteResponse reports a delete-by-ids request
func NewDeleteResponse(result *records.DeleteResult) DeleteResponse {
	ids := result.RequestedIDs
	if ids == nil {
		ids = []uint{}
	}
	return DeleteResponse{
		Message:      fmt.Sprintf("deleted %d records", result.Deleted),
		DeletedIDs:   ids,
		DeletedCount: result.Deleted,
	}
}
