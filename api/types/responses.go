package types

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// UploadTimeLayout is how upload timestamps are rendered in listings
const UploadTimeLayout = "2006-01-02 15:04:05"

// ErrorResponse is returned with every 4xx and 5xx status
type ErrorResponse struct {
	Status  string      `json:"status,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error" example:"no files uploaded"`
	Details interface{} `json:"details,omitempty"`
}

// UploadAudioResponse for POST /upload
type UploadAudioResponse struct {
	Message    string   `json:"message" example:"files uploaded successfully"`
	Files      []string `json:"files" example:"sample1.wav"`
	Language   string   `json:"language" example:"en"`
	SampleRate string   `json:"sample_rate" example:"16000"`
	Channels   string   `json:"channels" example:"1"`
	TotalFiles int      `json:"total_files" example:"1"`
}

// UploadTextResponse for POST /upload_text
type UploadTextResponse struct {
	Message    string   `json:"message" example:"files uploaded successfully"`
	Files      []string `json:"files" example:"sample1_annotation.txt"`
	Language   string   `json:"language" example:"en"`
	TotalFiles int      `json:"total_files" example:"1"`
}

// AudioRecordView is one audio entry of GET /records
type AudioRecordView struct {
	ID           uint   `json:"id" example:"1"`
	Filename     string `json:"filename" example:"sample1.wav"`
	Language     string `json:"language" example:"en"`
	SampleRate   string `json:"sample_rate" example:"16000"`
	Channels     string `json:"channels" example:"1"`
	Status       string `json:"status" example:"upload succeeded"`
	UploadTime   string `json:"upload_time" example:"2024-05-01 12:00:00"`
	Uploader     string `json:"uploader" example:"admin"`
	TextFilename string `json:"text_filename" example:"sample1_annotation.txt"`
	TextContent  string `json:"text_content" example:"hello world"`
}

// TextRecordView is one text entry of GET /records
type TextRecordView struct {
	ID         uint   `json:"id" example:"1"`
	Filename   string `json:"filename" example:"sample1_annotation.txt"`
	Language   string `json:"language" example:"en"`
	Status     string `json:"status" example:"upload succeeded"`
	UploadTime string `json:"upload_time" example:"2024-05-01 12:00:00"`
	Uploader   string `json:"uploader" example:"admin"`
}

// RecordsResponse for GET /records
type RecordsResponse struct {
	AudioRecords []AudioRecordView `json:"audio_records"`
	TextRecords  []TextRecordView  `json:"text_records"`
}

// DeleteRequest is the body of POST /delete_audio and POST /delete_text
type DeleteRequest struct {
	IDs []uint `json:"ids" example:"1,2"`
}

// DeleteResponse for the delete endpoints
type DeleteResponse struct {
	Message      string `json:"message" example:"deleted 2 records"`
	DeletedIDs   []uint `json:"deleted_ids" example:"1,2"`
	DeletedCount int64  `json:"deleted_count" example:"2"`
}
