package models

// Record status values
const (
	// StatusPending marks a row written ahead of its file being moved into place
	StatusPending = "pending"
	// StatusUploaded marks a row whose file is stored under its final name
	StatusUploaded = "upload succeeded"
)

// All returns every model managed by the record store, in migration order
func All() []any {
	return []any{&AudioRecord{}, &TextRecord{}}
}
