package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/corpus-api/api/types"
	"github.com/killallgit/corpus-api/internal/services/records"
)

// Form field names carrying the uploaded files
const (
	AudioField = "audio[]"
	TextField  = "text[]"
)

// Client error messages for upload requests
const (
	MessageNoFiles      = "no files uploaded"
	MessageNoneSelected = "no files selected"
	MessageTooLarge     = "request body too large"
	SuccessMessage      = "files uploaded successfully"
)

// maxValueBytes caps a single non-file form value
const maxValueBytes = 64 << 10

// uploadForm is a multipart upload read in part order. File parts are
// spooled to temporary files that live until Close.
type uploadForm struct {
	files  []records.Upload
	values map[string]string
	temp   []string
}

// Value returns the first value sent for a non-file field
func (f *uploadForm) Value(key string) string {
	return f.values[key]
}

// Close removes the spooled files
func (f *uploadForm) Close() {
	for _, path := range f.temp {
		os.Remove(path)
	}
	f.temp = nil
}

// readForm reads the parts of a multipart upload, keeping the files of one
// field in the order they were sent. A file input left empty arrives as a
// part without a filename; the batch is rejected if its first part is one.
// Returns false and sends an error response if the field is absent or empty.
func readForm(c *gin.Context, field string) (*uploadForm, bool) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		types.SendBadRequest(c, MessageNoFiles)
		return nil, false
	}

	form := &uploadForm{values: make(map[string]string)}
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			form.Close()
			sendReadError(c, err)
			return nil, false
		}

		err = form.add(p, field)
		p.Close()
		if err != nil {
			form.Close()
			sendReadError(c, err)
			return nil, false
		}
		if len(form.files) == 1 && form.files[0].Filename == "" {
			form.Close()
			types.SendBadRequest(c, MessageNoneSelected)
			return nil, false
		}
	}

	if len(form.files) == 0 {
		types.SendBadRequest(c, MessageNoFiles)
		return nil, false
	}
	return form, true
}

func (f *uploadForm) add(p *multipart.Part, field string) error {
	name := p.FormName()
	filename := p.FileName()

	switch {
	case name == field && filename == "":
		f.files = append(f.files, records.Upload{})
	case name == field:
		path, err := spool(p)
		if err != nil {
			return err
		}
		f.temp = append(f.temp, path)
		f.files = append(f.files, records.Upload{
			Filename: filename,
			Open: func() (io.ReadCloser, error) {
				return os.Open(path)
			},
		})
	case filename == "" && name != "":
		data, err := io.ReadAll(io.LimitReader(p, maxValueBytes))
		if err != nil {
			return err
		}
		if _, seen := f.values[name]; !seen {
			f.values[name] = string(data)
		}
	}
	return nil
}

// spool copies a file part to a temporary file and returns its path
func spool(r io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "corpus-upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return path, nil
}

func sendReadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: MessageTooLarge})
		return
	}
	types.SendBadRequest(c, MessageNoFiles)
}
