package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", InvalidInput("bad ids"), http.StatusBadRequest},
		{"missing field", MissingFieldError("audio[]", "no files uploaded"), http.StatusBadRequest},
		{"database", DatabaseError("insert", fmt.Errorf("disk I/O error")), http.StatusInternalServerError},
		{"storage", StorageError("write", fmt.Errorf("no space left")), http.StatusInternalServerError},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("upload: %w", InvalidInput("bad")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPCode(tt.err))
		})
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := fmt.Errorf("delete: %w", DatabaseError("delete", fmt.Errorf("locked")))

	assert.True(t, Is(err, ErrCodeDatabaseQuery))
	assert.False(t, Is(err, ErrCodeStorage))
	assert.Equal(t, ErrCodeDatabaseQuery, GetCode(err))
	assert.Equal(t, ErrCodeInternal, GetCode(fmt.Errorf("plain")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "no files selected", Message(InvalidInput("no files selected")))
	assert.Equal(t, "database delete failed: locked", Message(DatabaseError("delete", fmt.Errorf("locked"))))
	assert.Equal(t, "plain", Message(fmt.Errorf("plain")))
}

func TestAppError_Error(t *testing.T) {
	err := StorageError("write", fmt.Errorf("denied"))
	assert.Equal(t, "STORAGE: file write failed (caused by: denied)", err.Error())
	assert.Equal(t, "write", err.Details["operation"])

	plain := New(ErrCodeValidation, "bad")
	assert.Equal(t, "VALIDATION: bad", plain.Error())
	assert.Nil(t, plain.Unwrap())
}
