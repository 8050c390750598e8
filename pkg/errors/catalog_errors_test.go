package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToAppError(t *testing.T) {
	cause := errors.New("throttled")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   ErrorType
		wantCode   string
	}{
		{
			name:       "duplicate name",
			err:        &DuplicateNameError{Name: "Widget"},
			wantStatus: http.StatusConflict,
			wantType:   ErrorTypeConflict,
			wantCode:   CodeDuplicateName,
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("query: %w", &ProductNotFoundError{ID: "p-1"}),
			wantStatus: http.StatusNotFound,
			wantType:   ErrorTypeNotFound,
			wantCode:   CodeProductNotFound,
		},
		{
			name:       "malformed record",
			err:        &MalformedRecordError{Field: "name", Reason: "is missing"},
			wantStatus: http.StatusInternalServerError,
			wantType:   ErrorTypeInternal,
			wantCode:   CodeMalformedRecord,
		},
		{
			name:       "storage write",
			err:        &StorageWriteError{Operation: "PutItem", Code: "ProvisionedThroughputExceededException", Cause: cause},
			wantStatus: http.StatusInternalServerError,
			wantType:   ErrorTypeDatabase,
			wantCode:   CodeStorageWrite,
		},
		{
			name:       "storage read",
			err:        &StorageReadError{Operation: "Query", Cause: cause},
			wantStatus: http.StatusInternalServerError,
			wantType:   ErrorTypeDatabase,
			wantCode:   CodeStorageRead,
		},
		{
			name:       "validation passes through",
			err:        NewValidationError("name is required"),
			wantStatus: http.StatusBadRequest,
			wantType:   ErrorTypeValidation,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   ErrorTypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantStatus, appErr.HTTPStatus)
			assert.Equal(t, tt.wantType, appErr.Type)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestToAppError_Messages(t *testing.T) {
	dup := ToAppError(&DuplicateNameError{Name: "Widget"})
	assert.Equal(t, `product with name "Widget" already exists`, dup.Message)
	assert.Equal(t, "Widget", dup.Details["name"])

	nf := ToAppError(&ProductNotFoundError{ID: "nonexistent-id"})
	assert.Equal(t, `product with id "nonexistent-id" not found`, nf.Message)
}

func TestStorageErrors_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("create: %w", &StorageWriteError{Operation: "PutItem", Cause: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), `storage write "PutItem" failed: connection reset`)

	read := &StorageReadError{Code: "InternalServerError"}
	assert.Equal(t, "storage read failed [InternalServerError]", read.Error())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "", Classify(nil))
	assert.Equal(t, "DuplicateName", Classify(&DuplicateNameError{}))
	assert.Equal(t, "ProductNotFound", Classify(&ProductNotFoundError{}))
	assert.Equal(t, "MalformedRecord", Classify(&MalformedRecordError{}))
	assert.Equal(t, "StorageWrite", Classify(&StorageWriteError{}))
	assert.Equal(t, "StorageRead", Classify(&StorageReadError{}))
	assert.Equal(t, "Validation", Classify(NewValidationError("bad")))
	assert.Equal(t, "Unknown", Classify(errors.New("boom")))
}

func TestPredicates(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", &DuplicateNameError{Name: "a"})
	assert.True(t, IsDuplicateName(wrapped))
	assert.False(t, IsProductNotFound(wrapped))
	assert.True(t, IsProductNotFound(&ProductNotFoundError{ID: "x"}))
	assert.True(t, IsMalformedRecord(&MalformedRecordError{}))
}
