package errors

import (
	"errors"
	"fmt"
)

// DuplicateNameError is returned when a product with the same name already exists
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("product with name %q already exists", e.Name)
}

// ProductNotFoundError is returned when no product matches the given id
type ProductNotFoundError struct {
	ID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %q not found", e.ID)
}

// MalformedRecordError is returned when a stored item cannot be decoded into a product.
// It points at corrupt data or schema drift, never at a missing product.
type MalformedRecordError struct {
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed product record: %s %s", e.Field, e.Reason)
}

// StorageWriteError is returned when the store fails to persist a product
type StorageWriteError struct {
	Operation string
	Code      string // provider error code, when the provider reported one
	Cause     error
}

func (e *StorageWriteError) Error() string {
	return storageMessage("write", e.Operation, e.Code, e.Cause)
}

func (e *StorageWriteError) Unwrap() error { return e.Cause }

// StorageReadError is returned when the store fails to answer a read
type StorageReadError struct {
	Operation string
	Code      string
	Cause     error
}

func (e *StorageReadError) Error() string {
	return storageMessage("read", e.Operation, e.Code, e.Cause)
}

func (e *StorageReadError) Unwrap() error { return e.Cause }

func storageMessage(kind, operation, code string, cause error) string {
	msg := fmt.Sprintf("storage %s failed", kind)
	if operation != "" {
		msg = fmt.Sprintf("storage %s %q failed", kind, operation)
	}
	if code != "" {
		msg += " [" + code + "]"
	}
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return msg
}

// Error codes attached to AppErrors built from catalog errors
const (
	CodeDuplicateName   = "DUPLICATE_NAME"
	CodeProductNotFound = "PRODUCT_NOT_FOUND"
	CodeMalformedRecord = "MALFORMED_RECORD"
	CodeStorageWrite    = "STORAGE_WRITE_FAILED"
	CodeStorageRead     = "STORAGE_READ_FAILED"
)

// ToAppError maps any error onto an AppError carrying the HTTP status for it
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr := GetAppError(err); appErr != nil {
		return appErr
	}

	var (
		dupErr       *DuplicateNameError
		notFoundErr  *ProductNotFoundError
		malformedErr *MalformedRecordError
		writeErr     *StorageWriteError
		readErr      *StorageReadError
	)

	switch {
	case errors.As(err, &dupErr):
		return NewConflictError(dupErr.Error()).
			WithCode(CodeDuplicateName).
			WithDetails(map[string]interface{}{"name": dupErr.Name}).
			WithCause(err)
	case errors.As(err, &notFoundErr):
		appErr := NewNotFoundError("product").
			WithCode(CodeProductNotFound).
			WithDetails(map[string]interface{}{"id": notFoundErr.ID}).
			WithCause(err)
		appErr.Message = notFoundErr.Error()
		return appErr
	case errors.As(err, &malformedErr):
		return NewInternalError("stored product record is malformed").
			WithCode(CodeMalformedRecord).
			WithCause(err)
	case errors.As(err, &writeErr):
		return NewDatabaseError("write", err).WithCode(CodeStorageWrite)
	case errors.As(err, &readErr):
		return NewDatabaseError("read", err).WithCode(CodeStorageRead)
	default:
		return NewInternalError("An internal error occurred").WithCause(err)
	}
}

// Classify returns a short, stable name for the error class, used as a metric label
func Classify(err error) string {
	var (
		dupErr       *DuplicateNameError
		notFoundErr  *ProductNotFoundError
		malformedErr *MalformedRecordError
		writeErr     *StorageWriteError
		readErr      *StorageReadError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &dupErr):
		return "DuplicateName"
	case errors.As(err, &notFoundErr):
		return "ProductNotFound"
	case errors.As(err, &malformedErr):
		return "MalformedRecord"
	case errors.As(err, &writeErr):
		return "StorageWrite"
	case errors.As(err, &readErr):
		return "StorageRead"
	case IsValidation(err):
		return "Validation"
	default:
		return "Unknown"
	}
}

// IsDuplicateName reports whether err is a DuplicateNameError
func IsDuplicateName(err error) bool {
	var target *DuplicateNameError
	return errors.As(err, &target)
}

// IsProductNotFound reports whether err is a ProductNotFoundError
func IsProductNotFound(err error) bool {
	var target *ProductNotFoundError
	return errors.As(err, &target)
}

// IsMalformedRecord reports whether err is a MalformedRecordError
func IsMalformedRecord(err error) bool {
	var target *MalformedRecordError
	return errors.As(err, &target)
}
