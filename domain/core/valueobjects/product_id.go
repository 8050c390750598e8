package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// ProductID is a value object representing a unique product identifier.
// New IDs are UUIDv7: the leading 48 bits hold the Unix millisecond timestamp,
// so the canonical string form sorts in creation order.
type ProductID struct {
	value string
}

// IDGenerator produces fresh product identifiers without any I/O
type IDGenerator interface {
	NewID() ProductID
}

// UUIDv7Generator is the default IDGenerator
type UUIDv7Generator struct{}

// NewID implements IDGenerator
func (UUIDv7Generator) NewID() ProductID {
	return NewProductID()
}

// NewProductID creates a new time-sortable ProductID
func NewProductID() ProductID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source fails
		return ProductID{value: uuid.New().String()}
	}
	return ProductID{value: id.String()}
}

// ProductIDFromString wraps an existing identifier.
// IDs are opaque to callers, so anything non-empty is accepted.
func ProductIDFromString(id string) (ProductID, error) {
	if id == "" {
		return ProductID{}, errors.New("product ID cannot be empty")
	}
	return ProductID{value: id}, nil
}

// String returns the string representation of the ProductID
func (id ProductID) String() string {
	return id.value
}

// Equals checks if two ProductIDs are equal
func (id ProductID) Equals(other ProductID) bool {
	return id.value == other.value
}

// IsZero checks if the ProductID is the zero value
func (id ProductID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id ProductID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ProductID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("ProductID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
