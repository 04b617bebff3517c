// internal/app/store/records/errors.go
package records

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when an id string is not a valid ObjectID.
	ErrInvalidID = errors.New("invalid record id")

	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("a record with these values already exists")

	// ErrUnknownField is returned when a patch names a field the record does not have.
	ErrUnknownField = errors.New("unknown field")

	// ErrBadBody is returned when a JSON body cannot be decoded into a record.
	ErrBadBody = errors.New("invalid request body")
)

// ParseID converts a hex string into an ObjectID, mapping failures to ErrInvalidID.
func ParseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
