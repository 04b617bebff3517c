// internal/domain/models/meta.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meta is embedded (inline) in every persisted console record.
// The records store assigns ID and CreatedAt on insert and refreshes
// UpdatedAt on every update.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Stamp sets the identity fields of a new record.
func (m *Meta) Stamp(id primitive.ObjectID, now time.Time) {
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = nil
}

// RecordID returns the record's ObjectID.
func (m *Meta) RecordID() primitive.ObjectID {
	return m.ID
}

// Touch marks the record as updated at now.
func (m *Meta) Touch(now time.Time) {
	m.UpdatedAt = &now
}
