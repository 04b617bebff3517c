// internal/domain/models/operator.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operator is a console user. Operators sign in with email + password.
type Operator struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Status       string             `bson:"status" json:"status"` // active | disabled
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
	LastLoginAt  *time.Time         `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}
