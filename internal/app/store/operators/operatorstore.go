// internal/app/store/operators/operatorstore.go
package operatorstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/opsconsole/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Operator states.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// bcryptCost matches the cost used for every stored password hash.
const bcryptCost = 12

var (
	ErrDuplicateOperator = errors.New("an operator with this email already exists")
	ErrNotFound          = errors.New("operator not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("operators")}
}

// Create stores a new active operator with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, email, fullName, password string) (models.Operator, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.Operator{}, err
	}
	now := time.Now().UTC()
	email = strings.TrimSpace(email)
	op := models.Operator{
		ID:           primitive.NewObjectID(),
		FullName:     fullName,
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: hash,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, op); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Operator{}, ErrDuplicateOperator
		}
		return models.Operator{}, err
	}
	return op, nil
}

// GetByEmail looks an operator up by case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Operator, error) {
	var op models.Operator
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(strings.TrimSpace(email))}).Decode(&op)
	if err == mongo.ErrNoDocuments {
		return models.Operator{}, ErrNotFound
	}
	if err != nil {
		return models.Operator{}, err
	}
	return op, nil
}

// Ensure creates the operator if no operator with that email exists.
// It reports whether a new operator was created. Existing passwords are left alone.
func (s *Store) Ensure(ctx context.Context, email, password string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	name, _, _ := strings.Cut(email, "@")
	if _, err := s.Create(ctx, email, name, password); err != nil {
		// Another instance won the race.
		if errors.Is(err, ErrDuplicateOperator) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// TouchLastLogin records a successful sign-in time.
func (s *Store) TouchLastLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login_at": now, "updated_at": now}})
	return err
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the operator's stored hash.
func CheckPassword(op models.Operator, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) == nil
}
