// internal/app/store/records/store.go
package records

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is the pointer constraint every stored type satisfies by embedding models.Meta.
type Record[T any] interface {
	*T
	Stamp(id primitive.ObjectID, now time.Time)
	RecordID() primitive.ObjectID
}

// Repository is the single-call CRUD surface feature handlers depend on.
// Each call is independent: no retry, no transaction, no batching.
type Repository[T any] interface {
	Select(ctx context.Context, q Query) ([]T, error)
	Get(ctx context.Context, id primitive.ObjectID) (T, error)
	Insert(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id primitive.ObjectID, patch Patch) (T, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Each(ctx context.Context, filter bson.M, fn func(T) error) error
}

// Store is a Repository backed by one MongoDB collection.
type Store[T any, P Record[T]] struct {
	c      *mongo.Collection
	fields map[string]bool
}

// New returns a Store for the named table.
func New[T any, P Record[T]](db *mongo.Database, table string) *Store[T, P] {
	return &Store[T, P]{c: db.Collection(table), fields: Fields[T]()}
}

// Table returns the backing collection name.
func (s *Store[T, P]) Table() string { return s.c.Name() }

// Select returns matching records, newest first unless q.Sort says otherwise.
func (s *Store[T, P]) Select(ctx context.Context, q Query) ([]T, error) {
	opts := options.Find().SetSort(q.sort()).SetLimit(q.limit())
	cur, err := s.c.Find(ctx, q.filter(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store[T, P]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	var rec T
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return rec, nil
}

// Insert assigns an id (unless one is set) and created_at, then stores rec.
func (s *Store[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	p := P(&rec)
	id := p.RecordID()
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	p.Stamp(id, time.Now().UTC())

	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		var zero T
		if wafflemongo.IsDup(err) {
			return zero, ErrDuplicate
		}
		return zero, err
	}
	return rec, nil
}

// Update applies patch to the record with the given id, refreshes updated_at
// and returns the stored result.
func (s *Store[T, P]) Update(ctx context.Context, id primitive.ObjectID, patch Patch) (T, error) {
	var zero T
	if err := patch.check(s.fields); err != nil {
		return zero, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec T
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, patch.update(time.Now().UTC()), opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return zero, ErrDuplicate
		}
		return zero, err
	}
	return rec, nil
}

// Delete removes a record by id. Returns the number of documents deleted (0 or 1).
func (s *Store[T, P]) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store[T, P]) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.c.CountDocuments(ctx, filter)
}

// Each walks every matching record, newest first, without the MaxLimit cap.
// It stops at the first error fn returns.
func (s *Store[T, P]) Each(ctx context.Context, filter bson.M, fn func(T) error) error {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().SetSort(Query{}.sort())
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var rec T
		if err := cur.Decode(&rec); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return cur.Err()
}
