// internal/app/store/records/watch.go
package records

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Op names a mutation kind.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Observer is told about every mutation attempt after it completes.
// err is nil on success.
type Observer interface {
	RecordChanged(ctx context.Context, table string, op Op, id primitive.ObjectID, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, table string, op Op, id primitive.ObjectID, err error)

func (f ObserverFunc) RecordChanged(ctx context.Context, table string, op Op, id primitive.ObjectID, err error) {
	f(ctx, table, op, id, err)
}

// Observers fans a change out to several observers in order.
type Observers []Observer

func (os Observers) RecordChanged(ctx context.Context, table string, op Op, id primitive.ObjectID, err error) {
	for _, o := range os {
		if o != nil {
			o.RecordChanged(ctx, table, op, id, err)
		}
	}
}

// Watch wraps repo so obs sees every Insert, Update and Delete.
// A nil observer returns repo unchanged.
func Watch[T any, P Record[T]](repo Repository[T], table string, obs Observer) Repository[T] {
	if obs == nil {
		return repo
	}
	return &watched[T, P]{Repository: repo, table: table, obs: obs}
}

type watched[T any, P Record[T]] struct {
	Repository[T]
	table string
	obs   Observer
}

func (w *watched[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	out, err := w.Repository.Insert(ctx, rec)
	w.obs.RecordChanged(ctx, w.table, OpInsert, P(&out).RecordID(), err)
	return out, err
}

func (w *watched[T, P]) Update(ctx context.Context, id primitive.ObjectID, patch Patch) (T, error) {
	out, err := w.Repository.Update(ctx, id, patch)
	w.obs.RecordChanged(ctx, w.table, OpUpdate, id, err)
	return out, err
}

func (w *watched[T, P]) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	n, err := w.Repository.Delete(ctx, id)
	if err == nil && n == 0 {
		return n, nil
	}
	w.obs.RecordChanged(ctx, w.table, OpDelete, id, err)
	return n, err
}

// Open returns the watched Repository for table, the usual way feature
// stores obtain one.
func Open[T any, P Record[T]](db *mongo.Database, table string, obs Observer) Repository[T] {
	return Watch[T, P](New[T, P](db, table), table, obs)
}
