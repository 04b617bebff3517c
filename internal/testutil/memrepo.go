package testutil

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemRepo is an in-memory records.Repository for handler tests.
// Filters support plain equality plus $in, $gt, $gte, $lt and $lte.
// Results are always newest first; Query.Sort is ignored.
//
// Setting one of the *Err fields makes the matching call fail with it.
type MemRepo[T any, P records.Record[T]] struct {
	mu   sync.Mutex
	rows []T
	seq  int64

	SelectErr error
	InsertErr error
	UpdateErr error
	DeleteErr error

	// Calls counts Select invocations, so tests can check reloads.
	Calls int
}

// NewMemRepo returns an empty MemRepo.
func NewMemRepo[T any, P records.Record[T]]() *MemRepo[T, P] {
	return &MemRepo[T, P]{}
}

// Seed stores recs through Insert and returns the stored copies.
func (m *MemRepo[T, P]) Seed(recs ...T) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		stored, err := m.Insert(context.Background(), r)
		if err != nil {
			panic(err)
		}
		out = append(out, stored)
	}
	return out
}

// Len returns the number of stored records.
func (m *MemRepo[T, P]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *MemRepo[T, P]) Select(ctx context.Context, q records.Query) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.SelectErr != nil {
		return nil, m.SelectErr
	}

	out := make([]T, 0)
	for i := len(m.rows) - 1; i >= 0; i-- {
		if matches(m.rows[i], q.Filter) {
			out = append(out, m.rows[i])
		}
	}
	limit := q.Limit
	if limit <= 0 || limit > records.MaxLimit {
		limit = records.MaxLimit
	}
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemRepo[T, P]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		return m.rows[i], nil
	}
	var zero T
	return zero, records.ErrNotFound
}

func (m *MemRepo[T, P]) Insert(ctx context.Context, rec T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.InsertErr != nil {
		return zero, m.InsertErr
	}

	p := P(&rec)
	id := p.RecordID()
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	// Strictly increasing timestamps keep newest-first ordering stable.
	m.seq++
	p.Stamp(id, time.Now().UTC().Truncate(time.Millisecond).Add(time.Duration(m.seq)*time.Millisecond))
	m.rows = append(m.rows, rec)
	return rec, nil
}

func (m *MemRepo[T, P]) Update(ctx context.Context, id primitive.ObjectID, patch records.Patch) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.UpdateErr != nil {
		return zero, m.UpdateErr
	}
	allowed := records.Fields[T]()
	for k := range patch {
		if !allowed[k] {
			return zero, records.ErrUnknownField
		}
	}

	i := m.index(id)
	if i < 0 {
		return zero, records.ErrNotFound
	}
	patch = withUpdatedAt(patch)
	next, err := records.Apply(m.rows[i], patch)
	if err != nil {
		return zero, err
	}
	m.rows[i] = next
	return next, nil
}

func (m *MemRepo[T, P]) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	i := m.index(id)
	if i < 0 {
		return 0, nil
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return 1, nil
}

func (m *MemRepo[T, P]) Count(ctx context.Context, filter bson.M) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SelectErr != nil {
		return 0, m.SelectErr
	}
	var n int64
	for _, r := range m.rows {
		if matches(r, filter) {
			n++
		}
	}
	return n, nil
}

// Each visits matching rows newest first with no limit. fn runs without the
// lock held, over a snapshot taken at the start.
func (m *MemRepo[T, P]) Each(ctx context.Context, filter bson.M, fn func(T) error) error {
	m.mu.Lock()
	if m.SelectErr != nil {
		m.mu.Unlock()
		return m.SelectErr
	}
	var snap []T
	for i := len(m.rows) - 1; i >= 0; i-- {
		if matches(m.rows[i], filter) {
			snap = append(snap, m.rows[i])
		}
	}
	m.mu.Unlock()

	for _, r := range snap {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemRepo[T, P]) index(id primitive.ObjectID) int {
	for i := range m.rows {
		if P(&m.rows[i]).RecordID() == id {
			return i
		}
	}
	return -1
}

func withUpdatedAt(p records.Patch) records.Patch {
	out := make(records.Patch, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out["updated_at"] = time.Now().UTC()
	return out
}

func matches(rec any, filter bson.M) bool {
	if len(filter) == 0 {
		return true
	}
	doc, err := toDoc(rec)
	if err != nil {
		return false
	}
	for k, want := range filter {
		got := doc[k]
		if ops, ok := want.(bson.M); ok {
			if !matchOps(got, ops) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(got, normalize(want)) {
			return false
		}
	}
	return true
}

func matchOps(got any, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$in":
			found := false
			rv := reflect.ValueOf(arg)
			if rv.Kind() != reflect.Slice {
				return false
			}
			for i := 0; i < rv.Len(); i++ {
				if reflect.DeepEqual(got, normalize(rv.Index(i).Interface())) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$ne":
			if reflect.DeepEqual(got, normalize(arg)) {
				return false
			}
		case "$gt", "$gte", "$lt", "$lte":
			a, ok1 := number(got)
			b, ok2 := number(normalize(arg))
			if !ok1 || !ok2 {
				return false
			}
			switch op {
			case "$gt":
				if !(a > b) {
					return false
				}
			case "$gte":
				if !(a >= b) {
					return false
				}
			case "$lt":
				if !(a < b) {
					return false
				}
			case "$lte":
				if !(a <= b) {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	}
	return 0, false
}

// normalize runs v through a bson round trip so it compares equal to stored values.
func normalize(v any) any {
	doc, err := toDoc(bson.M{"v": v})
	if err != nil {
		return v
	}
	return doc["v"]
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	err = bson.Unmarshal(raw, &m)
	return m, err
}
