// internal/app/store/records/query.go
package records

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// MaxLimit caps the number of records a single Select may return.
const MaxLimit = 500

// Query describes a Select: equality/operator filter, sort and limit.
// A zero Sort means newest first; a zero Limit means MaxLimit.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Limit  int64
}

// Newest returns a query for the n most recent records.
func Newest(n int64) Query {
	return Query{Limit: n}
}

func (q Query) filter() bson.M {
	if q.Filter == nil {
		return bson.M{}
	}
	return q.Filter
}

func (q Query) sort() bson.D {
	if len(q.Sort) == 0 {
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
	return q.Sort
}

func (q Query) limit() int64 {
	if q.Limit <= 0 || q.Limit > MaxLimit {
		return MaxLimit
	}
	return q.Limit
}

// Patch is a partial update keyed by bson field name. A nil value clears the field.
type Patch map[string]any

// Keys returns the patch field names in sorted order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// immutable fields are managed by the store and never patched.
var immutable = map[string]bool{"_id": true, "created_at": true, "updated_at": true}

// Fields returns the patchable bson field names of T, following inline embeds.
func Fields[T any]() map[string]bool {
	out := make(map[string]bool)
	collectFields(reflect.TypeOf((*T)(nil)).Elem(), out)
	return out
}

func collectFields(t reflect.Type, out map[string]bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("bson")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if strings.Contains(opts, "inline") {
			collectFields(f.Type, out)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		if immutable[name] {
			continue
		}
		out[name] = true
	}
}

// check verifies every patch key against the allowed field set.
func (p Patch) check(allowed map[string]bool) error {
	for _, k := range p.Keys() {
		if !allowed[k] {
			return fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
	}
	return nil
}

// update builds the $set/$unset document for a patch.
func (p Patch) update(now any) bson.M {
	set := bson.M{"updated_at": now}
	unset := bson.M{}
	for k, v := range p {
		if v == nil {
			unset[k] = ""
			continue
		}
		set[k] = v
	}
	u := bson.M{"$set": set}
	if len(unset) > 0 {
		u["$unset"] = unset
	}
	return u
}
