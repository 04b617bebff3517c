// internal/app/store/records/merge.go
package records

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// MergeJSON overlays a JSON object onto current and returns the merged record
// together with the Patch holding only the fields present in body. Keys for
// store-managed fields (id, created_at, updated_at) are ignored; any other
// key that is not a field of T is rejected with ErrUnknownField.
func MergeJSON[T any](current T, body []byte) (T, Patch, error) {
	var zero T

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return zero, nil, fmt.Errorf("%w: %v", ErrBadBody, err)
	}

	for k := range keys {
		if k == "id" || immutable[k] {
			delete(keys, k)
		}
	}
	body, err := json.Marshal(keys)
	if err != nil {
		return zero, nil, err
	}

	merged, err := clone(current)
	if err != nil {
		return zero, nil, err
	}
	if err := json.Unmarshal(body, &merged); err != nil {
		return zero, nil, fmt.Errorf("%w: %v", ErrBadBody, err)
	}

	doc, err := toM(merged)
	if err != nil {
		return zero, nil, err
	}

	allowed := Fields[T]()
	patch := Patch{}
	for k := range keys {
		if !allowed[k] {
			return zero, nil, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		patch[k] = doc[k]
	}
	return merged, patch, nil
}

// DecodeJSON decodes body into a fresh T, rejecting malformed JSON.
func DecodeJSON[T any](body []byte) (T, error) {
	var rec T
	if err := json.Unmarshal(body, &rec); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	return rec, nil
}

// Apply returns rec with patch applied, the way the database would store it.
func Apply[T any](rec T, patch Patch) (T, error) {
	doc, err := toM(rec)
	if err != nil {
		var zero T
		return zero, err
	}
	for k, v := range patch {
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	return fromM[T](doc)
}

func clone[T any](rec T) (T, error) {
	doc, err := toM(rec)
	if err != nil {
		var zero T
		return zero, err
	}
	return fromM[T](doc)
}

func toM(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func fromM[T any](m bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(m)
	if err != nil {
		return out, err
	}
	err = bson.Unmarshal(raw, &out)
	return out, err
}
