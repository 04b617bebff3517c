package crud

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/htmlsanitize"
	"go.mongodb.org/mongo-driver/bson"
)

// Text strips markup from *s. On update (patch != nil) the cleaned value
// replaces patch[key] when key is being set.
func Text(patch records.Patch, key string, s *string) {
	*s = htmlsanitize.PlainText(*s)
	if v, ok := patch[key]; ok && v != nil {
		patch[key] = *s
	}
}

// Texts is Text for string lists. Empty entries are dropped.
func Texts(patch records.Patch, key string, ss *[]string) {
	if *ss == nil {
		return
	}
	cleaned := htmlsanitize.PlainTextAll(*ss)
	*ss = cleaned
	if v, ok := patch[key]; ok && v != nil {
		patch[key] = cleaned
	}
}

// Trim trims surrounding whitespace from *s, mirroring into patch like Text.
func Trim(patch records.Patch, key string, s *string) {
	*s = strings.TrimSpace(*s)
	if v, ok := patch[key]; ok && v != nil {
		patch[key] = *s
	}
}

// Derive sets patch[key] = v when any field in from is being patched.
// It is a no-op on create.
func Derive(patch records.Patch, key string, v any, from ...string) {
	if Touches(patch, from...) {
		patch[key] = v
	}
}

// Touches reports whether patch sets or clears any of keys. A nil patch
// (create) touches nothing.
func Touches(patch records.Patch, keys ...string) bool {
	for _, k := range keys {
		if _, ok := patch[k]; ok {
			return true
		}
	}
	return false
}

// Filters collects list filters from query parameters.
type Filters struct {
	q   map[string][]string
	m   bson.M
	err error
}

func NewFilters(r *http.Request) *Filters {
	return &Filters{q: r.URL.Query(), m: bson.M{}}
}

// Eq filters field == ?param when the parameter is present.
func (f *Filters) Eq(param, field string) *Filters {
	if v := strings.TrimSpace(first(f.q[param])); v != "" {
		f.m[field] = v
	}
	return f
}

// OneOf is Eq restricted to allowed values.
func (f *Filters) OneOf(param, field string, allowed []string) *Filters {
	v := strings.TrimSpace(first(f.q[param]))
	if v == "" {
		return f
	}
	for _, a := range allowed {
		if v == a {
			f.m[field] = v
			return f
		}
	}
	f.fail(param + " must be one of: " + strings.Join(allowed, ", ") + ".")
	return f
}

// Bool filters field == ?param parsed as a boolean.
func (f *Filters) Bool(param, field string) *Filters {
	v := first(f.q[param])
	if v == "" {
		return f
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		f.fail(param + " must be true or false.")
		return f
	}
	f.m[field] = b
	return f
}

// ID filters field == ?param parsed as an ObjectID.
func (f *Filters) ID(param, field string) *Filters {
	v := first(f.q[param])
	if v == "" {
		return f
	}
	id, err := records.ParseID(v)
	if err != nil {
		f.fail(param + " must be a valid id.")
		return f
	}
	f.m[field] = id
	return f
}

// Set adds a fixed condition, e.g. a parent scope.
func (f *Filters) Set(field string, v any) *Filters {
	f.m[field] = v
	return f
}

func (f *Filters) fail(msg string) {
	if f.err == nil {
		f.err = BadFilter(msg)
	}
}

// Build returns the filter or the first parameter error.
func (f *Filters) Build() (bson.M, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.m, nil
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Fixed drops keys that may only be set on create, so updates leave the
// stored values alone.
func Fixed(patch records.Patch, keys ...string) {
	for _, k := range keys {
		delete(patch, k)
	}
}
