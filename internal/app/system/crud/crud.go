// Package crud serves the list/create/update/delete endpoints shared by every
// console table. Each endpoint is one backend call (plus one reload after a
// successful mutation) and answers with a pagestate.Page.
//
//	res := &crud.Resource[models.Geofence, *models.Geofence, geofenceDraft]{
//	    Table: records.TableGeofences, Noun: "geofence", Plural: "geofences",
//	    Repo:  st.Geofences, Build: buildGeofence, Draft: draftOf,
//	}
//	r.Route("/geofences", res.Routes)
package crud

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/formctl"
	"github.com/dalemusser/opsconsole/internal/app/system/inputval"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/app/system/pagestate"
	"github.com/dalemusser/opsconsole/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// maxBody caps request bodies.
const maxBody = 1 << 20

// Resource is one table's endpoints. T is the stored record, P its pointer
// type and D the create draft decoded from the request body.
type Resource[T any, P records.Record[T], D any] struct {
	Table  string
	Noun   string // "geofence"
	Plural string // "geofences"

	Repo    records.Repository[T]
	Log     *zap.Logger
	Notices notice.Factory

	// Build turns a validated draft into the record to insert. Required for Create.
	Build func(ctx context.Context, r *http.Request, d D) (T, error)
	// Draft converts a merged record back into a draft so updates are
	// validated with the same rules as creates. nil skips update validation.
	Draft func(rec T) D
	// Tidy normalises a record before it is written. patch is nil on create;
	// on update Tidy must mirror any change it makes to a patched field.
	Tidy func(rec *T, patch records.Patch)
	// Revise runs on update after Tidy, for derived fields that need the
	// backend. Like Tidy it must mirror its changes into patch.
	Revise func(ctx context.Context, rec *T, patch records.Patch) error
	// Filter turns query parameters (and any parent scope) into a list filter.
	Filter func(r *http.Request) (bson.M, error)
	// Parent checks that a parent in the URL exists. Return records.ErrNotFound if not.
	Parent func(ctx context.Context, r *http.Request) error
	// Owns reports whether rec belongs to the parent in the URL.
	Owns func(r *http.Request, rec T) bool
	// Created runs after a successful insert. elapsed is the insert's duration.
	Created func(ctx context.Context, rec T, elapsed time.Duration)
	// Metrics summarises a loaded list for Page.Metrics.
	Metrics func(items []T) any
}

// Routes mounts list, create, get, update and delete.
func (res *Resource[T, P, D]) Routes(r chi.Router) {
	r.Get("/", res.List)
	r.Post("/", res.Create)
	r.Get("/{id}", res.Get)
	r.Patch("/{id}", res.Update)
	r.Delete("/{id}", res.Delete)
}

// ReadOnlyRoutes mounts list and get.
func (res *Resource[T, P, D]) ReadOnlyRoutes(r chi.Router) {
	r.Get("/", res.List)
	r.Get("/{id}", res.Get)
}

func (res *Resource[T, P, D]) log() *zap.Logger {
	if res.Log == nil {
		return zap.NewNop()
	}
	return res.Log
}

// query builds the list query from ?limit= and Filter.
func (res *Resource[T, P, D]) query(r *http.Request) (records.Query, error) {
	q := records.Query{}
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			return q, BadFilter("Limit must be a non-negative integer.")
		}
		q.Limit = n
	}
	if res.Filter != nil {
		f, err := res.Filter(r)
		if err != nil {
			return q, err
		}
		q.Filter = f
	}
	return q, nil
}

// List handles GET /.
func (res *Resource[T, P, D]) List(w http.ResponseWriter, r *http.Request) {
	page := pagestate.New[T]()

	q, err := res.query(r)
	if err != nil {
		page.Notice = res.Notices.Error(err.Error())
		WriteJSON(w, http.StatusBadRequest, page)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), res.log(), "list "+res.Plural)
	defer cancel()

	if res.Parent != nil {
		if err := res.Parent(ctx, r); err != nil {
			res.fail(w, page, err, "load "+res.Plural)
			return
		}
	}

	_ = page.BeginLoad()
	items, err := res.Repo.Select(ctx, q)
	if err != nil {
		res.log().Error("list failed", zap.Error(err), zap.String("table", res.Table))
		_ = page.LoadFailed(res.Notices.Failed("load " + res.Plural))
		WriteJSON(w, StatusFor(err), page)
		return
	}
	_ = page.Loaded(items)
	if res.Metrics != nil {
		page.Metrics = res.Metrics(page.Items)
	}
	WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /{id} and answers with the bare record.
func (res *Resource[T, P, D]) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), res.log(), "get "+res.Noun)
	defer cancel()

	rec, err := res.load(ctx, r)
	if err != nil {
		if !errors.Is(err, records.ErrNotFound) && !errors.Is(err, records.ErrInvalidID) {
			res.log().Error("get failed", zap.Error(err), zap.String("table", res.Table))
		}
		WriteJSON(w, StatusFor(err), ErrorBody{Notice: res.Notices.Failed("load " + res.Noun)})
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

// load resolves {id}, the parent and ownership.
func (res *Resource[T, P, D]) load(ctx context.Context, r *http.Request) (T, error) {
	var zero T
	id, err := records.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return zero, err
	}
	if res.Parent != nil {
		if err := res.Parent(ctx, r); err != nil {
			return zero, err
		}
	}
	rec, err := res.Repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if res.Owns != nil && !res.Owns(r, rec) {
		return zero, records.ErrNotFound
	}
	return rec, nil
}

func (res *Resource[T, P, D]) controller(modal, action, success string, check func(any) *inputval.Result) *formctl.Controller[D] {
	return formctl.New[D](formctl.Options{
		Modal:   modal,
		Action:  action,
		Success: success,
		Reload:  "load " + res.Plural,
		Notices: res.Notices,
		Log:     res.log(),
		Check:   check,
	})
}

// reloader returns the single post-mutation reload, writing into page.
func (res *Resource[T, P, D]) reloader(r *http.Request, page *pagestate.Page[T]) func(context.Context) error {
	return func(ctx context.Context) error {
		q, err := res.query(r)
		if err != nil {
			q = records.Query{}
		}
		items, err := res.Repo.Select(ctx, q)
		if err != nil {
			return err
		}
		if err := page.Reload(items); err != nil {
			return err
		}
		if res.Metrics != nil {
			page.Metrics = res.Metrics(page.Items)
		}
		return nil
	}
}

// Create handles POST /.
func (res *Resource[T, P, D]) Create(w http.ResponseWriter, r *http.Request) {
	page := pagestate.New[T]()
	_ = page.BeginSubmit()

	var draft D
	if msg := DecodeStrict(w, r, &draft); msg != "" {
		_ = page.EndSubmit()
		page.Notice = res.Notices.Error(msg)
		WriteJSON(w, http.StatusBadRequest, page)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), res.log(), "create "+res.Noun)
	defer cancel()

	if res.Parent != nil {
		if err := res.Parent(ctx, r); err != nil {
			_ = page.EndSubmit()
			res.fail(w, page, err, "create "+res.Noun)
			return
		}
	}

	ctl := res.controller("create_"+modalKey(res.Noun), "create "+res.Noun, Title(res.Noun)+" created", nil)
	out := ctl.Submit(ctx, draft, func(ctx context.Context, d D) error {
		rec, err := res.Build(ctx, r, d)
		if err != nil {
			return err
		}
		P(&rec).Stamp(primitive.NilObjectID, time.Time{})
		if res.Tidy != nil {
			res.Tidy(&rec, nil)
		}
		start := time.Now()
		saved, err := res.Repo.Insert(ctx, rec)
		if err != nil {
			return err
		}
		if res.Created != nil {
			res.Created(ctx, saved, time.Since(start))
		}
		return nil
	}, res.reloader(r, page))

	res.finish(w, page, ctl.RenderTo, out, http.StatusCreated)
}

// Update handles PATCH /{id}. The body holds only the fields to change;
// null clears an optional field.
func (res *Resource[T, P, D]) Update(w http.ResponseWriter, r *http.Request) {
	page := pagestate.New[T]()
	_ = page.BeginSubmit()

	body, msg := readBody(w, r)
	if msg != "" {
		_ = page.EndSubmit()
		page.Notice = res.Notices.Error(msg)
		WriteJSON(w, http.StatusBadRequest, page)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), res.log(), "update "+res.Noun)
	defer cancel()

	current, err := res.load(ctx, r)
	if err != nil {
		_ = page.EndSubmit()
		res.fail(w, page, err, "update "+res.Noun)
		return
	}
	id := P(&current).RecordID()

	merged, patch, err := records.MergeJSON(current, body)
	if err != nil {
		_ = page.EndSubmit()
		page.Notice = res.Notices.Error(bodyMessage(err))
		WriteJSON(w, http.StatusBadRequest, page)
		return
	}

	var draft D
	check := func(any) *inputval.Result { return &inputval.Result{} }
	if res.Draft != nil {
		draft = res.Draft(merged)
		check = nil
	}
	ctl := res.controller("edit_"+modalKey(res.Noun), "update "+res.Noun, Title(res.Noun)+" updated", check)
	out := ctl.Submit(ctx, draft, func(ctx context.Context, _ D) error {
		if res.Tidy != nil {
			res.Tidy(&merged, patch)
		}
		if res.Revise != nil {
			if err := res.Revise(ctx, &merged, patch); err != nil {
				return err
			}
		}
		_, err := res.Repo.Update(ctx, id, patch)
		return err
	}, res.reloader(r, page))

	page.SelectedID = id.Hex()
	res.finish(w, page, ctl.RenderTo, out, http.StatusOK)
}

// Delete handles DELETE /{id}.
func (res *Resource[T, P, D]) Delete(w http.ResponseWriter, r *http.Request) {
	page := pagestate.New[T]()
	_ = page.BeginSubmit()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), res.log(), "delete "+res.Noun)
	defer cancel()

	var id primitive.ObjectID
	if res.Owns != nil {
		rec, err := res.load(ctx, r)
		if err != nil {
			_ = page.EndSubmit()
			res.fail(w, page, err, "delete "+res.Noun)
			return
		}
		id = P(&rec).RecordID()
	} else {
		var err error
		if id, err = records.ParseID(chi.URLParam(r, "id")); err != nil {
			_ = page.EndSubmit()
			res.fail(w, page, err, "delete "+res.Noun)
			return
		}
	}

	ctl := formctl.New[primitive.ObjectID](formctl.Options{
		Modal:   "delete_" + modalKey(res.Noun),
		Action:  "delete " + res.Noun,
		Success: Title(res.Noun) + " deleted",
		Reload:  "load " + res.Plural,
		Notices: res.Notices,
		Log:     res.log(),
		Check:   func(any) *inputval.Result { return &inputval.Result{} },
	})
	out := ctl.Submit(ctx, id, func(ctx context.Context, id primitive.ObjectID) error {
		n, err := res.Repo.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return records.ErrNotFound
		}
		return nil
	}, res.reloader(r, page))

	res.finish(w, page, ctl.RenderTo, out, http.StatusOK)
}

func (res *Resource[T, P, D]) finish(w http.ResponseWriter, page *pagestate.Page[T], render func(formctl.Surface), out formctl.Result, okStatus int) {
	_ = page.EndSubmit()
	render(page)
	WriteJSON(w, OutcomeStatus(out, okStatus), page)
}

// fail writes an error page for a failure before Submit ran.
func (res *Resource[T, P, D]) fail(w http.ResponseWriter, page *pagestate.Page[T], err error, action string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		res.log().Error(action+" failed", zap.Error(err), zap.String("table", res.Table))
	}
	page.Notice = res.Notices.Failed(action)
	WriteJSON(w, status, page)
}

// OutcomeStatus maps a form result to an HTTP status.
func OutcomeStatus(out formctl.Result, okStatus int) int {
	switch out.Outcome {
	case formctl.Saved:
		return okStatus
	case formctl.Invalid:
		return http.StatusBadRequest
	case formctl.Failed:
		return StatusFor(out.Err)
	}
	return http.StatusInternalServerError
}

// StatusFor maps a store error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, records.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, records.ErrInvalidID),
		errors.Is(err, records.ErrBadBody),
		errors.Is(err, records.ErrUnknownField),
		errors.Is(err, ErrBadFilter):
		return http.StatusBadRequest
	case errors.Is(err, records.ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ErrBadFilter matches errors from BadFilter.
var ErrBadFilter = errors.New("invalid filter")

// BadFilter reports an invalid list parameter; msg is shown to the operator.
func BadFilter(msg string) error { return &filterError{msg} }

type filterError struct{ msg string }

func (e *filterError) Error() string        { return e.msg }
func (e *filterError) Is(target error) bool { return target == ErrBadFilter }

// ErrorBody is the response for a failed single-record read.
type ErrorBody struct {
	Notice *notice.Notice `json:"notice"`
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// readBody returns the body, or a message for the operator.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, string) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		return nil, "Request body is too large."
	}
	return body, ""
}

// DecodeStrict decodes a JSON object into dst, rejecting unknown fields.
// It returns "" on success or a message for the operator.
func DecodeStrict(w http.ResponseWriter, r *http.Request, dst any) string {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var ute *json.UnmarshalTypeError
		switch {
		case errors.As(err, &ute):
			return ute.Field + " has the wrong type."
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return "Unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ") + "."
		}
		return "Request body must be a JSON object."
	}
	return ""
}

func bodyMessage(err error) string {
	switch {
	case errors.Is(err, records.ErrUnknownField):
		return `Unknown field "` + strings.TrimPrefix(err.Error(), records.ErrUnknownField.Error()+": ") + `".`
	case errors.Is(err, records.ErrBadBody):
		return "Request body must be a JSON object."
	}
	return "Invalid request."
}

// Title upper-cases the first letter: "geofence" → "Geofence".
func Title(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

func modalKey(noun string) string {
	return strings.ReplaceAll(strings.ToLower(noun), " ", "_")
}
