package crud_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/dalemusser/opsconsole/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type geofenceDraft struct {
	models.Geofence
	GeofenceName string `json:"geofence_name" validate:"required" label:"Geofence name"`
}

type page struct {
	Phase    string             `json:"phase"`
	Items    []models.Geofence  `json:"items"`
	Reloaded bool               `json:"reloaded"`
	Modals   map[string]bool    `json:"modals"`
	Draft    map[string]any     `json:"draft"`
	Notice   *notice.Notice     `json:"notice"`
	Metrics  map[string]float64 `json:"metrics"`
}

func newResource(repo *testutil.MemRepo[models.Geofence, *models.Geofence]) *crud.Resource[models.Geofence, *models.Geofence, geofenceDraft] {
	return &crud.Resource[models.Geofence, *models.Geofence, geofenceDraft]{
		Table:   records.TableGeofences,
		Noun:    "geofence",
		Plural:  "geofences",
		Repo:    repo,
		Log:     zap.NewNop(),
		Notices: notice.NewFactory(0),
		Build: func(_ context.Context, _ *http.Request, d geofenceDraft) (models.Geofence, error) {
			g := d.Geofence
			g.GeofenceName = d.GeofenceName
			return g, nil
		},
		Draft: func(g models.Geofence) geofenceDraft {
			return geofenceDraft{Geofence: g, GeofenceName: g.GeofenceName}
		},
		Tidy: func(g *models.Geofence, patch records.Patch) {
			crud.Text(patch, "geofence_name", &g.GeofenceName)
			g.GeofenceNameCI = text.Fold(g.GeofenceName)
			crud.Derive(patch, "geofence_name_ci", g.GeofenceNameCI, "geofence_name")
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).Bool("active", "is_active").Build()
		},
		Metrics: func(items []models.Geofence) any {
			return map[string]float64{"count": float64(len(items))}
		},
	}
}

func router(res *crud.Resource[models.Geofence, *models.Geofence, geofenceDraft]) http.Handler {
	r := chi.NewRouter()
	r.Route("/geofences", res.Routes)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, page) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var p page
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &p)
	}
	return rec, p
}

func TestCreate_MissingRequiredField(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	h := router(newResource(repo))

	rec, p := do(t, h, http.MethodPost, "/geofences", `{"geofence_name":"","radius_meters":100}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.Len(), "nothing may be persisted")
	assert.Equal(t, 0, repo.Calls, "no reload on validation failure")
	require.NotNil(t, p.Notice)
	assert.Equal(t, notice.KindError, p.Notice.Kind)
	assert.Equal(t, "Geofence name is required.", p.Notice.Message)
	assert.True(t, p.Modals["create_geofence"], "modal stays open")
	assert.Equal(t, 100.0, p.Draft["radius_meters"], "draft retained")
	assert.False(t, p.Reloaded)
}

func TestCreate_Success(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	repo.Seed(models.Geofence{GeofenceName: "Existing"})
	h := router(newResource(repo))

	rec, p := do(t, h, http.MethodPost, "/geofences",
		`{"id":"000000000000000000000001","geofence_name":"<b>Depot</b>","center_lat":1.5,"center_lon":2.5,"radius_meters":250,"is_active":true}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 2, repo.Len(), "exactly one insert")
	assert.Equal(t, 1, repo.Calls, "exactly one reload")
	assert.True(t, p.Reloaded)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "Depot", p.Items[0].GeofenceName, "newest first, markup stripped")
	assert.NotEqual(t, "000000000000000000000001", p.Items[0].ID.Hex(), "client ids are ignored")
	assert.False(t, p.Modals["create_geofence"], "modal closed")
	assert.Nil(t, p.Draft, "draft cleared")
	require.NotNil(t, p.Notice)
	assert.Equal(t, notice.KindSuccess, p.Notice.Kind)
	assert.Equal(t, "Geofence created", p.Notice.Message)
	assert.Equal(t, 2.0, p.Metrics["count"])

	stored, _ := repo.Select(context.Background(), records.Query{})
	assert.Equal(t, "depot", stored[0].GeofenceNameCI)
}

func TestCreate_UnknownField(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	rec, p := do(t, router(newResource(repo)), http.MethodPost, "/geofences", `{"geofence_name":"A","colour":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `Unknown field "colour".`, p.Notice.Message)
	assert.Equal(t, 0, repo.Len())
}

func TestCreate_BackendFailure(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"generic", errors.New("connection refused"), http.StatusInternalServerError},
		{"duplicate", records.ErrDuplicate, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
			repo.InsertErr = tt.err

			rec, p := do(t, router(newResource(repo)), http.MethodPost, "/geofences", `{"geofence_name":"Depot"}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "Failed to create geofence", p.Notice.Message)
			assert.Equal(t, 0, repo.Calls, "no reload after a failed write")
			assert.False(t, p.Reloaded)
			assert.Nil(t, p.Items, "client keeps its list")
			assert.True(t, p.Modals["create_geofence"])
		})
	}
}

func TestCreate_PanicInBuild(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	res := newResource(repo)
	res.Build = func(context.Context, *http.Request, geofenceDraft) (models.Geofence, error) {
		var m map[string]int
		m["boom"]++
		return models.Geofence{}, nil
	}

	rec, p := do(t, router(res), http.MethodPost, "/geofences", `{"geofence_name":"Depot"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, notice.GenericError, p.Notice.Message)
	assert.Equal(t, 0, repo.Len())
}

func TestUpdate(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	desc := "north gate"
	seeded := repo.Seed(models.Geofence{GeofenceName: "Depot", Description: desc, RadiusMeters: 100, Tags: []string{"a"}})
	id := seeded[0].ID.Hex()
	h := router(newResource(repo))

	rec, p := do(t, h, http.MethodPatch, "/geofences/"+id, `{"geofence_name":"Yard","tags":null}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Geofence updated", p.Notice.Message)
	assert.Equal(t, 1, repo.Calls)
	require.Len(t, p.Items, 1)
	got := p.Items[0]
	assert.Equal(t, "Yard", got.GeofenceName)
	assert.Equal(t, desc, got.Description, "untouched fields keep their values")
	assert.Equal(t, 100.0, got.RadiusMeters)
	assert.Nil(t, got.Tags, "null clears")
	assert.NotNil(t, got.UpdatedAt)

	stored, _ := repo.Get(context.Background(), seeded[0].ID)
	assert.Equal(t, "yard", stored.GeofenceNameCI)
}

func TestUpdate_Revise(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	g := repo.Seed(models.Geofence{GeofenceName: "Depot", RadiusMeters: 100})[0]
	res := newResource(repo)
	res.Revise = func(_ context.Context, g *models.Geofence, patch records.Patch) error {
		if !crud.Touches(patch, "radius_meters") {
			return nil
		}
		if g.RadiusMeters > 1000 {
			return errors.New("radius lookup failed")
		}
		g.Description = "resized"
		patch["description"] = g.Description
		return nil
	}
	h := router(res)

	rec, _ := do(t, h, http.MethodPatch, "/geofences/"+g.ID.Hex(), `{"radius_meters":250}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored, _ := repo.Get(context.Background(), g.ID)
	assert.Equal(t, "resized", stored.Description)

	rec, p := do(t, h, http.MethodPatch, "/geofences/"+g.ID.Hex(), `{"radius_meters":5000}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, p.Notice)
	assert.Equal(t, notice.KindError, p.Notice.Kind)
	stored, _ = repo.Get(context.Background(), g.ID)
	assert.Equal(t, 250.0, stored.RadiusMeters, "failed revise writes nothing")
}

func TestTouches(t *testing.T) {
	assert.False(t, crud.Touches(nil, "a"))
	assert.False(t, crud.Touches(records.Patch{"b": 1}, "a"))
	assert.True(t, crud.Touches(records.Patch{"a": nil}, "a", "c"))
}

func TestUpdate_Errors(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	seeded := repo.Seed(models.Geofence{GeofenceName: "Depot"})
	id := seeded[0].ID.Hex()
	h := router(newResource(repo))

	tests := []struct {
		name, target, body string
		status             int
		msg                string
	}{
		{"invalid id", "/geofences/nope", `{}`, http.StatusBadRequest, "Failed to update geofence"},
		{"not found", "/geofences/0123456789abcdef01234567", `{}`, http.StatusNotFound, "Failed to update geofence"},
		{"unknown field", "/geofences/" + id, `{"colour":"red"}`, http.StatusBadRequest, `Unknown field "colour".`},
		{"bad body", "/geofences/" + id, `[1,2]`, http.StatusBadRequest, "Request body must be a JSON object."},
		{"blank required", "/geofences/" + id, `{"geofence_name":""}`, http.StatusBadRequest, "Geofence name is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, p := do(t, h, http.MethodPatch, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, p.Notice)
			assert.Equal(t, tt.msg, p.Notice.Message)
		})
	}

	stored, _ := repo.Get(context.Background(), seeded[0].ID)
	assert.Equal(t, "Depot", stored.GeofenceName, "failed updates leave the record alone")
}

func TestDelete_RemovesExactlyOne(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	seeded := repo.Seed(
		models.Geofence{GeofenceName: "A"},
		models.Geofence{GeofenceName: "B"},
		models.Geofence{GeofenceName: "C"},
	)
	h := router(newResource(repo))

	rec, p := do(t, h, http.MethodDelete, "/geofences/"+seeded[1].ID.Hex(), "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Geofence deleted", p.Notice.Message)
	require.Len(t, p.Items, 2)
	assert.Equal(t, seeded[2].ID, p.Items[0].ID)
	assert.Equal(t, seeded[0].ID, p.Items[1].ID)
	assert.Equal(t, "C", p.Items[0].GeofenceName)
	assert.Equal(t, "A", p.Items[1].GeofenceName)
}

func TestDelete_Missing(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	repo.Seed(models.Geofence{GeofenceName: "A"})

	rec, p := do(t, router(newResource(repo)), http.MethodDelete, "/geofences/0123456789abcdef01234567", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Failed to delete geofence", p.Notice.Message)
	assert.Equal(t, 1, repo.Len())
	assert.Equal(t, 0, repo.Calls)
}

func TestList(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	repo.Seed(
		models.Geofence{GeofenceName: "A", IsActive: true},
		models.Geofence{GeofenceName: "B"},
		models.Geofence{GeofenceName: "C", IsActive: true},
	)
	h := router(newResource(repo))

	rec, p := do(t, h, http.MethodGet, "/geofences?active=true&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loaded", p.Phase)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "C", p.Items[0].GeofenceName)

	rec, p = do(t, h, http.MethodGet, "/geofences?active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "active must be true or false.", p.Notice.Message)

	rec, _ = do(t, h, http.MethodGet, "/geofences?limit=-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_BackendFailure(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	repo.SelectErr = errors.New("timeout")

	rec, p := do(t, router(newResource(repo)), http.MethodGet, "/geofences", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "idle", p.Phase)
	assert.Equal(t, "Failed to load geofences", p.Notice.Message)
}

func TestGet(t *testing.T) {
	repo := testutil.NewMemRepo[models.Geofence, *models.Geofence]()
	seeded := repo.Seed(models.Geofence{GeofenceName: "A"})
	h := router(newResource(repo))

	req := httptest.NewRequest(http.MethodGet, "/geofences/"+seeded[0].ID.Hex(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var g models.Geofence
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, "A", g.GeofenceName)

	req = httptest.NewRequest(http.MethodGet, "/geofences/0123456789abcdef01234567", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTitle(t *testing.T) {
	if got := crud.Title("geofence"); got != "Geofence" {
		t.Errorf("Title: got %q, want %q", got, "Geofence")
	}
	if got := crud.Title("SIM swap check"); got != "SIM swap check" {
		t.Errorf("Title: got %q, want %q", got, "SIM swap check")
	}
}
