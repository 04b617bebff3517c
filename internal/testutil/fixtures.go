package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// insert stores rec through a records.Store so ids and timestamps match production.
func insert[T any, P records.Record[T]](ctx context.Context, f *Fixtures, table string, rec T) T {
	f.t.Helper()
	out, err := records.New[T, P](f.db, table).Insert(ctx, rec)
	if err != nil {
		f.t.Fatalf("failed to create test %s record: %v", table, err)
	}
	return out
}

// CreateGeofence creates an active circular geofence.
func (f *Fixtures) CreateGeofence(ctx context.Context, name string, lat, lon, radius float64) models.Geofence {
	f.t.Helper()
	return insert[models.Geofence](ctx, f, records.TableGeofences, models.Geofence{
		GeofenceName:   name,
		GeofenceNameCI: text.Fold(name),
		CenterLat:      lat,
		CenterLon:      lon,
		RadiusMeters:   radius,
		ShapeType:      "circle",
		IsActive:       true,
		Status:         models.StatusActive,
	})
}

// CreateVoiceAgent creates an active voice agent.
func (f *Fixtures) CreateVoiceAgent(ctx context.Context, name string) models.VoiceAgent {
	f.t.Helper()
	return insert[models.VoiceAgent](ctx, f, records.TableVoiceAgents, models.VoiceAgent{
		Name:     name,
		NameCI:   text.Fold(name),
		Language: "en-US",
		Status:   models.StatusActive,
	})
}

// CreateIntent creates an intent owned by agentID.
func (f *Fixtures) CreateIntent(ctx context.Context, agentID primitive.ObjectID, name string, phrases ...string) models.VoiceAgentIntent {
	f.t.Helper()
	return insert[models.VoiceAgentIntent](ctx, f, records.TableVoiceAgentIntents, models.VoiceAgentIntent{
		AgentID:         agentID,
		Name:            name,
		TrainingPhrases: phrases,
		ActionType:      "respond",
		Status:          models.StatusActive,
	})
}

// CreateCall creates a handled call for agentID.
func (f *Fixtures) CreateCall(ctx context.Context, agentID primitive.ObjectID, success bool, durationSeconds float64) models.VoiceAgentCall {
	f.t.Helper()
	return insert[models.VoiceAgentCall](ctx, f, records.TableVoiceAgentCalls, models.VoiceAgentCall{
		AgentID:         agentID,
		Direction:       "inbound",
		DurationSeconds: &durationSeconds,
		Success:         success,
	})
}
