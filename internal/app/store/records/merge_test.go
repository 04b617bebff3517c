package records_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr[T any](v T) *T { return &v }

func TestFields_FollowsInlineMeta(t *testing.T) {
	fields := records.Fields[models.QodSession]()

	for _, want := range []string{"session_id", "phone_number", "qos_profile", "actual_latency_ms", "status"} {
		assert.True(t, fields[want], "expected %q to be patchable", want)
	}
	for _, managed := range []string{"_id", "created_at", "updated_at"} {
		assert.False(t, fields[managed], "%q must not be patchable", managed)
	}
}

func TestMergeJSON_OnlyPresentKeys(t *testing.T) {
	current := models.QodSession{
		PhoneNumber:     "+15550001",
		QosProfile:      "QOS_E",
		ActualLatencyMS: ptr(12.5),
		Status:          models.QodRequested,
	}
	current.ID = primitive.NewObjectID()

	merged, patch, err := records.MergeJSON(current, []byte(`{"status":"active","qos_profile":"QOS_L"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"qos_profile", "status"}, patch.Keys())
	assert.Equal(t, "active", patch["status"])
	assert.Equal(t, "QOS_L", merged.QosProfile)
	assert.Equal(t, "+15550001", merged.PhoneNumber)
	assert.Equal(t, current.ID, merged.ID)
	require.NotNil(t, merged.ActualLatencyMS)
	assert.Equal(t, 12.5, *merged.ActualLatencyMS)
}

func TestMergeJSON_NullClearsOptional(t *testing.T) {
	current := models.QodSession{PhoneNumber: "+15550001", ActualLatencyMS: ptr(40.0)}

	merged, patch, err := records.MergeJSON(current, []byte(`{"actual_latency_ms":null}`))
	require.NoError(t, err)

	assert.Nil(t, merged.ActualLatencyMS)
	v, ok := patch["actual_latency_ms"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestMergeJSON_IgnoresManagedFields(t *testing.T) {
	current := models.Geofence{GeofenceName: "Depot"}
	current.ID = primitive.NewObjectID()

	merged, patch, err := records.MergeJSON(current, []byte(`{"id":"000000000000000000000000","created_at":"2020-01-01T00:00:00Z","radius_meters":250}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"radius_meters"}, patch.Keys())
	assert.Equal(t, current.ID, merged.ID)
	assert.Equal(t, 250.0, merged.RadiusMeters)
}

func TestMergeJSON_RejectsUnknownField(t *testing.T) {
	_, _, err := records.MergeJSON(models.Geofence{}, []byte(`{"colour":"red"}`))
	if !errors.Is(err, records.ErrUnknownField) {
		t.Fatalf("err: got %v, want ErrUnknownField", err)
	}
}

func TestMergeJSON_BadBody(t *testing.T) {
	_, _, err := records.MergeJSON(models.Geofence{}, []byte(`{"radius_meters":`))
	if !errors.Is(err, records.ErrBadBody) {
		t.Fatalf("err: got %v, want ErrBadBody", err)
	}
}

func TestApply(t *testing.T) {
	rec := models.TrackedDevice{DeviceName: "Van 7", PhoneNumber: "+15550002", Status: models.StatusActive}

	out, err := records.Apply(rec, records.Patch{"status": models.StatusInactive, "device_type": nil})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInactive, out.Status)
	assert.Equal(t, "Van 7", out.DeviceName)
	assert.Equal(t, "", out.DeviceType)
}

func TestParseID(t *testing.T) {
	if _, err := records.ParseID("nope"); !errors.Is(err, records.ErrInvalidID) {
		t.Errorf("ParseID(nope): got %v, want ErrInvalidID", err)
	}
	id := primitive.NewObjectID()
	got, err := records.ParseID(id.Hex())
	if err != nil || got != id {
		t.Errorf("ParseID(%s): got %v, %v", id.Hex(), got, err)
	}
}

func TestIsTable(t *testing.T) {
	if len(records.Tables) != 21 {
		t.Errorf("Tables: got %d, want 21", len(records.Tables))
	}
	if !records.IsTable(records.TableQodSessions) {
		t.Error("expected qod_sessions to be a table")
	}
	if records.IsTable("location_verification_requests") {
		t.Error("location_verification_requests is not served")
	}
}
