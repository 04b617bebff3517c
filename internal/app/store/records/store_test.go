package records_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/dalemusser/opsconsole/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertGetUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := records.New[models.SimSwapRequest](db, records.TableSimSwapRequests)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Insert(ctx, models.SimSwapRequest{PhoneNumber: "+15551230000", FraudScore: 20})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.PhoneNumber != "+15551230000" {
		t.Errorf("PhoneNumber: got %q, want %q", got.PhoneNumber, "+15551230000")
	}

	updated, err := store.Update(ctx, created.ID, records.Patch{"fraud_score": 80, "swap_detected": true})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.FraudScore != 80 || !updated.SwapDetected {
		t.Errorf("Update: got score=%d swap=%v", updated.FraudScore, updated.SwapDetected)
	}
	if updated.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be set after Update")
	}

	n, err := store.Delete(ctx, created.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete: got n=%d err=%v", n, err)
	}
	if _, err := store.Get(ctx, created.ID); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_Update_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := records.New[models.Geofence](db, records.TableGeofences)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Update(ctx, primitive.NewObjectID(), records.Patch{"radius_meters": 10.0}); !errors.Is(err, records.ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
	if _, err := store.Update(ctx, primitive.NewObjectID(), records.Patch{"bogus": 1}); !errors.Is(err, records.ErrUnknownField) {
		t.Errorf("bogus field: got %v, want ErrUnknownField", err)
	}
}

func TestStore_Select_NewestFirstAndLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := records.New[models.TelcoAPIUsage](db, records.TableTelcoUsage)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, api := range []string{"sim-swap", "number-verification", "device-location"} {
		if _, err := store.Insert(ctx, models.TelcoAPIUsage{APIName: api, Success: true}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	rows, err := store.Select(ctx, records.Newest(2))
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Select: got %d rows, want 2", len(rows))
	}
	if rows[0].APIName != "device-location" {
		t.Errorf("first row: got %q, want newest %q", rows[0].APIName, "device-location")
	}

	n, err := store.Count(ctx, bson.M{"api_name": "sim-swap"})
	if err != nil || n != 1 {
		t.Errorf("Count: got n=%d err=%v", n, err)
	}
}

func TestStore_Each_PastMaxLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := records.New[models.TelcoAPIUsage](db, records.TableTelcoUsage)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	n := records.MaxLimit + 20
	for i := 0; i < n; i++ {
		if _, err := store.Insert(ctx, models.TelcoAPIUsage{APIName: "sim_swap", Success: true}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	seen := 0
	err := store.Each(ctx, bson.M{"api_name": "sim_swap"}, func(models.TelcoAPIUsage) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("Each failed: %v", err)
	}
	if seen != n {
		t.Errorf("Each: visited %d rows, want %d", seen, n)
	}

	stop := errors.New("stop")
	seen = 0
	err = store.Each(ctx, nil, func(models.TelcoAPIUsage) error {
		seen++
		return stop
	})
	if !errors.Is(err, stop) || seen != 1 {
		t.Errorf("Each with stopping fn: seen=%d err=%v", seen, err)
	}
}

type recorder struct {
	ops []records.Op
	ids []primitive.ObjectID
}

func (r *recorder) RecordChanged(_ context.Context, _ string, op records.Op, id primitive.ObjectID, err error) {
	if err == nil {
		r.ops = append(r.ops, op)
		r.ids = append(r.ids, id)
	}
}

func TestWatch_ReportsMutations(t *testing.T) {
	mem := testutil.NewMemRepo[models.Geofence]()
	rec := &recorder{}
	repo := records.Watch[models.Geofence](mem, records.TableGeofences, rec)
	ctx := context.Background()

	g, err := repo.Insert(ctx, models.Geofence{GeofenceName: "Yard"})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := repo.Update(ctx, g.ID, records.Patch{"radius_meters": 50.0}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := repo.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Deleting a missing record is not a change.
	if _, err := repo.Delete(ctx, g.ID); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	want := []records.Op{records.OpInsert, records.OpUpdate, records.OpDelete}
	if len(rec.ops) != len(want) {
		t.Fatalf("ops: got %v, want %v", rec.ops, want)
	}
	for i := range want {
		if rec.ops[i] != want[i] {
			t.Errorf("op %d: got %q, want %q", i, rec.ops[i], want[i])
		}
		if rec.ids[i] != g.ID {
			t.Errorf("id %d: got %s, want %s", i, rec.ids[i].Hex(), g.ID.Hex())
		}
	}
}
