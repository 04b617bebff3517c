package operatorstore_test

import (
	"errors"
	"testing"

	operatorstore "github.com/dalemusser/opsconsole/internal/app/store/operators"
	"github.com/dalemusser/opsconsole/internal/app/system/indexes"
	"github.com/dalemusser/opsconsole/internal/testutil"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := operatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	op, err := store.Create(ctx, "Ops@Example.com", "Ops", "correct-horse")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if op.PasswordHash == "" || op.PasswordHash == "correct-horse" {
		t.Error("expected password to be hashed")
	}
	if op.Status != operatorstore.StatusActive {
		t.Errorf("Status: got %q, want %q", op.Status, operatorstore.StatusActive)
	}

	got, err := store.GetByEmail(ctx, "ops@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != op.ID {
		t.Errorf("GetByEmail: got %s, want %s", got.ID.Hex(), op.ID.Hex())
	}
	if !operatorstore.CheckPassword(got, "correct-horse") {
		t.Error("expected password to match")
	}
	if operatorstore.CheckPassword(got, "wrong") {
		t.Error("expected wrong password to fail")
	}

	if _, err := store.GetByEmail(ctx, "missing@example.com"); !errors.Is(err, operatorstore.ErrNotFound) {
		t.Errorf("missing email: got %v, want ErrNotFound", err)
	}
}

func TestStore_Ensure_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := operatorstore.New(db)

	created, err := store.Ensure(ctx, "boot@example.com", "bootstrap-pass")
	if err != nil || !created {
		t.Fatalf("first Ensure: created=%v err=%v", created, err)
	}
	created, err = store.Ensure(ctx, "BOOT@example.com", "other-pass")
	if err != nil || created {
		t.Fatalf("second Ensure: created=%v err=%v", created, err)
	}

	if _, err := store.Create(ctx, "boot@example.com", "Dup", "whatever-pass"); !errors.Is(err, operatorstore.ErrDuplicateOperator) {
		t.Errorf("duplicate Create: got %v, want ErrDuplicateOperator", err)
	}
}
