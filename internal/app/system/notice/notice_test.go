package notice_test

import (
	"testing"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/system/notice"
)

func TestFactory_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := notice.Factory{TTL: 5 * time.Second, Now: func() time.Time { return now }}

	n := f.Success("Geofence created")
	if n.Kind != notice.KindSuccess {
		t.Errorf("kind: got %q, want %q", n.Kind, notice.KindSuccess)
	}
	if !n.Active(now.Add(4999 * time.Millisecond)) {
		t.Error("notice should still be visible just before 5s")
	}
	if n.Active(now.Add(5 * time.Second)) {
		t.Error("notice should be gone at 5s")
	}
}

func TestFactory_Messages(t *testing.T) {
	f := notice.NewFactory(0)
	if f.TTL != notice.DefaultTTL {
		t.Errorf("ttl: got %v, want %v", f.TTL, notice.DefaultTTL)
	}

	tests := []struct {
		name string
		n    *notice.Notice
		kind notice.Kind
		msg  string
	}{
		{"failed", f.Failed("create geofence"), notice.KindError, "Failed to create geofence"},
		{"unexpected", f.Unexpected(), notice.KindError, "An error occurred"},
		{"info", f.Info("Live feed started"), notice.KindInfo, "Live feed started"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.n.Kind != tt.kind {
				t.Errorf("kind: got %q, want %q", tt.n.Kind, tt.kind)
			}
			if tt.n.Message != tt.msg {
				t.Errorf("message: got %q, want %q", tt.n.Message, tt.msg)
			}
		})
	}
}

func TestActive_Nil(t *testing.T) {
	var n *notice.Notice
	if n.Active(time.Now()) {
		t.Error("nil notice should never be active")
	}
}
