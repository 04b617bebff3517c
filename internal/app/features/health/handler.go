package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Broker is satisfied by *nats.Conn.
type Broker interface {
	IsConnected() bool
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client   Pinger
	Events   Broker // nil when change events are disabled
	DemoMode bool
	Log      *zap.Logger
}

// NewHandler constructs a health Handler. events may be nil.
func NewHandler(client Pinger, events Broker, demoMode bool, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   client,
		Events:   events,
		DemoMode: demoMode,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Events   string `json:"events"`
	DemoMode bool   `json:"demo_mode"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "events":"disabled", "demo_mode":false }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…"}
//
// A disconnected broker is reported but does not fail the check.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Events:   h.eventsState(),
		DemoMode: h.DemoMode,
	}

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
	}

	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) eventsState() string {
	switch {
	case h.Events == nil:
		return "disabled"
	case h.Events.IsConnected():
		return "connected"
	default:
		return "disconnected"
	}
}
