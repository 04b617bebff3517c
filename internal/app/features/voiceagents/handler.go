// internal/app/features/voiceagents/handler.go
package voiceagents

import (
	"context"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	voiceagentstore "github.com/dalemusser/opsconsole/internal/app/store/voiceagents"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the voice-agent configuration console.
type Handler struct {
	Store   *voiceagentstore.Store
	Notices notice.Factory
	Log     *zap.Logger
}

func NewHandler(st *voiceagentstore.Store, notices notice.Factory, logger *zap.Logger) *Handler {
	return &Handler{Store: st, Notices: notices, Log: logger}
}

type detailPage struct {
	voiceagentstore.Detail
	Metrics derive.VoiceSummary `json:"metrics"`
}

// ServeDetail handles GET /voice-agents/{agentID}: the agent, its intents,
// tools and configurations, and call metrics over its latest calls.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "voice agent detail")
	defer cancel()

	id, err := agentID(r)
	if err != nil {
		crud.WriteJSON(w, crud.StatusFor(err), crud.ErrorBody{Notice: h.Notices.Failed("load agent")})
		return
	}
	d, err := h.Store.LoadDetail(ctx, id)
	if err != nil {
		if crud.StatusFor(err) == http.StatusInternalServerError {
			h.Log.Error("voice agent detail failed", zap.Error(err), zap.String("agent_id", id.Hex()))
		}
		crud.WriteJSON(w, crud.StatusFor(err), crud.ErrorBody{Notice: h.Notices.Failed("load agent")})
		return
	}
	crud.WriteJSON(w, http.StatusOK, detailPage{Detail: d, Metrics: derive.Voice(d.Calls)})
}

func agentID(r *http.Request) (primitive.ObjectID, error) {
	return records.ParseID(chi.URLParam(r, "agentID"))
}

// agentExists is the Parent check for every agent-scoped table.
func (h *Handler) agentExists(ctx context.Context, r *http.Request) error {
	id, err := agentID(r)
	if err != nil {
		return err
	}
	_, err = h.Store.Agents.Get(ctx, id)
	return err
}

// ownedBy reports whether a child row's agent matches the URL.
func ownedBy(r *http.Request, owner primitive.ObjectID) bool {
	id, err := agentID(r)
	return err == nil && id == owner
}

// agentParamAsID exposes {agentID} as {id} for the shared crud handlers.
func agentParamAsID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			rctx.URLParams.Add("id", chi.URLParam(r, "agentID"))
		}
		next.ServeHTTP(w, r)
	})
}
