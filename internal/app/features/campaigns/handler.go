// internal/app/features/campaigns/handler.go
package campaigns

import (
	"context"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/app/system/inputval"
	"github.com/dalemusser/opsconsole/internal/app/system/livefeed"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Auditor records operator toggles of a live feed. *auditlog.Logger satisfies it.
type Auditor interface {
	LiveFeedToggled(ctx context.Context, platform string, running bool)
}

// Handler serves the demo campaign boards. With Feeds nil (demo mode off)
// every route answers 404.
type Handler struct {
	Feeds     *livefeed.Feeds
	Audit     Auditor
	Notices   notice.Factory
	Log       *zap.Logger
	BoardSize int
}

func NewHandler(feeds *livefeed.Feeds, audit Auditor, notices notice.Factory, logger *zap.Logger, boardSize int) *Handler {
	return &Handler{Feeds: feeds, Audit: audit, Notices: notices, Log: logger, BoardSize: boardSize}
}

type board struct {
	Platform  string                 `json:"platform"`
	Campaigns []models.Campaign      `json:"campaigns"`
	Metrics   derive.CampaignSummary `json:"metrics"`
	Running   bool                   `json:"running"`
	Ticks     uint64                 `json:"ticks"`
	PeriodMS  int64                  `json:"period_ms"`
	Notice    *notice.Notice         `json:"notice,omitempty"`
}

func (h *Handler) snapshot(platform string) board {
	b := h.Feeds.Board(platform)
	items := b.Snapshot()
	return board{
		Platform:  platform,
		Campaigns: items,
		Metrics:   derive.Campaigns(items),
		Running:   h.Feeds.Feed(platform).Running(),
		Ticks:     b.Ticks(),
		PeriodMS:  livefeed.Periods[platform].Milliseconds(),
	}
}

// platform resolves {platform}, writing a 404 for an unknown one.
func (h *Handler) platform(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := chi.URLParam(r, "platform")
	if h.Feeds.Board(p) == nil {
		crud.WriteJSON(w, http.StatusNotFound, crud.ErrorBody{Notice: h.Notices.Error("Unknown platform: " + p)})
		return "", false
	}
	return p, true
}

// ServeIndex handles GET /campaigns: every board.
func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	out := make([]board, 0, len(models.Platforms))
	for _, p := range models.Platforms {
		out = append(out, h.snapshot(p))
	}
	crud.WriteJSON(w, http.StatusOK, out)
}

// ServeBoard handles GET /campaigns/{platform}.
func (h *Handler) ServeBoard(w http.ResponseWriter, r *http.Request) {
	p, ok := h.platform(w, r)
	if !ok {
		return
	}
	crud.WriteJSON(w, http.StatusOK, h.snapshot(p))
}

type liveInput struct {
	Running *bool `json:"running" validate:"required" label:"running"`
}

// HandleLive handles POST /campaigns/{platform}/live with {"running": bool}.
// Starting a running feed or stopping a stopped one is a no-op.
func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	p, ok := h.platform(w, r)
	if !ok {
		return
	}

	var in liveInput
	if msg := crud.DecodeStrict(w, r, &in); msg != "" {
		crud.WriteJSON(w, http.StatusBadRequest, crud.ErrorBody{Notice: h.Notices.Error(msg)})
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		crud.WriteJSON(w, http.StatusBadRequest, crud.ErrorBody{Notice: h.Notices.Error(res.First())})
		return
	}

	feed := h.Feeds.Feed(p)
	var changed bool
	if *in.Running {
		changed = feed.Start()
	} else {
		changed = feed.Stop()
	}
	if changed {
		h.Log.Info("live feed toggled", zap.String("platform", p), zap.Bool("running", *in.Running))
		if h.Audit != nil {
			h.Audit.LiveFeedToggled(r.Context(), p, *in.Running)
		}
	}

	out := h.snapshot(p)
	if *in.Running {
		out.Notice = h.Notices.Info("Live updates started")
	} else {
		out.Notice = h.Notices.Info("Live updates stopped")
	}
	crud.WriteJSON(w, http.StatusOK, out)
}

// HandleRegenerate handles POST /campaigns/{platform}/regenerate.
func (h *Handler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.platform(w, r)
	if !ok {
		return
	}
	h.Feeds.Board(p).Regenerate(h.BoardSize)
	out := h.snapshot(p)
	out.Notice = h.Notices.Success("Campaigns regenerated")
	crud.WriteJSON(w, http.StatusOK, out)
}

// demoOnly hides the whole router when demo mode is off.
func (h *Handler) demoOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Feeds == nil {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
