// internal/app/features/telco/handler.go
package telco

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	telcostore "github.com/dalemusser/opsconsole/internal/app/store/telco"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/demo"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/app/system/timeouts"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// API names written to telco_api_usage.
const (
	APISimSwap            = "sim_swap"
	APINumberVerification = "number_verification"
	APIDeviceLocation     = "device_location"
	APIQualityOnDemand    = "quality_on_demand"
)

// recentLimit is how many rows of each request table the overview shows.
const recentLimit = 10

// Handler serves the telco network-intelligence console.
type Handler struct {
	Store   *telcostore.Store
	Demo    *demo.Simulator // nil when demo mode is off
	Notices notice.Factory
	Log     *zap.Logger

	now func() time.Time
}

func NewHandler(st *telcostore.Store, sim *demo.Simulator, notices notice.Factory, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   st,
		Demo:    sim,
		Notices: notices,
		Log:     logger,
		now:     time.Now,
	}
}

type overview struct {
	Phase               string                             `json:"phase"`
	Providers           []models.TelcoAPIProvider          `json:"providers"`
	SimSwaps            []models.SimSwapRequest            `json:"sim_swaps"`
	NumberVerifications []models.NumberVerificationRequest `json:"number_verifications"`
	DeviceLocations     []models.DeviceLocationRequest     `json:"device_locations"`
	QodSessions         []models.QodSession                `json:"qod_sessions"`
	Geofences           []models.Geofence                  `json:"geofences"`
	TrackedDevices      []models.TrackedDevice             `json:"tracked_devices"`
	Metrics             derive.TelcoSummary                `json:"metrics"`
	DemoMode            bool                               `json:"demo_mode"`
	Notice              *notice.Notice                     `json:"notice,omitempty"`
}

// Overview handles GET /telco: providers, the latest requests of each kind
// and the summary figures, which cover whole tables rather than the rows shown. All reads run concurrently; any failure fails the
// whole page.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "telco overview")
	defer cancel()

	var (
		out           = overview{Phase: "loaded", DemoMode: h.Demo.Enabled()}
		total, passed int64
		figures       telcostore.Figures
	)
	recent := records.Newest(recentLimit)
	all := records.Query{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Providers, err = h.Store.Providers.Select(gctx, all); return })
	g.Go(func() (err error) { out.SimSwaps, err = h.Store.SimSwaps.Select(gctx, recent); return })
	g.Go(func() (err error) {
		out.NumberVerifications, err = h.Store.NumberVerifications.Select(gctx, recent)
		return
	})
	g.Go(func() (err error) { out.DeviceLocations, err = h.Store.DeviceLocations.Select(gctx, recent); return })
	g.Go(func() (err error) { out.QodSessions, err = h.Store.QodSessions.Select(gctx, recent); return })
	g.Go(func() (err error) { out.Geofences, err = h.Store.Geofences.Select(gctx, all); return })
	g.Go(func() (err error) { out.TrackedDevices, err = h.Store.TrackedDevices.Select(gctx, all); return })
	g.Go(func() (err error) {
		total, passed, err = h.Store.UsageCounts(gctx, telcostore.StartOfDay(h.now()))
		return
	})
	g.Go(func() (err error) { figures, err = h.Store.Figures(gctx); return })

	if err := g.Wait(); err != nil {
		h.Log.Error("telco overview failed", zap.Error(err))
		crud.WriteJSON(w, http.StatusInternalServerError, overview{
			Phase:  "idle",
			Notice: h.Notices.Failed("load telco data"),
		})
		return
	}

	out.Metrics = derive.Telco(derive.TelcoInput{
		RequestsToday:     int(total),
		SuccessfulToday:   int(passed),
		FraudScores:       figures.FraudScores,
		QodLatency:        figures.QodLatency,
		ActiveQodSessions: int(figures.ActiveQodSessions),
		ActiveGeofences:   int(figures.ActiveGeofences),
		TrackedDevices:    int(figures.TrackedDevices),
	})
	crud.WriteJSON(w, http.StatusOK, out)
}

// usage describes the telco_api_usage row logged for a created request.
type usage struct {
	phone      string
	provider   *primitive.ObjectID
	success    bool
	responseMS *int
}

// logUsage returns a Created hook that records one usage row for api.
// A failure to log is not the operator's problem and is only logged.
func logUsage[T any](h *Handler, api string, describe func(T) usage) func(context.Context, T, time.Duration) {
	return func(ctx context.Context, rec T, elapsed time.Duration) {
		u := describe(rec)
		ms := int(elapsed.Milliseconds())
		if u.responseMS != nil {
			ms = *u.responseMS
		}
		row := models.TelcoAPIUsage{
			APIName:        api,
			ProviderID:     u.provider,
			PhoneNumber:    u.phone,
			Success:        u.success,
			ResponseTimeMS: ms,
		}
		if _, err := h.Store.Usage.Insert(ctx, row); err != nil {
			h.Log.Warn("record telco usage failed", zap.String("api", api), zap.Error(err))
		}
	}
}
