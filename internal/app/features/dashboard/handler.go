// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/opsconsole/internal/app/store/metrics"
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"go.uber.org/zap"
)

const dashboardTimeout = 5 * time.Second

type Handler struct {
	Counter metricsstore.Counter
	Log     *zap.Logger
}

func NewHandler(counter metricsstore.Counter, logger *zap.Logger) *Handler {
	return &Handler{
		Counter: counter,
		Log:     logger,
	}
}

type overview struct {
	Operator string                    `json:"operator,omitempty"`
	Tables   []metricsstore.TableCount `json:"tables"`
	Total    int64                     `json:"total"`
}

// ServeDashboard handles GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	counts := metricsstore.FetchTableCounts(ctx, h.Counter, records.Tables, h.Log)

	out := overview{Tables: counts, Total: metricsstore.Total(counts)}
	if u, ok := auth.CurrentUser(r); ok {
		out.Operator = u.Name
		h.Log.Debug("dashboard served", zap.String("operator", u.Email))
	}
	crud.WriteJSON(w, http.StatusOK, out)
}
