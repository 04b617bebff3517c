// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard overview under whatever mount point
// the top-level router chooses (e.g., "/dashboard").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeDashboard)
	})

	return r
}
