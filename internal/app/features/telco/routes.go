// internal/app/features/telco/routes.go
package telco

import (
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		h.mount(pr)
	})

	return r
}

func (h *Handler) mount(r chi.Router) {
	// OVERVIEW
	r.Get("/", h.Overview)

	// TABLES
	r.Route("/providers", h.providers().Routes)
	r.Route("/sim-swap", h.simSwaps().Routes)
	r.Route("/number-verification", h.numberVerifications().Routes)
	r.Route("/device-location", h.deviceLocations().Routes)
	r.Route("/geofences", h.geofences().Routes)
	r.Route("/qod-sessions", h.qodSessions().Routes)
	r.Route("/tracked-devices", h.trackedDevices().Routes)

	// USAGE (written by creates above, never edited)
	r.Route("/usage", h.usageRows().ReadOnlyRoutes)
}
