// internal/app/features/livekit/routes.go
package livekit

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
	r.Route("/agents", h.agents().Routes)
	r.Route("/sessions", h.sessions().Routes)
	r.Route("/jobs", h.jobs().Routes)
	r.Route("/workers", h.workers().Routes)
	r.Route("/mcp-tools", h.mcpTools().Routes)
	r.Route("/test-cases", h.testCases().Routes)
}
