// internal/app/features/voiceagents/routes.go
package voiceagents

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
	agents := h.agents()

	// AGENTS
	r.Get("/", agents.List)
	r.Post("/", agents.Create)

	r.Route("/{agentID}", func(ar chi.Router) {
		// DETAIL
		ar.Get("/", h.ServeDetail)

		// EDIT / DELETE (crud reads {id})
		ar.With(agentParamAsID).Patch("/", agents.Update)
		ar.With(agentParamAsID).Delete("/", agents.Delete)

		// AGENT-SCOPED CONFIG
		ar.Route("/intents", h.intents().Routes)
		ar.Route("/tools", h.tools().Routes)
		ar.Route("/configurations", h.configurations().Routes)

		// READ-ONLY ACTIVITY
		ar.Route("/calls", h.calls().ReadOnlyRoutes)
		ar.Route("/transcripts", h.transcripts().ReadOnlyRoutes)
		ar.Route("/analytics", h.analytics().ReadOnlyRoutes)
	})
}
