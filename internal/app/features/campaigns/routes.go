// internal/app/features/campaigns/routes.go
package campaigns

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
	r.Use(h.demoOnly)

	r.Get("/", h.ServeIndex)
	r.Get("/{platform}", h.ServeBoard)
	r.Post("/{platform}/live", h.HandleLive)
	r.Post("/{platform}/regenerate", h.HandleRegenerate)
}
