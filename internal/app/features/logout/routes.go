// internal/app/features/logout/routes.go
package logout

import (
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		// Only signed-in operators can sign out.
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeLogout)
		pr.Post("/", h.ServeLogout)
	})

	return r
}
