// internal/app/features/login/routes.go
package login

import (
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.With(sm.LoadSessionUser).Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)
	return r
}
