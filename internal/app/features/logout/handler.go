// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"go.uber.org/zap"
)

// Auditor records sign-outs. *auditlog.Logger satisfies it.
type Auditor interface {
	Logout(ctx context.Context, r *http.Request, operatorID, email string)
}

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      Auditor
	Notices    notice.Factory
}

func NewHandler(sessionMgr *auth.SessionManager, audit Auditor, notices notice.Factory, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Audit:      audit,
		Notices:    notices,
	}
}

type result struct {
	SignedIn bool           `json:"signed_in"`
	Notice   *notice.Notice `json:"notice"`
}

// ServeLogout handles GET and POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		// The cookie may still be cleared client-side; keep going.
		h.Log.Error("logout: save session", zap.Error(err))
	}
	if u != nil && h.Audit != nil {
		h.Audit.Logout(r.Context(), r, u.ID, u.Email)
	}

	crud.WriteJSON(w, http.StatusOK, result{Notice: h.Notices.Info("Signed out")})
}
