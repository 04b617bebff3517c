// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/opsconsole/internal/app/store/audit"
	operatorstore "github.com/dalemusser/opsconsole/internal/app/store/operators"
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/inputval"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/app/system/ratelimit"
	"github.com/dalemusser/opsconsole/internal/app/system/timeouts"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Operators is the part of the operator store sign-in needs.
type Operators interface {
	GetByEmail(ctx context.Context, email string) (models.Operator, error)
	TouchLastLogin(ctx context.Context, id primitive.ObjectID) error
}

// Auditor records sign-in outcomes. *auditlog.Logger satisfies it.
type Auditor interface {
	LoginSuccess(ctx context.Context, r *http.Request, operatorID primitive.ObjectID, email string)
	LoginFailed(ctx context.Context, r *http.Request, eventType, email, reason string)
}

type Handler struct {
	Operators  Operators
	SessionMgr *auth.SessionManager
	Audit      Auditor
	Limiter    *ratelimit.LoginLimiter // nil disables throttling
	Notices    notice.Factory
	Log        *zap.Logger
}

func NewHandler(ops Operators, sessionMgr *auth.SessionManager, audit Auditor, limiter *ratelimit.LoginLimiter, notices notice.Factory, logger *zap.Logger) *Handler {
	return &Handler{
		Operators:  ops,
		SessionMgr: sessionMgr,
		Audit:      audit,
		Limiter:    limiter,
		Notices:    notices,
		Log:        logger,
	}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type operatorView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionView struct {
	SignedIn bool           `json:"signed_in"`
	Operator *operatorView  `json:"operator,omitempty"`
	Notice   *notice.Notice `json:"notice,omitempty"`
}

// invalidCredentials is shown for every rejected email/password pair so
// callers cannot tell which part was wrong.
const invalidCredentials = "Invalid email or password."

// ServeLogin handles GET /login and reports who is signed in.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		crud.WriteJSON(w, http.StatusOK, sessionView{})
		return
	}
	crud.WriteJSON(w, http.StatusOK, sessionView{
		SignedIn: true,
		Operator: &operatorView{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}

// HandleLoginPost handles POST /login with {"email","password"}.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if msg := crud.DecodeStrict(w, r, &in); msg != "" {
		h.reject(w, http.StatusBadRequest, msg)
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		h.reject(w, http.StatusBadRequest, res.First())
		return
	}

	if h.Limiter != nil {
		if ok, msg := h.Limiter.Check(r, in.Email); !ok {
			h.Log.Warn("sign-in throttled", zap.String("email", in.Email))
			h.reject(w, http.StatusTooManyRequests, msg)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "sign in")
	defer cancel()

	op, err := h.Operators.GetByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, operatorstore.ErrNotFound):
		h.failed(ctx, w, r, audit.EventLoginFailedUserNotFound, in.Email, "no such operator")
		return
	case err != nil:
		h.Log.Error("operator lookup failed", zap.Error(err))
		h.reject(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	if !operatorstore.CheckPassword(op, in.Password) {
		h.failed(ctx, w, r, audit.EventLoginFailedWrongPassword, in.Email, "wrong password")
		return
	}
	if op.Status != operatorstore.StatusActive {
		h.failed(ctx, w, r, audit.EventLoginFailedUserDisabled, in.Email, "operator disabled")
		return
	}

	su := auth.SessionUser{ID: op.ID.Hex(), Name: op.FullName, Email: op.Email}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("save session", zap.Error(err))
		h.reject(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}
	if err := h.Operators.TouchLastLogin(ctx, op.ID); err != nil {
		h.Log.Warn("touch last login", zap.Error(err), zap.String("operator_id", op.ID.Hex()))
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(in.Email)
	}
	if h.Audit != nil {
		h.Audit.LoginSuccess(ctx, r, op.ID, op.Email)
	}

	crud.WriteJSON(w, http.StatusOK, sessionView{
		SignedIn: true,
		Operator: &operatorView{ID: su.ID, Name: su.Name, Email: su.Email},
		Notice:   h.Notices.Success("Signed in"),
	})
}

func (h *Handler) failed(ctx context.Context, w http.ResponseWriter, r *http.Request, eventType, email, reason string) {
	if h.Audit != nil {
		h.Audit.LoginFailed(ctx, r, eventType, email, reason)
	}
	h.reject(w, http.StatusUnauthorized, invalidCredentials)
}

func (h *Handler) reject(w http.ResponseWriter, status int, msg string) {
	crud.WriteJSON(w, status, sessionView{Notice: h.Notices.Error(msg)})
}
