// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	"github.com/dalemusser/opsconsole/internal/app/store/audit"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"go.uber.org/zap"
)

// Events is the read side of the audit store. *audit.Store satisfies it.
type Events interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Events  Events
	Notices notice.Factory
	Log     *zap.Logger
}

func NewHandler(events Events, notices notice.Factory, logger *zap.Logger) *Handler {
	return &Handler{
		Events:  events,
		Notices: notices,
		Log:     logger,
	}
}
