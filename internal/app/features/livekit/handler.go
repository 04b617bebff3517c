// internal/app/features/livekit/handler.go
package livekit

import (
	livekitstore "github.com/dalemusser/opsconsole/internal/app/store/livekit"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"go.uber.org/zap"
)

// Handler serves the LiveKit agent console tables.
type Handler struct {
	Store   *livekitstore.Store
	Notices notice.Factory
	Log     *zap.Logger
}

func NewHandler(st *livekitstore.Store, notices notice.Factory, logger *zap.Logger) *Handler {
	return &Handler{Store: st, Notices: notices, Log: logger}
}
