// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/opsconsole/internal/app/store/audit"
	livekitstore "github.com/dalemusser/opsconsole/internal/app/store/livekit"
	operatorstore "github.com/dalemusser/opsconsole/internal/app/store/operators"
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	telcostore "github.com/dalemusser/opsconsole/internal/app/store/telco"
	voiceagentstore "github.com/dalemusser/opsconsole/internal/app/store/voiceagents"
	"github.com/dalemusser/opsconsole/internal/app/system/auditlog"
	"github.com/dalemusser/opsconsole/internal/app/system/auth"
	"github.com/dalemusser/opsconsole/internal/app/system/demo"
	"github.com/dalemusser/opsconsole/internal/app/system/events"
	"github.com/dalemusser/opsconsole/internal/app/system/livefeed"
	"github.com/dalemusser/opsconsole/internal/app/system/metrics"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
	"github.com/dalemusser/opsconsole/internal/app/system/ratelimit"
	"github.com/dalemusser/opsconsole/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Services are the long-lived objects Startup builds for BuildHandler and
// Shutdown.
type Services struct {
	Sessions  *auth.SessionManager
	Operators *operatorstore.Store
	Audit     *auditlog.Logger
	AuditLog  *audit.Store
	Metrics   *metrics.Metrics
	Limiter   *ratelimit.LoginLimiter
	Notices   notice.Factory

	Telco       *telcostore.Store
	VoiceAgents *voiceagentstore.Store
	LiveKit     *livekitstore.Store

	Sim   *demo.Simulator // nil unless demo mode
	Feeds *livefeed.Feeds // nil unless demo mode
}

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Services == nil {
		return fmt.Errorf("startup: services not allocated")
	}
	db := deps.MongoDatabase

	ops := operatorstore.New(db)
	if err := ensureOperator(ctx, ops, appCfg.OperatorEmail, appCfg.OperatorPassword, logger); err != nil {
		return err
	}

	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return err
	}

	auditStore := audit.New(db)
	auditLog := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	m := metrics.New()

	// Every record write reports to the audit trail, the event bus and
	// Prometheus.
	obs := records.Observers{auditLog, m}
	if pub := events.NewPublisher(natsConn(deps), appCfg.NATSSubjectPrefix, logger); pub != nil {
		obs = append(obs, pub)
	}

	svc := deps.Services
	svc.Sessions = sessionMgr
	svc.Operators = ops
	svc.Audit = auditLog
	svc.AuditLog = auditStore
	svc.Metrics = m
	svc.Limiter = ratelimit.NewLoginLimiter(appCfg.LoginRateIP, appCfg.LoginRateEmail)
	svc.Notices = notice.NewFactory(appCfg.NoticeTTL)
	svc.Telco = telcostore.New(db, obs)
	svc.VoiceAgents = voiceagentstore.New(db, obs)
	svc.LiveKit = livekitstore.New(db, obs)

	if appCfg.DemoMode {
		svc.Sim = demo.New()
		svc.Feeds = livefeed.NewFeeds(svc.Sim, logger, livefeed.Options{
			BoardSize: appCfg.CampaignBoardSize,
			Hooks: livefeed.Hooks{
				OnTick:  m.LiveFeedTick,
				OnState: m.LiveFeedState,
			},
		})
		logger.Info("demo mode enabled")
	}

	return nil
}

// natsConn keeps a nil *nats.Conn from becoming a non-nil events.Conn.
func natsConn(deps DBDeps) events.Conn {
	if deps.NATS == nil {
		return nil
	}
	return deps.NATS
}

// operatorEnsurer is the part of the operator store ensureOperator needs.
type operatorEnsurer interface {
	Ensure(ctx context.Context, email, password string) (bool, error)
}

// ensureOperator creates the bootstrap operator when one is configured.
func ensureOperator(ctx context.Context, ops operatorEnsurer, email, password string, logger *zap.Logger) error {
	if email == "" {
		logger.Warn("no operator_email configured; sign-in needs an existing operator")
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	created, err := ops.Ensure(ctx, email, password)
	if err != nil {
		logger.Error("ensure operator failed", zap.Error(err))
		return fmt.Errorf("ensure operator: %w", err)
	}
	if created {
		logger.Info("created bootstrap operator", zap.String("email", email))
	}
	return nil
}
