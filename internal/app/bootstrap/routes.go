// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/opsconsole/internal/app/features/auditlog"
	campaignsfeature "github.com/dalemusser/opsconsole/internal/app/features/campaigns"
	dashboardfeature "github.com/dalemusser/opsconsole/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/opsconsole/internal/app/features/health"
	livekitfeature "github.com/dalemusser/opsconsole/internal/app/features/livekit"
	loginfeature "github.com/dalemusser/opsconsole/internal/app/features/login"
	logoutfeature "github.com/dalemusser/opsconsole/internal/app/features/logout"
	telcofeature "github.com/dalemusser/opsconsole/internal/app/features/telco"
	voiceagentsfeature "github.com/dalemusser/opsconsole/internal/app/features/voiceagents"
	metricsstore "github.com/dalemusser/opsconsole/internal/app/store/metrics"
	"github.com/dalemusser/opsconsole/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Every console router requires a signed-in
// operator; /health, /metrics and /login are open.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	svc := deps.Services
	sessionMgr := svc.Sessions

	r := chi.NewRouter()

	// Client IP and user agent for audit events raised by the stores.
	r.Use(auditlog.CaptureRequest)
	// Loads the operator into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	var broker healthfeature.Broker
	if deps.NATS != nil {
		broker = deps.NATS
	}
	healthHandler := healthfeature.NewHandler(deps.MongoClient, broker, appCfg.DemoMode, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Handle("/metrics", svc.Metrics.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(svc.Operators, sessionMgr, svc.Audit, svc.Limiter, svc.Notices, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler, sessionMgr))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, svc.Audit, svc.Notices, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(metricsstore.DB{Database: deps.MongoDatabase}, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(svc.AuditLog, svc.Notices, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	// Consoles
	telcoHandler := telcofeature.NewHandler(svc.Telco, svc.Sim, svc.Notices, logger)
	r.Mount("/telco", telcofeature.Routes(telcoHandler, sessionMgr))

	voiceHandler := voiceagentsfeature.NewHandler(svc.VoiceAgents, svc.Notices, logger)
	r.Mount("/voice-agents", voiceagentsfeature.Routes(voiceHandler, sessionMgr))

	livekitHandler := livekitfeature.NewHandler(svc.LiveKit, svc.Notices, logger)
	r.Mount("/livekit", livekitfeature.Routes(livekitHandler, sessionMgr))

	campaignsHandler := campaignsfeature.NewHandler(svc.Feeds, svc.Audit, svc.Notices, logger, appCfg.CampaignBoardSize)
	r.Mount("/campaigns", campaignsfeature.Routes(campaignsHandler, sessionMgr))

	return r, nil
}
