// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// devSessionKey is the default signing key. It is rejected in prod.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// minOperatorPassword is the shortest accepted bootstrap operator password.
const minOperatorPassword = 8

// appConfigKeys defines the configuration keys for the console.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: OPSCONSOLE_MONGO_URI, OPSCONSOLE_DEMO_MODE, etc.
//   - Command-line flags: --mongo_uri, --demo_mode, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "ops_console", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "opsconsole-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},

	// Bootstrap operator
	{Name: "operator_email", Default: "", Desc: "Email of the operator account created on startup"},
	{Name: "operator_password", Default: "", Desc: "Password for the bootstrap operator (8+ chars)"},

	// Demo simulation
	{Name: "demo_mode", Default: true, Desc: "Simulate telco results and run the campaign live feeds"},
	{Name: "campaign_board_size", Default: 8, Desc: "Mock campaigns generated per platform"},

	// Change events
	{Name: "nats_url", Default: "", Desc: "NATS URL for record change events (blank disables)"},
	{Name: "nats_subject_prefix", Default: "opsconsole", Desc: "Subject prefix for change events"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "notice_ttl", Default: "5s", Desc: "How long operator notices stay visible"},

	// Sign-in throttling
	{Name: "login_rate_ip", Default: 20, Desc: "Sign-in attempts allowed per IP per minute"},
	{Name: "login_rate_email", Default: 5, Desc: "Sign-in attempts allowed per email per 5 minutes"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-record reads and writes"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list and overview queries"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for schema setup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (OPSCONSOLE_* for the app) and flags, merged with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "OPSCONSOLE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		OperatorEmail:    appValues.String("operator_email"),
		OperatorPassword: appValues.String("operator_password"),

		DemoMode:          appValues.Bool("demo_mode"),
		CampaignBoardSize: appValues.Int("campaign_board_size"),

		NATSURL:           appValues.String("nats_url"),
		NATSSubjectPrefix: appValues.String("nats_subject_prefix"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		NoticeTTL: appValues.Duration("notice_ttl", 5*time.Second),

		LoginRateIP:    appValues.Int("login_rate_ip"),
		LoginRateEmail: appValues.Int("login_rate_email"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	if appCfg.SessionKey == "" && coreCfg.Env != "prod" {
		appCfg.SessionKey = randomSessionKey()
		logger.Warn("no session key configured; using a random key (sessions end on restart)")
	}

	return coreCfg, appCfg, nil
}

func randomSessionKey() string {
	return fmt.Sprintf("%x", securecookie.GenerateRandomKey(32))
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

// validateApp holds the checks that do not need WAFFLE's core config.
func validateApp(env string, appCfg AppConfig) error {
	if appCfg.OperatorEmail != "" && len(appCfg.OperatorPassword) < minOperatorPassword {
		return fmt.Errorf("operator_password must be at least %d characters when operator_email is set", minOperatorPassword)
	}
	if env == "prod" {
		if appCfg.SessionKey == "" || appCfg.SessionKey == devSessionKey {
			return errors.New("session_key must be set to a strong secret in prod")
		}
	}
	for key, v := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		switch v {
		case "", "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", key, v)
		}
	}
	if appCfg.CampaignBoardSize < 0 {
		return errors.New("campaign_board_size cannot be negative")
	}
	return nil
}
