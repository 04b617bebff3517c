// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like ports, TLS,
// logging level and request limits. Everything specific to the operations
// console lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: opsconsole-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionMaxAge time.Duration

	// Bootstrap operator, created on startup when missing.
	OperatorEmail    string
	OperatorPassword string

	// DemoMode enables simulated telco values and the campaign live feeds.
	DemoMode          bool
	CampaignBoardSize int

	// Change events. A blank NATSURL disables publishing.
	NATSURL           string
	NATSSubjectPrefix string

	// Audit logging: "all", "db", "log" or "off".
	AuditLogAuth  string
	AuditLogAdmin string

	NoticeTTL time.Duration

	// Sign-in throttling.
	LoginRateIP    int // attempts per IP per minute
	LoginRateEmail int // attempts per email per 5 minutes

	// Handler DB timeouts.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
