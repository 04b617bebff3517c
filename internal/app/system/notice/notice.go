// Package notice builds the transient banners shown to operators after an
// action. A notice carries its own expiry; clients dismiss it at ExpiresAt.
package notice

import "time"

// DefaultTTL is how long a notice stays visible unless configured otherwise.
const DefaultTTL = 5 * time.Second

// GenericError is shown when a handler fails unexpectedly.
const GenericError = "An error occurred"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Notice struct {
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the notice is still visible at now.
func (n *Notice) Active(now time.Time) bool {
	return n != nil && now.Before(n.ExpiresAt)
}

// Factory stamps notices with a clock and lifetime.
type Factory struct {
	TTL time.Duration
	Now func() time.Time
}

// NewFactory returns a Factory using the wall clock. A non-positive ttl means DefaultTTL.
func NewFactory(ttl time.Duration) Factory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Factory{TTL: ttl, Now: time.Now}
}

func (f Factory) make(k Kind, msg string) *Notice {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	ttl := f.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notice{Kind: k, Message: msg, ExpiresAt: now().Add(ttl)}
}

func (f Factory) Success(msg string) *Notice { return f.make(KindSuccess, msg) }
func (f Factory) Error(msg string) *Notice   { return f.make(KindError, msg) }
func (f Factory) Info(msg string) *Notice    { return f.make(KindInfo, msg) }

// Failed is the error notice for a backend failure while doing action,
// e.g. Failed("create geofence") → "Failed to create geofence".
func (f Factory) Failed(action string) *Notice {
	return f.make(KindError, "Failed to "+action)
}

// Unexpected is the generic error notice for a recovered panic.
func (f Factory) Unexpected() *Notice {
	return f.make(KindError, GenericError)
}
