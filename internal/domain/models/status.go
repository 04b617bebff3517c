// internal/domain/models/status.go
package models

// Generic record states.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusTesting  = "testing"
)

// Device-location request states.
const (
	LocationPending   = "pending"
	LocationCompleted = "completed"
	LocationFailed    = "failed"
)

// QoD session states.
const (
	QodActive     = "active"
	QodRequested  = "requested"
	QodTerminated = "terminated"
	QodFailed     = "failed"
)

// LiveKit session / job / worker states.
const (
	SessionActive = "active"
	SessionEnded  = "ended"
	SessionFailed = "failed"

	JobPending   = "pending"
	JobRunning   = "running"
	JobCompleted = "completed"
	JobFailed    = "failed"

	WorkerOnline   = "online"
	WorkerOffline  = "offline"
	WorkerDraining = "draining"
)

// Test-case results.
const (
	TestPending = "pending"
	TestPass    = "pass"
	TestFail    = "fail"
)

// AgentStatuses lists the states a voice agent (and its intents, tools and
// configurations) may be in.
var AgentStatuses = []string{StatusActive, StatusTesting, StatusInactive}

// IsOneOf reports whether s is one of allowed.
func IsOneOf(s string, allowed ...string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
