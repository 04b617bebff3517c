// internal/domain/models/livekit.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LiveKitAgent is an agent deployed onto LiveKit rooms.
type LiveKitAgent struct {
	Meta         `bson:",inline"`
	Name         string `bson:"name" json:"name"`
	AgentType    string `bson:"agent_type,omitempty" json:"agent_type,omitempty"` // voice | multimodal
	Model        string `bson:"model,omitempty" json:"model,omitempty"`
	Instructions string `bson:"instructions,omitempty" json:"instructions,omitempty"`
	RoomPrefix   string `bson:"room_prefix,omitempty" json:"room_prefix,omitempty"`
	Status       string `bson:"status" json:"status"` // active | testing | inactive
}

// LiveKitSession is one agent room session.
type LiveKitSession struct {
	Meta                `bson:",inline"`
	AgentID             *primitive.ObjectID `bson:"agent_id,omitempty" json:"agent_id,omitempty"`
	RoomName            string              `bson:"room_name" json:"room_name"`
	ParticipantIdentity string              `bson:"participant_identity,omitempty" json:"participant_identity,omitempty"`
	DurationSeconds     *float64            `bson:"duration_seconds,omitempty" json:"duration_seconds,omitempty"`
	StartedAt           *time.Time          `bson:"started_at,omitempty" json:"started_at,omitempty"`
	EndedAt             *time.Time          `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
	Status              string              `bson:"status" json:"status"` // active | ended | failed
}

// LiveKitJob is a dispatched unit of agent work.
type LiveKitJob struct {
	Meta     `bson:",inline"`
	AgentID  *primitive.ObjectID `bson:"agent_id,omitempty" json:"agent_id,omitempty"`
	WorkerID *primitive.ObjectID `bson:"worker_id,omitempty" json:"worker_id,omitempty"`
	JobType  string              `bson:"job_type" json:"job_type"`
	RoomName string              `bson:"room_name,omitempty" json:"room_name,omitempty"`
	Payload  string              `bson:"payload,omitempty" json:"payload,omitempty"`
	Error    string              `bson:"error,omitempty" json:"error,omitempty"`
	Status   string              `bson:"status" json:"status"` // pending | running | completed | failed
}

// LiveKitWorker is a registered agent worker process.
type LiveKitWorker struct {
	Meta            `bson:",inline"`
	WorkerName      string     `bson:"worker_name" json:"worker_name"`
	Host            string     `bson:"host,omitempty" json:"host,omitempty"`
	Region          string     `bson:"region,omitempty" json:"region,omitempty"`
	Capacity        int        `bson:"capacity" json:"capacity"`
	CurrentLoad     int        `bson:"current_load" json:"current_load"`
	LastHeartbeatAt *time.Time `bson:"last_heartbeat_at,omitempty" json:"last_heartbeat_at,omitempty"`
	Status          string     `bson:"status" json:"status"` // online | offline | draining
}

// LiveKitMCPTool is an MCP server tool exposed to LiveKit agents.
type LiveKitMCPTool struct {
	Meta        `bson:",inline"`
	AgentID     *primitive.ObjectID `bson:"agent_id,omitempty" json:"agent_id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	ServerURL   string              `bson:"server_url" json:"server_url"`
	Transport   string              `bson:"transport,omitempty" json:"transport,omitempty"` // stdio | sse | http
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Enabled     bool                `bson:"enabled" json:"enabled"`
}

// LiveKitTestCase is a scripted conversation check for an agent.
type LiveKitTestCase struct {
	Meta           `bson:",inline"`
	AgentID        *primitive.ObjectID `bson:"agent_id,omitempty" json:"agent_id,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Input          string              `bson:"input" json:"input"`
	ExpectedOutput string              `bson:"expected_output,omitempty" json:"expected_output,omitempty"`
	LastResult     string              `bson:"last_result" json:"last_result"` // pending | pass | fail
	LastRunAt      *time.Time          `bson:"last_run_at,omitempty" json:"last_run_at,omitempty"`
}
