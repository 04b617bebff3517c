// internal/domain/models/voiceagent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoiceAgent is a conversational agent definition.
type VoiceAgent struct {
	Meta         `bson:",inline"`
	Name         string `bson:"name" json:"name"`
	NameCI       string `bson:"name_ci" json:"-"`
	Description  string `bson:"description,omitempty" json:"description,omitempty"`
	Language     string `bson:"language,omitempty" json:"language,omitempty"`
	Voice        string `bson:"voice,omitempty" json:"voice,omitempty"`
	PhoneNumber  string `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	SystemPrompt string `bson:"system_prompt,omitempty" json:"system_prompt,omitempty"`
	Status       string `bson:"status" json:"status"` // active | testing | inactive
}

// VoiceAgentIntent is a recognised user intent with its training phrases.
type VoiceAgentIntent struct {
	Meta             `bson:",inline"`
	AgentID          primitive.ObjectID `bson:"agent_id" json:"agent_id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	TrainingPhrases  []string           `bson:"training_phrases" json:"training_phrases"`
	ActionType       string             `bson:"action_type,omitempty" json:"action_type,omitempty"` // respond | tool_call | transfer | end_call
	ResponseTemplate string             `bson:"response_template,omitempty" json:"response_template,omitempty"`
	Priority         int                `bson:"priority" json:"priority"`
	Status           string             `bson:"status" json:"status"`
}

// VoiceAgentTool is an external function the agent may call.
type VoiceAgentTool struct {
	Meta             `bson:",inline"`
	AgentID          primitive.ObjectID `bson:"agent_id" json:"agent_id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	ToolType         string             `bson:"tool_type,omitempty" json:"tool_type,omitempty"` // webhook | function | mcp
	Endpoint         string             `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
	HTTPMethod       string             `bson:"http_method,omitempty" json:"http_method,omitempty"`
	ParametersSchema string             `bson:"parameters_schema,omitempty" json:"parameters_schema,omitempty"`
	TimeoutMS        *int               `bson:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	Status           string             `bson:"status" json:"status"`
}

// VoiceAgentConfiguration holds tunable behaviour parameters for an agent.
type VoiceAgentConfiguration struct {
	Meta                    `bson:",inline"`
	AgentID                 primitive.ObjectID `bson:"agent_id" json:"agent_id"`
	ConfigName              string             `bson:"config_name" json:"config_name"`
	STTProvider             string             `bson:"stt_provider,omitempty" json:"stt_provider,omitempty"`
	STTModel                string             `bson:"stt_model,omitempty" json:"stt_model,omitempty"`
	TTSProvider             string             `bson:"tts_provider,omitempty" json:"tts_provider,omitempty"`
	TTSVoice                string             `bson:"tts_voice,omitempty" json:"tts_voice,omitempty"`
	LLMProvider             string             `bson:"llm_provider,omitempty" json:"llm_provider,omitempty"`
	LLMModel                string             `bson:"llm_model,omitempty" json:"llm_model,omitempty"`
	Temperature             *float64           `bson:"temperature,omitempty" json:"temperature,omitempty"`
	MaxTokens               *int               `bson:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	InterruptionThresholdMS *int               `bson:"interruption_threshold_ms,omitempty" json:"interruption_threshold_ms,omitempty"`
	IsDefault               bool               `bson:"is_default" json:"is_default"`
	Status                  string             `bson:"status" json:"status"`
}

// VoiceAgentCall is one handled call.
type VoiceAgentCall struct {
	Meta            `bson:",inline"`
	AgentID         primitive.ObjectID `bson:"agent_id" json:"agent_id"`
	CallerNumber    string             `bson:"caller_number,omitempty" json:"caller_number,omitempty"`
	Direction       string             `bson:"direction,omitempty" json:"direction,omitempty"` // inbound | outbound
	DurationSeconds *float64           `bson:"duration_seconds,omitempty" json:"duration_seconds,omitempty"`
	Outcome         string             `bson:"outcome,omitempty" json:"outcome,omitempty"`
	Success         bool               `bson:"success" json:"success"`
	SentimentScore  *float64           `bson:"sentiment_score,omitempty" json:"sentiment_score,omitempty"`
	StartedAt       time.Time          `bson:"started_at" json:"started_at"`
	EndedAt         *time.Time         `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
}

// VoiceAgentTranscript is one utterance within a call.
type VoiceAgentTranscript struct {
	Meta       `bson:",inline"`
	AgentID    primitive.ObjectID  `bson:"agent_id" json:"agent_id"`
	CallID     *primitive.ObjectID `bson:"call_id,omitempty" json:"call_id,omitempty"`
	Speaker    string              `bson:"speaker" json:"speaker"` // agent | caller
	Text       string              `bson:"text" json:"text"`
	Confidence *float64            `bson:"confidence,omitempty" json:"confidence,omitempty"`
	OffsetMS   int                 `bson:"offset_ms" json:"offset_ms"`
}

// VoiceAgentAnalytics is a per-day rollup for one agent.
type VoiceAgentAnalytics struct {
	Meta               `bson:",inline"`
	AgentID            primitive.ObjectID `bson:"agent_id" json:"agent_id"`
	Day                string             `bson:"day" json:"day"` // YYYY-MM-DD
	TotalCalls         int                `bson:"total_calls" json:"total_calls"`
	SuccessfulCalls    int                `bson:"successful_calls" json:"successful_calls"`
	AvgDurationSeconds *float64           `bson:"avg_duration_seconds,omitempty" json:"avg_duration_seconds,omitempty"`
	AvgSentiment       *float64           `bson:"avg_sentiment,omitempty" json:"avg_sentiment,omitempty"`
}
