// internal/app/store/voiceagents/voiceagentstore.go
package voiceagentstore

import (
	"context"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store groups the voice-agent tables. Intents, tools, configurations,
// calls, transcripts and analytics all belong to one agent via agent_id.
type Store struct {
	Agents         records.Repository[models.VoiceAgent]
	Calls          records.Repository[models.VoiceAgentCall]
	Transcripts    records.Repository[models.VoiceAgentTranscript]
	Intents        records.Repository[models.VoiceAgentIntent]
	Tools          records.Repository[models.VoiceAgentTool]
	Configurations records.Repository[models.VoiceAgentConfiguration]
	Analytics      records.Repository[models.VoiceAgentAnalytics]
}

func New(db *mongo.Database, obs records.Observer) *Store {
	return &Store{
		Agents:         records.Open[models.VoiceAgent](db, records.TableVoiceAgents, obs),
		Calls:          records.Open[models.VoiceAgentCall](db, records.TableVoiceAgentCalls, obs),
		Transcripts:    records.Open[models.VoiceAgentTranscript](db, records.TableVoiceAgentTranscripts, obs),
		Intents:        records.Open[models.VoiceAgentIntent](db, records.TableVoiceAgentIntents, obs),
		Tools:          records.Open[models.VoiceAgentTool](db, records.TableVoiceAgentTools, obs),
		Configurations: records.Open[models.VoiceAgentConfiguration](db, records.TableVoiceAgentConfigs, obs),
		Analytics:      records.Open[models.VoiceAgentAnalytics](db, records.TableVoiceAgentAnalytics, obs),
	}
}

// ForAgent returns a query for the newest limit children of agentID.
func ForAgent(agentID primitive.ObjectID, limit int64) records.Query {
	return records.Query{Filter: bson.M{"agent_id": agentID}, Limit: limit}
}

// Detail is one agent with its child collections.
type Detail struct {
	Agent          models.VoiceAgent                `json:"agent"`
	Intents        []models.VoiceAgentIntent        `json:"intents"`
	Tools          []models.VoiceAgentTool          `json:"tools"`
	Configurations []models.VoiceAgentConfiguration `json:"configurations"`
	Calls          []models.VoiceAgentCall          `json:"calls"`
}

// LoadDetail fetches an agent and its children. A missing agent yields records.ErrNotFound.
func (s *Store) LoadDetail(ctx context.Context, agentID primitive.ObjectID) (Detail, error) {
	agent, err := s.Agents.Get(ctx, agentID)
	if err != nil {
		return Detail{}, err
	}
	d := Detail{Agent: agent}
	q := ForAgent(agentID, 0)
	if d.Intents, err = s.Intents.Select(ctx, q); err != nil {
		return Detail{}, err
	}
	if d.Tools, err = s.Tools.Select(ctx, q); err != nil {
		return Detail{}, err
	}
	if d.Configurations, err = s.Configurations.Select(ctx, q); err != nil {
		return Detail{}, err
	}
	if d.Calls, err = s.Calls.Select(ctx, ForAgent(agentID, 100)); err != nil {
		return Detail{}, err
	}
	return d, nil
}
