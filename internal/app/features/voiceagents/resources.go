// internal/app/features/voiceagents/resources.go
package voiceagents

import (
	"context"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) agents() *crud.Resource[models.VoiceAgent, *models.VoiceAgent, agentDraft] {
	return &crud.Resource[models.VoiceAgent, *models.VoiceAgent, agentDraft]{
		Table:   records.TableVoiceAgents,
		Noun:    "agent",
		Plural:  "agents",
		Repo:    h.Store.Agents,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d agentDraft) (models.VoiceAgent, error) {
			return d.record(), nil
		},
		Draft: agentDraftOf,
		Tidy: func(a *models.VoiceAgent, patch records.Patch) {
			crud.Text(patch, "name", &a.Name)
			crud.Text(patch, "description", &a.Description)
			crud.Trim(patch, "phone_number", &a.PhoneNumber)
			a.NameCI = text.Fold(a.Name)
			crud.Derive(patch, "name_ci", a.NameCI, "name")
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("status", "status", models.AgentStatuses).
				Eq("language", "language").
				Build()
		},
		Metrics: func(items []models.VoiceAgent) any {
			return map[string]int{
				"total":  len(items),
				"active": derive.Count(items, func(a models.VoiceAgent) bool { return a.Status == models.StatusActive }),
			}
		},
	}
}

// scoped fills the parent wiring shared by every agent-scoped table.
func scoped[T any, P records.Record[T], D any](h *Handler, res *crud.Resource[T, P, D], owner func(T) primitive.ObjectID, extra func(*crud.Filters) *crud.Filters) *crud.Resource[T, P, D] {
	res.Log = h.Log
	res.Notices = h.Notices
	res.Parent = h.agentExists
	res.Owns = func(r *http.Request, rec T) bool { return ownedBy(r, owner(rec)) }
	res.Filter = func(r *http.Request) (bson.M, error) {
		id, err := agentID(r)
		if err != nil {
			return nil, err
		}
		f := crud.NewFilters(r).Set("agent_id", id)
		if extra != nil {
			f = extra(f)
		}
		return f.Build()
	}
	return res
}

func statusFilter(f *crud.Filters) *crud.Filters {
	return f.OneOf("status", "status", models.AgentStatuses)
}

func (h *Handler) intents() *crud.Resource[models.VoiceAgentIntent, *models.VoiceAgentIntent, intentDraft] {
	return scoped(h, &crud.Resource[models.VoiceAgentIntent, *models.VoiceAgentIntent, intentDraft]{
		Table:  records.TableVoiceAgentIntents,
		Noun:   "intent",
		Plural: "intents",
		Repo:   h.Store.Intents,
		Build: func(_ context.Context, r *http.Request, d intentDraft) (models.VoiceAgentIntent, error) {
			i := d.record()
			id, err := agentID(r)
			i.AgentID = id
			return i, err
		},
		Draft: intentDraftOf,
		Tidy: func(i *models.VoiceAgentIntent, patch records.Patch) {
			crud.Fixed(patch, "agent_id")
			crud.Text(patch, "name", &i.Name)
			crud.Text(patch, "description", &i.Description)
			crud.Texts(patch, "training_phrases", &i.TrainingPhrases)
			crud.Text(patch, "response_template", &i.ResponseTemplate)
		},
	}, func(i models.VoiceAgentIntent) primitive.ObjectID { return i.AgentID }, statusFilter)
}

func (h *Handler) tools() *crud.Resource[models.VoiceAgentTool, *models.VoiceAgentTool, toolDraft] {
	return scoped(h, &crud.Resource[models.VoiceAgentTool, *models.VoiceAgentTool, toolDraft]{
		Table:  records.TableVoiceAgentTools,
		Noun:   "tool",
		Plural: "tools",
		Repo:   h.Store.Tools,
		Build: func(_ context.Context, r *http.Request, d toolDraft) (models.VoiceAgentTool, error) {
			t := d.record()
			id, err := agentID(r)
			t.AgentID = id
			return t, err
		},
		Draft: toolDraftOf,
		Tidy: func(t *models.VoiceAgentTool, patch records.Patch) {
			crud.Fixed(patch, "agent_id")
			crud.Text(patch, "name", &t.Name)
			crud.Text(patch, "description", &t.Description)
			crud.Trim(patch, "endpoint", &t.Endpoint)
		},
	}, func(t models.VoiceAgentTool) primitive.ObjectID { return t.AgentID }, func(f *crud.Filters) *crud.Filters {
		return statusFilter(f).OneOf("type", "tool_type", []string{"webhook", "function", "mcp"})
	})
}

func (h *Handler) configurations() *crud.Resource[models.VoiceAgentConfiguration, *models.VoiceAgentConfiguration, configurationDraft] {
	return scoped(h, &crud.Resource[models.VoiceAgentConfiguration, *models.VoiceAgentConfiguration, configurationDraft]{
		Table:  records.TableVoiceAgentConfigs,
		Noun:   "configuration",
		Plural: "configurations",
		Repo:   h.Store.Configurations,
		Build: func(_ context.Context, r *http.Request, d configurationDraft) (models.VoiceAgentConfiguration, error) {
			c := d.record()
			id, err := agentID(r)
			c.AgentID = id
			return c, err
		},
		Draft: configurationDraftOf,
		Tidy: func(c *models.VoiceAgentConfiguration, patch records.Patch) {
			crud.Fixed(patch, "agent_id")
			crud.Text(patch, "config_name", &c.ConfigName)
		},
	}, func(c models.VoiceAgentConfiguration) primitive.ObjectID { return c.AgentID }, func(f *crud.Filters) *crud.Filters {
		return statusFilter(f).Bool("default", "is_default")
	})
}

// Calls, transcripts and analytics are written by the telephony side and
// only read here.

func (h *Handler) calls() *crud.Resource[models.VoiceAgentCall, *models.VoiceAgentCall, models.VoiceAgentCall] {
	return scoped(h, &crud.Resource[models.VoiceAgentCall, *models.VoiceAgentCall, models.VoiceAgentCall]{
		Table:  records.TableVoiceAgentCalls,
		Noun:   "call",
		Plural: "calls",
		Repo:   h.Store.Calls,
		Metrics: func(items []models.VoiceAgentCall) any {
			return derive.Voice(items)
		},
	}, func(c models.VoiceAgentCall) primitive.ObjectID { return c.AgentID }, func(f *crud.Filters) *crud.Filters {
		return f.Bool("success", "success").OneOf("direction", "direction", []string{"inbound", "outbound"})
	})
}

func (h *Handler) transcripts() *crud.Resource[models.VoiceAgentTranscript, *models.VoiceAgentTranscript, models.VoiceAgentTranscript] {
	return scoped(h, &crud.Resource[models.VoiceAgentTranscript, *models.VoiceAgentTranscript, models.VoiceAgentTranscript]{
		Table:  records.TableVoiceAgentTranscripts,
		Noun:   "transcript",
		Plural: "transcripts",
		Repo:   h.Store.Transcripts,
	}, func(t models.VoiceAgentTranscript) primitive.ObjectID { return t.AgentID }, func(f *crud.Filters) *crud.Filters {
		return f.ID("call", "call_id").OneOf("speaker", "speaker", []string{"agent", "caller"})
	})
}

func (h *Handler) analytics() *crud.Resource[models.VoiceAgentAnalytics, *models.VoiceAgentAnalytics, models.VoiceAgentAnalytics] {
	return scoped(h, &crud.Resource[models.VoiceAgentAnalytics, *models.VoiceAgentAnalytics, models.VoiceAgentAnalytics]{
		Table:  records.TableVoiceAgentAnalytics,
		Noun:   "analytics row",
		Plural: "analytics",
		Repo:   h.Store.Analytics,
	}, func(a models.VoiceAgentAnalytics) primitive.ObjectID { return a.AgentID }, func(f *crud.Filters) *crud.Filters {
		return f.Eq("day", "day")
	})
}
