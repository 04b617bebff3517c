// internal/app/features/voiceagents/drafts.go
package voiceagents

import (
	"net/http"

	"github.com/dalemusser/opsconsole/internal/domain/models"
)

// New agents and their children start active.
func defaultStatus(s string) string {
	if s == "" {
		return models.StatusActive
	}
	return s
}

type agentDraft struct {
	models.VoiceAgent
	Name   string `json:"name" validate:"required" label:"Agent name"`
	Status string `json:"status" validate:"omitempty,oneof=active testing inactive" label:"Status"`
}

func (d agentDraft) record() models.VoiceAgent {
	a := d.VoiceAgent
	a.Name = d.Name
	a.Status = defaultStatus(d.Status)
	if a.Language == "" {
		a.Language = "en-US"
	}
	return a
}

func agentDraftOf(a models.VoiceAgent) agentDraft {
	return agentDraft{VoiceAgent: a, Name: a.Name, Status: a.Status}
}

type intentDraft struct {
	models.VoiceAgentIntent
	Name       string `json:"name" validate:"required" label:"Intent name"`
	ActionType string `json:"action_type" validate:"omitempty,oneof=respond tool_call transfer end_call" label:"Action type"`
	Status     string `json:"status" validate:"omitempty,oneof=active testing inactive" label:"Status"`
}

func (d intentDraft) record() models.VoiceAgentIntent {
	i := d.VoiceAgentIntent
	i.Name = d.Name
	i.ActionType = d.ActionType
	if i.ActionType == "" {
		i.ActionType = "respond"
	}
	i.Status = defaultStatus(d.Status)
	if i.TrainingPhrases == nil {
		i.TrainingPhrases = []string{}
	}
	return i
}

func intentDraftOf(i models.VoiceAgentIntent) intentDraft {
	return intentDraft{VoiceAgentIntent: i, Name: i.Name, ActionType: i.ActionType, Status: i.Status}
}

type toolDraft struct {
	models.VoiceAgentTool
	Name     string `json:"name" validate:"required" label:"Tool name"`
	ToolType string `json:"tool_type" validate:"omitempty,oneof=webhook function mcp" label:"Tool type"`
	Status   string `json:"status" validate:"omitempty,oneof=active testing inactive" label:"Status"`
}

func (d toolDraft) record() models.VoiceAgentTool {
	t := d.VoiceAgentTool
	t.Name = d.Name
	t.ToolType = d.ToolType
	if t.ToolType == "" {
		t.ToolType = "webhook"
	}
	if t.HTTPMethod == "" && t.ToolType == "webhook" {
		t.HTTPMethod = http.MethodPost
	}
	t.Status = defaultStatus(d.Status)
	return t
}

func toolDraftOf(t models.VoiceAgentTool) toolDraft {
	return toolDraft{VoiceAgentTool: t, Name: t.Name, ToolType: t.ToolType, Status: t.Status}
}

type configurationDraft struct {
	models.VoiceAgentConfiguration
	ConfigName  string   `json:"config_name" validate:"required" label:"Configuration name"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2" label:"Temperature"`
	Status      string   `json:"status" validate:"omitempty,oneof=active testing inactive" label:"Status"`
}

func (d configurationDraft) record() models.VoiceAgentConfiguration {
	c := d.VoiceAgentConfiguration
	c.ConfigName = d.ConfigName
	c.Temperature = d.Temperature
	c.Status = defaultStatus(d.Status)
	return c
}

func configurationDraftOf(c models.VoiceAgentConfiguration) configurationDraft {
	return configurationDraft{VoiceAgentConfiguration: c, ConfigName: c.ConfigName, Temperature: c.Temperature, Status: c.Status}
}
