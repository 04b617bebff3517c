// internal/app/features/livekit/drafts.go
package livekit

import "github.com/dalemusser/opsconsole/internal/domain/models"

type agentDraft struct {
	models.LiveKitAgent
	Name      string `json:"name" validate:"required" label:"Agent name"`
	AgentType string `json:"agent_type" validate:"omitempty,oneof=voice multimodal" label:"Agent type"`
	Status    string `json:"status" validate:"omitempty,oneof=active testing inactive" label:"Status"`
}

func (d agentDraft) record() models.LiveKitAgent {
	a := d.LiveKitAgent
	a.Name = d.Name
	a.AgentType = orDefault(d.AgentType, "voice")
	a.Status = orDefault(d.Status, models.StatusActive)
	return a
}

func agentDraftOf(a models.LiveKitAgent) agentDraft {
	return agentDraft{LiveKitAgent: a, Name: a.Name, AgentType: a.AgentType, Status: a.Status}
}

type sessionDraft struct {
	models.LiveKitSession
	RoomName string `json:"room_name" validate:"required" label:"Room name"`
	Status   string `json:"status" validate:"omitempty,oneof=active ended failed" label:"Status"`
}

func (d sessionDraft) record() models.LiveKitSession {
	s := d.LiveKitSession
	s.RoomName = d.RoomName
	s.Status = orDefault(d.Status, models.SessionActive)
	return s
}

func sessionDraftOf(s models.LiveKitSession) sessionDraft {
	return sessionDraft{LiveKitSession: s, RoomName: s.RoomName, Status: s.Status}
}

type jobDraft struct {
	models.LiveKitJob
	JobType string `json:"job_type" validate:"required" label:"Job type"`
	Status  string `json:"status" validate:"omitempty,oneof=pending running completed failed" label:"Status"`
}

func (d jobDraft) record() models.LiveKitJob {
	j := d.LiveKitJob
	j.JobType = d.JobType
	j.Status = orDefault(d.Status, models.JobPending)
	return j
}

func jobDraftOf(j models.LiveKitJob) jobDraft {
	return jobDraft{LiveKitJob: j, JobType: j.JobType, Status: j.Status}
}

type workerDraft struct {
	models.LiveKitWorker
	WorkerName  string `json:"worker_name" validate:"required" label:"Worker name"`
	Capacity    int    `json:"capacity" validate:"gte=0" label:"Capacity"`
	CurrentLoad int    `json:"current_load" validate:"gte=0" label:"Current load"`
	Status      string `json:"status" validate:"omitempty,oneof=online offline draining" label:"Status"`
}

func (d workerDraft) record() models.LiveKitWorker {
	w := d.LiveKitWorker
	w.WorkerName = d.WorkerName
	w.Capacity = d.Capacity
	if w.Capacity == 0 {
		w.Capacity = 1
	}
	w.CurrentLoad = d.CurrentLoad
	w.Status = orDefault(d.Status, models.WorkerOnline)
	return w
}

func workerDraftOf(w models.LiveKitWorker) workerDraft {
	return workerDraft{LiveKitWorker: w, WorkerName: w.WorkerName, Capacity: w.Capacity, CurrentLoad: w.CurrentLoad, Status: w.Status}
}

type mcpToolDraft struct {
	models.LiveKitMCPTool
	Name      string `json:"name" validate:"required" label:"Tool name"`
	ServerURL string `json:"server_url" validate:"required,httpurl" label:"Server URL"`
	Transport string `json:"transport" validate:"omitempty,oneof=stdio sse http" label:"Transport"`
	Enabled   *bool  `json:"enabled"`
}

func (d mcpToolDraft) record() models.LiveKitMCPTool {
	t := d.LiveKitMCPTool
	t.Name = d.Name
	t.ServerURL = d.ServerURL
	t.Transport = orDefault(d.Transport, "http")
	t.Enabled = d.Enabled == nil || *d.Enabled
	return t
}

func mcpToolDraftOf(t models.LiveKitMCPTool) mcpToolDraft {
	on := t.Enabled
	return mcpToolDraft{LiveKitMCPTool: t, Name: t.Name, ServerURL: t.ServerURL, Transport: t.Transport, Enabled: &on}
}

type testCaseDraft struct {
	models.LiveKitTestCase
	Name       string `json:"name" validate:"required" label:"Test name"`
	Input      string `json:"input" validate:"required" label:"Input"`
	LastResult string `json:"last_result" validate:"omitempty,oneof=pending pass fail" label:"Result"`
}

func (d testCaseDraft) record() models.LiveKitTestCase {
	c := d.LiveKitTestCase
	c.Name = d.Name
	c.Input = d.Input
	c.LastResult = orDefault(d.LastResult, models.TestPending)
	return c
}

func testCaseDraftOf(c models.LiveKitTestCase) testCaseDraft {
	return testCaseDraft{LiveKitTestCase: c, Name: c.Name, Input: c.Input, LastResult: c.LastResult}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
