// internal/app/features/livekit/resources.go
package livekit

import (
	"context"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func (h *Handler) agents() *crud.Resource[models.LiveKitAgent, *models.LiveKitAgent, agentDraft] {
	return &crud.Resource[models.LiveKitAgent, *models.LiveKitAgent, agentDraft]{
		Table:   records.TableLiveKitAgents,
		Noun:    "agent",
		Plural:  "agents",
		Repo:    h.Store.Agents,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d agentDraft) (models.LiveKitAgent, error) {
			return d.record(), nil
		},
		Draft: agentDraftOf,
		Tidy: func(a *models.LiveKitAgent, patch records.Patch) {
			crud.Text(patch, "name", &a.Name)
			crud.Text(patch, "instructions", &a.Instructions)
			crud.Trim(patch, "room_prefix", &a.RoomPrefix)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("status", "status", models.AgentStatuses).
				OneOf("type", "agent_type", []string{"voice", "multimodal"}).
				Build()
		},
	}
}

func (h *Handler) sessions() *crud.Resource[models.LiveKitSession, *models.LiveKitSession, sessionDraft] {
	return &crud.Resource[models.LiveKitSession, *models.LiveKitSession, sessionDraft]{
		Table:   records.TableLiveKitSessions,
		Noun:    "session",
		Plural:  "sessions",
		Repo:    h.Store.Sessions,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d sessionDraft) (models.LiveKitSession, error) {
			return d.record(), nil
		},
		Draft: sessionDraftOf,
		Tidy: func(s *models.LiveKitSession, patch records.Patch) {
			crud.Trim(patch, "room_name", &s.RoomName)
			crud.Trim(patch, "participant_identity", &s.ParticipantIdentity)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("status", "status", []string{models.SessionActive, models.SessionEnded, models.SessionFailed}).
				ID("agent", "agent_id").
				Build()
		},
		Metrics: func(items []models.LiveKitSession) any {
			return map[string]float64{
				"active":               float64(derive.Count(items, func(s models.LiveKitSession) bool { return s.Status == models.SessionActive })),
				"avg_duration_seconds": derive.MeanOf(items, func(s models.LiveKitSession) *float64 { return s.DurationSeconds }),
			}
		},
	}
}

func (h *Handler) jobs() *crud.Resource[models.LiveKitJob, *models.LiveKitJob, jobDraft] {
	return &crud.Resource[models.LiveKitJob, *models.LiveKitJob, jobDraft]{
		Table:   records.TableLiveKitJobs,
		Noun:    "job",
		Plural:  "jobs",
		Repo:    h.Store.Jobs,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d jobDraft) (models.LiveKitJob, error) {
			return d.record(), nil
		},
		Draft: jobDraftOf,
		Tidy: func(j *models.LiveKitJob, patch records.Patch) {
			crud.Trim(patch, "job_type", &j.JobType)
			crud.Text(patch, "error", &j.Error)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("status", "status", []string{models.JobPending, models.JobRunning, models.JobCompleted, models.JobFailed}).
				ID("agent", "agent_id").
				ID("worker", "worker_id").
				Build()
		},
		Metrics: func(items []models.LiveKitJob) any {
			byStatus := map[string]int{}
			for _, j := range items {
				byStatus[j.Status]++
			}
			return byStatus
		},
	}
}

func (h *Handler) workers() *crud.Resource[models.LiveKitWorker, *models.LiveKitWorker, workerDraft] {
	return &crud.Resource[models.LiveKitWorker, *models.LiveKitWorker, workerDraft]{
		Table:   records.TableLiveKitWorkers,
		Noun:    "worker",
		Plural:  "workers",
		Repo:    h.Store.Workers,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d workerDraft) (models.LiveKitWorker, error) {
			return d.record(), nil
		},
		Draft: workerDraftOf,
		Tidy: func(w *models.LiveKitWorker, patch records.Patch) {
			crud.Trim(patch, "worker_name", &w.WorkerName)
			crud.Trim(patch, "host", &w.Host)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("status", "status", []string{models.WorkerOnline, models.WorkerOffline, models.WorkerDraining}).
				Eq("region", "region").
				Build()
		},
		Metrics: func(items []models.LiveKitWorker) any {
			online := func(w models.LiveKitWorker) bool { return w.Status == models.WorkerOnline }
			capacity := derive.Sum(items, func(w models.LiveKitWorker) float64 { return float64(w.Capacity) })
			load := derive.Sum(items, func(w models.LiveKitWorker) float64 { return float64(w.CurrentLoad) })
			return map[string]float64{
				"online":      float64(derive.Count(items, online)),
				"utilization": derive.Rate(load, capacity),
			}
		},
	}
}

func (h *Handler) mcpTools() *crud.Resource[models.LiveKitMCPTool, *models.LiveKitMCPTool, mcpToolDraft] {
	return &crud.Resource[models.LiveKitMCPTool, *models.LiveKitMCPTool, mcpToolDraft]{
		Table:   records.TableLiveKitMCPTools,
		Noun:    "MCP tool",
		Plural:  "MCP tools",
		Repo:    h.Store.MCPTools,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d mcpToolDraft) (models.LiveKitMCPTool, error) {
			return d.record(), nil
		},
		Draft: mcpToolDraftOf,
		Tidy: func(t *models.LiveKitMCPTool, patch records.Patch) {
			crud.Text(patch, "name", &t.Name)
			crud.Trim(patch, "server_url", &t.ServerURL)
			crud.Text(patch, "description", &t.Description)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				Bool("enabled", "enabled").
				ID("agent", "agent_id").
				Build()
		},
	}
}

func (h *Handler) testCases() *crud.Resource[models.LiveKitTestCase, *models.LiveKitTestCase, testCaseDraft] {
	return &crud.Resource[models.LiveKitTestCase, *models.LiveKitTestCase, testCaseDraft]{
		Table:   records.TableLiveKitTestCases,
		Noun:    "test case",
		Plural:  "test cases",
		Repo:    h.Store.TestCases,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d testCaseDraft) (models.LiveKitTestCase, error) {
			return d.record(), nil
		},
		Draft: testCaseDraftOf,
		Tidy: func(c *models.LiveKitTestCase, patch records.Patch) {
			crud.Text(patch, "name", &c.Name)
			crud.Text(patch, "input", &c.Input)
			crud.Text(patch, "expected_output", &c.ExpectedOutput)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("result", "last_result", []string{models.TestPending, models.TestPass, models.TestFail}).
				ID("agent", "agent_id").
				Build()
		},
		Metrics: func(items []models.LiveKitTestCase) any {
			pass := derive.Count(items, func(c models.LiveKitTestCase) bool { return c.LastResult == models.TestPass })
			run := derive.Count(items, func(c models.LiveKitTestCase) bool { return c.LastResult != models.TestPending })
			return map[string]float64{"pass_rate": derive.Rate(float64(pass), float64(run))}
		},
	}
}
