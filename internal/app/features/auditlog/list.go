// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/store/audit"
	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const pageSize = 50

const dateLayout = "2006-01-02"

// ServeList handles GET /audit: audit events newest first, with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	table := strings.TrimSpace(q.Get("table"))
	startDate := strings.TrimSpace(q.Get("start_date"))
	endDate := strings.TrimSpace(q.Get("end_date"))

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	if category != "" && eventTypesForCategory(category) == nil {
		h.bad(w, "Unknown category: "+category)
		return
	}
	if table != "" && !records.IsTable(table) {
		h.bad(w, "Unknown table: "+table)
		return
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Table:     table,
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if startDate != "" {
		t, err := time.Parse(dateLayout, startDate)
		if err != nil {
			h.bad(w, "start_date must be YYYY-MM-DD.")
			return
		}
		filter.StartTime = &t
	}
	if endDate != "" {
		t, err := time.Parse(dateLayout, endDate)
		if err != nil {
			h.bad(w, "end_date must be YYYY-MM-DD.")
			return
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &endOfDay
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.Log.Error("failed to query audit events", zap.Error(err))
		crud.WriteJSON(w, http.StatusInternalServerError, listData{Notice: h.Notices.Failed("load audit events")})
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.Log.Error("failed to count audit events", zap.Error(err))
		crud.WriteJSON(w, http.StatusInternalServerError, listData{Notice: h.Notices.Failed("load audit events")})
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	crud.WriteJSON(w, http.StatusOK, listData{
		Items:      events,
		Category:   category,
		EventType:  eventType,
		Table:      table,
		StartDate:  startDate,
		EndDate:    endDate,
		Categories: allCategories(),
		EventTypes: eventTypesForCategory(category),
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	})
}

func (h *Handler) bad(w http.ResponseWriter, msg string) {
	crud.WriteJSON(w, http.StatusBadRequest, listData{Notice: h.Notices.Error(msg)})
}
