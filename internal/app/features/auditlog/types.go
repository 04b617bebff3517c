// internal/app/features/auditlog/types.go
package auditlog

import (
	"github.com/dalemusser/opsconsole/internal/app/store/audit"
	"github.com/dalemusser/opsconsole/internal/app/system/notice"
)

// listData is the JSON body of GET /audit.
type listData struct {
	Items []audit.Event `json:"items"`

	// Filters echoed back
	Category  string `json:"category,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Table     string `json:"table,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`

	// Filter options
	Categories []categoryOption `json:"categories"`
	EventTypes []string         `json:"event_types"`

	// Pagination
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`

	Notice *notice.Notice `json:"notice,omitempty"`
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Console changes"},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLogout,
	}

	adminEvents := []string{
		audit.EventRecordCreated,
		audit.EventRecordUpdated,
		audit.EventRecordDeleted,
		audit.EventLiveFeedStart,
		audit.EventLiveFeedStop,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}
