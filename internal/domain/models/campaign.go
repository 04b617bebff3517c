// internal/domain/models/campaign.go
package models

import "time"

// Campaign platforms served by the demo campaign boards.
const (
	PlatformWeChat    = "wechat"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformLinkedIn  = "linkedin"
)

// Platforms lists every campaign platform in display order.
var Platforms = []string{PlatformWeChat, PlatformFacebook, PlatformInstagram, PlatformLinkedIn}

// Campaign states. Broadcasts (WeChat) move scheduled → in_progress →
// completed; ad campaigns are active, paused or completed.
const (
	CampaignScheduled  = "scheduled"
	CampaignInProgress = "in_progress"
	CampaignActive     = "active"
	CampaignPaused     = "paused"
	CampaignCompleted  = "completed"
)

// Campaign is a mock marketing campaign. Campaigns are generated in memory
// for demo boards and are never persisted.
type Campaign struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Objective string    `json:"objective,omitempty"`
	StartedAt time.Time `json:"started_at"`

	// Broadcast counters (WeChat).
	Audience  int `json:"audience,omitempty"`
	Sent      int `json:"sent,omitempty"`
	Delivered int `json:"delivered,omitempty"`
	Read      int `json:"read,omitempty"`

	// Ad counters (Facebook / Instagram / LinkedIn).
	Impressions int     `json:"impressions,omitempty"`
	Clicks      int     `json:"clicks,omitempty"`
	Conversions int     `json:"conversions,omitempty"`
	Spend       float64 `json:"spend,omitempty"`
	Budget      float64 `json:"budget,omitempty"`
}

// IsLive reports whether the live feed should advance this campaign.
func (c Campaign) IsLive() bool {
	return c.Status == CampaignInProgress || c.Status == CampaignActive
}
