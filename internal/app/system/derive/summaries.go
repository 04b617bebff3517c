package derive

import "github.com/dalemusser/opsconsole/internal/domain/models"

// TelcoInput is what the telco overview loads before summarising. Every
// figure covers the whole table, not just the rows shown.
type TelcoInput struct {
	// Usage counts since midnight UTC.
	RequestsToday   int
	SuccessfulToday int

	FraudScores       Running // every SIM-swap check
	QodLatency        Running // QoD sessions with a measured latency
	ActiveQodSessions int
	ActiveGeofences   int
	TrackedDevices    int
}

type TelcoSummary struct {
	TotalRequestsToday int     `json:"total_requests_today"`
	SuccessfulToday    int     `json:"successful_today"`
	SuccessRate        float64 `json:"success_rate"`
	AvgSimSwapScore    float64 `json:"avg_sim_swap_score"`
	AvgLatencyMS       float64 `json:"avg_latency_ms"`
	ActiveQodSessions  int     `json:"active_qod_sessions"`
	ActiveGeofences    int     `json:"active_geofences"`
	TrackedDevices     int     `json:"tracked_devices"`
}

func Telco(in TelcoInput) TelcoSummary {
	return TelcoSummary{
		TotalRequestsToday: in.RequestsToday,
		SuccessfulToday:    in.SuccessfulToday,
		SuccessRate:        Rate(float64(in.SuccessfulToday), float64(in.RequestsToday)),
		AvgSimSwapScore:    in.FraudScores.Mean(),
		AvgLatencyMS:       in.QodLatency.Mean(),
		ActiveQodSessions:  in.ActiveQodSessions,
		ActiveGeofences:    in.ActiveGeofences,
		TrackedDevices:     in.TrackedDevices,
	}
}

type VoiceSummary struct {
	TotalCalls         int     `json:"total_calls"`
	SuccessfulCalls    int     `json:"successful_calls"`
	SuccessRate        float64 `json:"success_rate"`
	AvgDurationSeconds float64 `json:"avg_duration_seconds"`
	AvgSentiment       float64 `json:"avg_sentiment"`
}

func Voice(calls []models.VoiceAgentCall) VoiceSummary {
	ok := Count(calls, func(c models.VoiceAgentCall) bool { return c.Success })
	return VoiceSummary{
		TotalCalls:         len(calls),
		SuccessfulCalls:    ok,
		SuccessRate:        Rate(float64(ok), float64(len(calls))),
		AvgDurationSeconds: MeanOf(calls, func(c models.VoiceAgentCall) *float64 { return c.DurationSeconds }),
		AvgSentiment:       MeanOf(calls, func(c models.VoiceAgentCall) *float64 { return c.SentimentScore }),
	}
}

// CampaignSummary covers both broadcast and ad boards; the fields that do
// not apply to a platform stay zero.
type CampaignSummary struct {
	Campaigns int `json:"campaigns"`
	Live      int `json:"live"`

	Sent         int     `json:"sent"`
	Delivered    int     `json:"delivered"`
	Read         int     `json:"read"`
	DeliveryRate float64 `json:"delivery_rate"`
	ReadRate     float64 `json:"read_rate"`

	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
	Conversions int     `json:"conversions"`
	Spend       float64 `json:"spend"`
	CPC         float64 `json:"cpc"`
}

func Campaigns(cs []models.Campaign) CampaignSummary {
	s := CampaignSummary{
		Campaigns: len(cs),
		Live:      Count(cs, models.Campaign.IsLive),
	}
	for _, c := range cs {
		s.Sent += c.Sent
		s.Delivered += c.Delivered
		s.Read += c.Read
		s.Impressions += c.Impressions
		s.Clicks += c.Clicks
		s.Conversions += c.Conversions
		s.Spend += c.Spend
	}
	s.Spend = Round(s.Spend, 2)
	s.DeliveryRate = Rate(float64(s.Delivered), float64(s.Sent))
	// Read rate is over delivered messages, not sent ones.
	s.ReadRate = Rate(float64(s.Read), float64(s.Delivered))
	s.CTR = Rate(float64(s.Clicks), float64(s.Impressions))
	s.CPC = Round(Ratio(s.Spend, float64(s.Clicks)), 2)
	return s
}

// UsageByAPI totals usage rows per api_name, for the purchase report.
type UsageByAPI struct {
	APIName      string  `json:"api_name" yaml:"api_name"`
	Calls        int     `json:"calls" yaml:"calls"`
	Successful   int     `json:"successful" yaml:"successful"`
	SuccessRate  float64 `json:"success_rate" yaml:"success_rate"`
	AvgLatencyMS float64 `json:"avg_latency_ms" yaml:"avg_latency_ms"`
}

// Usage groups rows by API in first-seen order.
func Usage(rows []models.TelcoAPIUsage) []UsageByAPI {
	idx := map[string]int{}
	var out []UsageByAPI
	var sums []float64
	for _, r := range rows {
		i, ok := idx[r.APIName]
		if !ok {
			i = len(out)
			idx[r.APIName] = i
			out = append(out, UsageByAPI{APIName: r.APIName})
			sums = append(sums, 0)
		}
		out[i].Calls++
		if r.Success {
			out[i].Successful++
		}
		sums[i] += float64(r.ResponseTimeMS)
	}
	for i := range out {
		out[i].SuccessRate = Rate(float64(out[i].Successful), float64(out[i].Calls))
		out[i].AvgLatencyMS = Ratio(sums[i], float64(out[i].Calls))
	}
	return out
}
