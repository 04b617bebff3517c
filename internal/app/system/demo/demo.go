// Package demo produces the randomised placeholder values the console shows
// when demo mode is on: simulated telco API results and mock campaigns.
// None of it is telemetry. A nil *Simulator means demo mode is off and every
// Fill method leaves the record as the operator entered it.
package demo

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dalemusser/opsconsole/internal/domain/models"
)

// Simulator is safe for concurrent use.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// New returns a Simulator seeded from the wall clock.
func New() *Simulator {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// NewSeeded returns a deterministic Simulator, for tests.
func NewSeeded(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: time.Now}
}

func (s *Simulator) Enabled() bool { return s != nil }

// with runs fn holding the lock.
func (s *Simulator) with(fn func(r *rand.Rand)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.rng)
}

func between(r *rand.Rand, lo, hi int) int { return lo + r.IntN(hi-lo+1) }

func betweenF(r *rand.Rand, lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func ptr[T any](v T) *T { return &v }

// FillSimSwap sets the fraud score and swap result.
func (s *Simulator) FillSimSwap(req *models.SimSwapRequest) {
	if s == nil {
		return
	}
	s.with(func(r *rand.Rand) {
		req.FraudScore = r.IntN(101)
		req.SwapDetected = req.FraudScore >= 70
		if req.SwapDetected {
			maxDays := 30
			if req.MaxAgeHours > 0 && req.MaxAgeHours/24 < maxDays {
				maxDays = max(req.MaxAgeHours/24, 1)
			}
			d := between(r, 0, maxDays)
			req.DaysSinceSwap = ptr(d)
			req.LastSwapDate = ptr(s.now().UTC().AddDate(0, 0, -d).Truncate(time.Hour))
		}
		req.ResponseTimeMS = ptr(between(r, 80, 450))
	})
}

var networks = []struct{ name, kind string }{
	{"Vodafone", "5G"}, {"T-Mobile", "5G"}, {"Orange", "4G"}, {"Telefonica", "4G"},
}

// FillNumberVerification sets the match score and network details.
func (s *Simulator) FillNumberVerification(req *models.NumberVerificationRequest) {
	if s == nil {
		return
	}
	s.with(func(r *rand.Rand) {
		score := round(betweenF(r, 0.6, 1.0), 2)
		req.MatchScore = &score
		req.IsVerified = score >= 0.85
		if req.NetworkName == "" {
			n := networks[r.IntN(len(networks))]
			req.NetworkName, req.NetworkType = n.name, n.kind
		}
		req.ResponseTimeMS = ptr(between(r, 80, 450))
	})
}

// FillDeviceLocation sets coordinates near near (when given) and an accuracy.
// Coordinates the operator supplied are kept.
func (s *Simulator) FillDeviceLocation(req *models.DeviceLocationRequest, near *models.Geofence) {
	if s == nil {
		return
	}
	s.with(func(r *rand.Rand) {
		if req.Latitude == nil || req.Longitude == nil {
			lat, lon := betweenF(r, -60, 70), betweenF(r, -180, 180)
			if near != nil {
				// Within roughly twice the radius, so some land outside.
				spread := near.RadiusMeters * 2 / 111_000
				lat = near.CenterLat + betweenF(r, -spread, spread)
				lon = near.CenterLon + betweenF(r, -spread, spread)
			}
			req.Latitude, req.Longitude = ptr(round(lat, 6)), ptr(round(lon, 6))
		}
		req.AccuracyMeters = ptr(round(betweenF(r, 5, 100), 1))
		req.ResponseTimeMS = ptr(between(r, 80, 450))
	})
}

// FillQod sets measured session quality around the requested targets.
func (s *Simulator) FillQod(sess *models.QodSession) {
	if s == nil {
		return
	}
	s.with(func(r *rand.Rand) {
		latency := betweenF(r, 10, 80)
		if sess.TargetLatencyMS != nil {
			latency = *sess.TargetLatencyMS * betweenF(r, 0.8, 1.2)
		}
		bw := betweenF(r, 5, 100)
		if sess.TargetBandwidthMbps != nil {
			bw = *sess.TargetBandwidthMbps * betweenF(r, 0.85, 1.05)
		}
		sess.ActualLatencyMS = ptr(round(latency, 1))
		sess.ActualBandwidthMbps = ptr(round(bw, 1))
		sess.PacketLossPercent = ptr(round(betweenF(r, 0, 2), 2))
		sess.JitterMS = ptr(round(betweenF(r, 1, 10), 1))
	})
}

var campaignNames = map[string][]string{
	models.PlatformWeChat:    {"Spring Festival Greetings", "Member Day Coupons", "New Store Opening", "Weekly Digest"},
	models.PlatformFacebook:  {"Retargeting Q2", "Lookalike Prospecting", "Summer Sale", "Page Likes Boost"},
	models.PlatformInstagram: {"Reels Launch", "Story Swipe-ups", "Creator Collab", "Shop Tags"},
	models.PlatformLinkedIn:  {"B2B Lead Gen", "Webinar Signups", "Thought Leadership", "Hiring Drive"},
}

var objectives = []string{"awareness", "traffic", "engagement", "leads", "conversions"}

// Campaigns returns n mock campaigns for platform, newest first.
func (s *Simulator) Campaigns(platform string, n int) []models.Campaign {
	if s == nil {
		return nil
	}
	names := campaignNames[platform]
	if len(names) == 0 {
		return nil
	}
	out := make([]models.Campaign, 0, n)
	s.with(func(r *rand.Rand) {
		now := s.now().UTC()
		for i := range n {
			c := models.Campaign{
				ID:        fmt.Sprintf("%s-%d-%04d", platform, now.Unix(), r.IntN(10000)),
				Platform:  platform,
				Name:      names[i%len(names)],
				StartedAt: now.Add(-time.Duration(between(r, 1, 72*60)) * time.Minute),
			}
			if platform == models.PlatformWeChat {
				fillBroadcast(r, &c)
			} else {
				fillAd(r, &c)
			}
			out = append(out, c)
		}
	})
	return out
}

func fillBroadcast(r *rand.Rand, c *models.Campaign) {
	c.Audience = between(r, 2_000, 50_000)
	switch r.IntN(3) {
	case 0:
		c.Status = models.CampaignScheduled
	case 1:
		c.Status = models.CampaignInProgress
		c.Sent = between(r, 0, c.Audience)
		c.Delivered = c.Sent * between(r, 85, 99) / 100
		c.Read = c.Delivered * between(r, 20, 60) / 100
	default:
		c.Status = models.CampaignCompleted
		c.Sent = c.Audience
		c.Delivered = c.Sent * between(r, 90, 99) / 100
		c.Read = c.Delivered * between(r, 30, 70) / 100
	}
}

func fillAd(r *rand.Rand, c *models.Campaign) {
	c.Objective = objectives[r.IntN(len(objectives))]
	c.Budget = float64(between(r, 5, 100) * 100)
	switch r.IntN(4) {
	case 0:
		c.Status = models.CampaignPaused
	case 1:
		c.Status = models.CampaignCompleted
	default:
		c.Status = models.CampaignActive
	}
	c.Impressions = between(r, 1_000, 200_000)
	c.Clicks = c.Impressions * between(r, 5, 40) / 1000
	c.Conversions = c.Clicks * between(r, 1, 15) / 100
	c.Spend = min(round(float64(c.Clicks)*betweenF(r, 0.3, 2.5), 2), c.Budget)
	if c.Status == models.CampaignCompleted {
		c.Spend = c.Budget
	}
}

// Advance applies one bounded random step to a live campaign. Counters only
// grow and never pass their ceilings (audience, sent, delivered, budget).
// It reports whether anything changed.
func (s *Simulator) Advance(c *models.Campaign) bool {
	if s == nil || !c.IsLive() {
		return false
	}
	var changed bool
	s.with(func(r *rand.Rand) {
		if c.Platform == models.PlatformWeChat {
			changed = advanceBroadcast(r, c)
		} else {
			changed = advanceAd(r, c)
		}
	})
	return changed
}

func advanceBroadcast(r *rand.Rand, c *models.Campaign) bool {
	before := *c
	c.Sent += min(between(r, 10, 200), c.Audience-c.Sent)
	c.Delivered += min(between(r, 5, 180), c.Sent-c.Delivered)
	c.Read += min(between(r, 0, 80), c.Delivered-c.Read)
	if c.Sent == c.Audience && c.Delivered == c.Sent {
		c.Status = models.CampaignCompleted
	}
	return *c != before
}

func advanceAd(r *rand.Rand, c *models.Campaign) bool {
	before := *c
	imp := between(r, 50, 500)
	clicks := imp * between(r, 0, 40) / 1000
	c.Impressions += imp
	c.Clicks += clicks
	c.Conversions += clicks * between(r, 0, 15) / 100
	c.Spend = min(round(c.Spend+float64(clicks)*betweenF(r, 0.3, 2.5), 2), c.Budget)
	if c.Budget > 0 && c.Spend >= c.Budget {
		c.Status = models.CampaignCompleted
	}
	return *c != before
}
