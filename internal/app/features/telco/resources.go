// internal/app/features/telco/resources.go
package telco

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	telcostore "github.com/dalemusser/opsconsole/internal/app/store/telco"
	"github.com/dalemusser/opsconsole/internal/app/system/crud"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/app/system/geo"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

func (h *Handler) providers() *crud.Resource[models.TelcoAPIProvider, *models.TelcoAPIProvider, providerDraft] {
	return &crud.Resource[models.TelcoAPIProvider, *models.TelcoAPIProvider, providerDraft]{
		Table:   records.TableTelcoProviders,
		Noun:    "provider",
		Plural:  "providers",
		Repo:    h.Store.Providers,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d providerDraft) (models.TelcoAPIProvider, error) {
			return d.record(), nil
		},
		Draft: providerDraftOf,
		Tidy: func(p *models.TelcoAPIProvider, patch records.Patch) {
			crud.Text(patch, "name", &p.Name)
			crud.Trim(patch, "provider_code", &p.ProviderCode)
			crud.Texts(patch, "supported_apis", &p.SupportedAPIs)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("status", "status", []string{models.StatusActive, models.StatusInactive}).
				Eq("country", "country").
				Build()
		},
	}
}

func (h *Handler) simSwaps() *crud.Resource[models.SimSwapRequest, *models.SimSwapRequest, simSwapDraft] {
	return &crud.Resource[models.SimSwapRequest, *models.SimSwapRequest, simSwapDraft]{
		Table:   records.TableSimSwapRequests,
		Noun:    "SIM swap check",
		Plural:  "SIM swap checks",
		Repo:    h.Store.SimSwaps,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d simSwapDraft) (models.SimSwapRequest, error) {
			s := d.record()
			h.Demo.FillSimSwap(&s)
			return s, nil
		},
		Draft: simSwapDraftOf,
		Tidy: func(s *models.SimSwapRequest, patch records.Patch) {
			crud.Trim(patch, "phone_number", &s.PhoneNumber)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				Eq("phone", "phone_number").
				Bool("detected", "swap_detected").
				ID("provider", "provider_id").
				Build()
		},
		Created: logUsage(h, APISimSwap, func(s models.SimSwapRequest) usage {
			return usage{phone: s.PhoneNumber, provider: s.ProviderID, success: true, responseMS: s.ResponseTimeMS}
		}),
		Metrics: func(items []models.SimSwapRequest) any {
			return map[string]float64{
				"avg_fraud_score": derive.MeanOf(items, func(s models.SimSwapRequest) *float64 {
					v := float64(s.FraudScore)
					return &v
				}),
				"swaps_detected": float64(derive.Count(items, func(s models.SimSwapRequest) bool { return s.SwapDetected })),
			}
		},
	}
}

func (h *Handler) numberVerifications() *crud.Resource[models.NumberVerificationRequest, *models.NumberVerificationRequest, numberVerificationDraft] {
	return &crud.Resource[models.NumberVerificationRequest, *models.NumberVerificationRequest, numberVerificationDraft]{
		Table:   records.TableNumberVerifications,
		Noun:    "number verification",
		Plural:  "number verifications",
		Repo:    h.Store.NumberVerifications,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d numberVerificationDraft) (models.NumberVerificationRequest, error) {
			n := d.record()
			h.Demo.FillNumberVerification(&n)
			return n, nil
		},
		Draft: numberVerificationDraftOf,
		Tidy: func(n *models.NumberVerificationRequest, patch records.Patch) {
			crud.Trim(patch, "phone_number", &n.PhoneNumber)
			crud.Text(patch, "network_name", &n.NetworkName)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				Eq("phone", "phone_number").
				Bool("verified", "is_verified").
				Build()
		},
		Created: logUsage(h, APINumberVerification, func(n models.NumberVerificationRequest) usage {
			return usage{phone: n.PhoneNumber, success: true, responseMS: n.ResponseTimeMS}
		}),
	}
}

func (h *Handler) deviceLocations() *crud.Resource[models.DeviceLocationRequest, *models.DeviceLocationRequest, deviceLocationDraft] {
	return &crud.Resource[models.DeviceLocationRequest, *models.DeviceLocationRequest, deviceLocationDraft]{
		Table:   records.TableDeviceLocations,
		Noun:    "location request",
		Plural:  "location requests",
		Repo:    h.Store.DeviceLocations,
		Log:     h.Log,
		Notices: h.Notices,
		Build:   h.buildDeviceLocation,
		Draft:   deviceLocationDraftOf,
		Tidy: func(l *models.DeviceLocationRequest, patch records.Patch) {
			crud.Trim(patch, "phone_number", &l.PhoneNumber)
		},
		Revise: h.reviseDeviceLocation,
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				Eq("phone", "phone_number").
				OneOf("status", "status", []string{models.LocationPending, models.LocationCompleted, models.LocationFailed}).
				ID("geofence", "geofence_id").
				Build()
		},
		Created: logUsage(h, APIDeviceLocation, func(l models.DeviceLocationRequest) usage {
			return usage{phone: l.PhoneNumber, success: l.Status != models.LocationFailed, responseMS: l.ResponseTimeMS}
		}),
	}
}

// buildDeviceLocation resolves the referenced geofence and, once coordinates
// are known, whether the device is inside it.
func (h *Handler) buildDeviceLocation(ctx context.Context, _ *http.Request, d deviceLocationDraft) (models.DeviceLocationRequest, error) {
	l := d.record()
	err := h.locate(ctx, &l, true)
	return l, err
}

// reviseDeviceLocation repeats the geofence check when an update moves the
// device or changes its geofence, so is_within_area and status stay current.
func (h *Handler) reviseDeviceLocation(ctx context.Context, l *models.DeviceLocationRequest, patch records.Patch) error {
	if !crud.Touches(patch, "latitude", "longitude", "geofence_id") {
		return nil
	}
	l.Status = ""
	if err := h.locate(ctx, l, false); err != nil {
		return err
	}
	patch["status"] = l.Status
	if l.IsWithinArea == nil {
		patch["is_within_area"] = nil
	} else {
		patch["is_within_area"] = *l.IsWithinArea
	}
	return nil
}

// locate sets IsWithinArea and, when empty, Status. A missing or inactive
// geofence is not an error: the request becomes failed. fill lets the demo
// simulator supply coordinates first.
func (h *Handler) locate(ctx context.Context, l *models.DeviceLocationRequest, fill bool) error {
	l.IsWithinArea = nil

	var fence *models.Geofence
	if l.GeofenceID != nil {
		g, err := h.Store.ActiveGeofence(ctx, *l.GeofenceID)
		switch {
		case errors.Is(err, telcostore.ErrGeofenceUnavailable):
			l.Status = models.LocationFailed
			return nil
		case err != nil:
			return err
		}
		fence = &g
	}

	if fill {
		h.Demo.FillDeviceLocation(l, fence)
	}

	if l.Latitude == nil || l.Longitude == nil {
		if l.Status == "" {
			l.Status = models.LocationPending
		}
		return nil
	}
	if fence != nil {
		c := geo.Circle{Lat: fence.CenterLat, Lon: fence.CenterLon, RadiusMeters: fence.RadiusMeters}
		inside := c.Contains(*l.Latitude, *l.Longitude)
		l.IsWithinArea = &inside
	}
	if l.Status == "" {
		l.Status = models.LocationCompleted
	}
	return nil
}

func (h *Handler) geofences() *crud.Resource[models.Geofence, *models.Geofence, geofenceDraft] {
	return &crud.Resource[models.Geofence, *models.Geofence, geofenceDraft]{
		Table:   records.TableGeofences,
		Noun:    "geofence",
		Plural:  "geofences",
		Repo:    h.Store.Geofences,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d geofenceDraft) (models.Geofence, error) {
			return d.record(), nil
		},
		Draft: geofenceDraftOf,
		Tidy: func(g *models.Geofence, patch records.Patch) {
			crud.Text(patch, "geofence_name", &g.GeofenceName)
			crud.Text(patch, "description", &g.Description)
			crud.Texts(patch, "tags", &g.Tags)
			g.GeofenceNameCI = text.Fold(g.GeofenceName)
			crud.Derive(patch, "geofence_name_ci", g.GeofenceNameCI, "geofence_name")
			g.Status = activeStatus(g.IsActive)
			crud.Derive(patch, "status", g.Status, "is_active")
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).Bool("active", "is_active").Build()
		},
	}
}

func (h *Handler) qodSessions() *crud.Resource[models.QodSession, *models.QodSession, qodDraft] {
	return &crud.Resource[models.QodSession, *models.QodSession, qodDraft]{
		Table:   records.TableQodSessions,
		Noun:    "QoD session",
		Plural:  "QoD sessions",
		Repo:    h.Store.QodSessions,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d qodDraft) (models.QodSession, error) {
			q := d.record()
			if q.SessionID == "" {
				q.SessionID = uuid.NewString()
			}
			if h.Demo.Enabled() {
				h.Demo.FillQod(&q)
				if q.Status == models.QodRequested {
					q.Status = models.QodActive
				}
			}
			return q, nil
		},
		Draft: qodDraftOf,
		Tidy: func(q *models.QodSession, patch records.Patch) {
			crud.Trim(patch, "phone_number", &q.PhoneNumber)
			crud.Trim(patch, "session_id", &q.SessionID)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				Eq("phone", "phone_number").
				OneOf("status", "status", []string{models.QodActive, models.QodRequested, models.QodTerminated, models.QodFailed}).
				Eq("profile", "qos_profile").
				Build()
		},
		Created: logUsage(h, APIQualityOnDemand, func(q models.QodSession) usage {
			return usage{phone: q.PhoneNumber, success: q.Status != models.QodFailed}
		}),
		Metrics: func(items []models.QodSession) any {
			return map[string]float64{
				"avg_latency_ms": derive.MeanOf(items, func(q models.QodSession) *float64 { return q.ActualLatencyMS }),
				"active":         float64(derive.Count(items, func(q models.QodSession) bool { return q.Status == models.QodActive })),
			}
		},
	}
}

func (h *Handler) trackedDevices() *crud.Resource[models.TrackedDevice, *models.TrackedDevice, trackedDeviceDraft] {
	return &crud.Resource[models.TrackedDevice, *models.TrackedDevice, trackedDeviceDraft]{
		Table:   records.TableTrackedDevices,
		Noun:    "tracked device",
		Plural:  "tracked devices",
		Repo:    h.Store.TrackedDevices,
		Log:     h.Log,
		Notices: h.Notices,
		Build: func(_ context.Context, _ *http.Request, d trackedDeviceDraft) (models.TrackedDevice, error) {
			return d.record(), nil
		},
		Draft: trackedDeviceDraftOf,
		Tidy: func(t *models.TrackedDevice, patch records.Patch) {
			crud.Text(patch, "device_name", &t.DeviceName)
			crud.Trim(patch, "phone_number", &t.PhoneNumber)
			crud.Texts(patch, "tags", &t.Tags)
		},
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				Bool("tracking", "tracking_enabled").
				Eq("type", "device_type").
				Build()
		},
	}
}

func (h *Handler) usageRows() *crud.Resource[models.TelcoAPIUsage, *models.TelcoAPIUsage, models.TelcoAPIUsage] {
	return &crud.Resource[models.TelcoAPIUsage, *models.TelcoAPIUsage, models.TelcoAPIUsage]{
		Table:   records.TableTelcoUsage,
		Noun:    "usage record",
		Plural:  "usage records",
		Repo:    h.Store.Usage,
		Log:     h.Log,
		Notices: h.Notices,
		Filter: func(r *http.Request) (bson.M, error) {
			return crud.NewFilters(r).
				OneOf("api", "api_name", []string{APISimSwap, APINumberVerification, APIDeviceLocation, APIQualityOnDemand}).
				Bool("success", "success").
				Build()
		},
		Metrics: func(items []models.TelcoAPIUsage) any {
			return derive.Usage(items)
		},
	}
}
