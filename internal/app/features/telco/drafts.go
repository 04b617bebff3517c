// internal/app/features/telco/drafts.go
package telco

import "github.com/dalemusser/opsconsole/internal/domain/models"

// Create drafts embed the stored record and shadow the fields that carry
// validation rules or defaults. Shadowed fields win when decoding JSON.

type providerDraft struct {
	models.TelcoAPIProvider
	Name string `json:"name" validate:"required" label:"Provider name"`
}

func (d providerDraft) record() models.TelcoAPIProvider {
	p := d.TelcoAPIProvider
	p.Name = d.Name
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	return p
}

func providerDraftOf(p models.TelcoAPIProvider) providerDraft {
	return providerDraft{TelcoAPIProvider: p, Name: p.Name}
}

type simSwapDraft struct {
	models.SimSwapRequest
	PhoneNumber string `json:"phone_number" validate:"required" label:"Phone number"`
}

func (d simSwapDraft) record() models.SimSwapRequest {
	s := d.SimSwapRequest
	s.PhoneNumber = d.PhoneNumber
	if s.MaxAgeHours == 0 {
		s.MaxAgeHours = 240
	}
	return s
}

func simSwapDraftOf(s models.SimSwapRequest) simSwapDraft {
	return simSwapDraft{SimSwapRequest: s, PhoneNumber: s.PhoneNumber}
}

type numberVerificationDraft struct {
	models.NumberVerificationRequest
	PhoneNumber string `json:"phone_number" validate:"required" label:"Phone number"`
}

func (d numberVerificationDraft) record() models.NumberVerificationRequest {
	n := d.NumberVerificationRequest
	n.PhoneNumber = d.PhoneNumber
	if n.VerificationMethod == "" {
		n.VerificationMethod = "network"
	}
	return n
}

func numberVerificationDraftOf(n models.NumberVerificationRequest) numberVerificationDraft {
	return numberVerificationDraft{NumberVerificationRequest: n, PhoneNumber: n.PhoneNumber}
}

type deviceLocationDraft struct {
	models.DeviceLocationRequest
	PhoneNumber string   `json:"phone_number" validate:"required" label:"Phone number"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90" label:"Latitude"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180" label:"Longitude"`
}

func (d deviceLocationDraft) record() models.DeviceLocationRequest {
	l := d.DeviceLocationRequest
	l.PhoneNumber = d.PhoneNumber
	l.Latitude, l.Longitude = d.Latitude, d.Longitude
	if l.RequestType == "" {
		l.RequestType = "retrieve"
		if l.GeofenceID != nil {
			l.RequestType = "verify"
		}
	}
	return l
}

func deviceLocationDraftOf(l models.DeviceLocationRequest) deviceLocationDraft {
	return deviceLocationDraft{DeviceLocationRequest: l, PhoneNumber: l.PhoneNumber, Latitude: l.Latitude, Longitude: l.Longitude}
}

// defaultRadiusMeters applies when a geofence is created without a radius.
const defaultRadiusMeters = 1000

type geofenceDraft struct {
	models.Geofence
	GeofenceName string   `json:"geofence_name" validate:"required" label:"Geofence name"`
	CenterLat    float64  `json:"center_lat" validate:"gte=-90,lte=90" label:"Center latitude"`
	CenterLon    float64  `json:"center_lon" validate:"gte=-180,lte=180" label:"Center longitude"`
	RadiusMeters float64  `json:"radius_meters" validate:"gte=0" label:"Radius"`
	IsActive     *bool    `json:"is_active"`
}

func (d geofenceDraft) record() models.Geofence {
	g := d.Geofence
	g.GeofenceName = d.GeofenceName
	g.CenterLat, g.CenterLon = d.CenterLat, d.CenterLon
	g.RadiusMeters = d.RadiusMeters
	if g.RadiusMeters == 0 {
		g.RadiusMeters = defaultRadiusMeters
	}
	if g.ShapeType == "" {
		g.ShapeType = "circle"
	}
	g.IsActive = d.IsActive == nil || *d.IsActive
	g.Status = activeStatus(g.IsActive)
	return g
}

func geofenceDraftOf(g models.Geofence) geofenceDraft {
	active := g.IsActive
	return geofenceDraft{
		Geofence:     g,
		GeofenceName: g.GeofenceName,
		CenterLat:    g.CenterLat,
		CenterLon:    g.CenterLon,
		RadiusMeters: g.RadiusMeters,
		IsActive:     &active,
	}
}

type qodDraft struct {
	models.QodSession
	PhoneNumber string `json:"phone_number" validate:"required" label:"Phone number"`
}

func (d qodDraft) record() models.QodSession {
	q := d.QodSession
	q.PhoneNumber = d.PhoneNumber
	if q.QosProfile == "" {
		q.QosProfile = "QOS_E"
	}
	if q.SessionDurationMinutes == 0 {
		q.SessionDurationMinutes = 60
	}
	if q.Status == "" {
		q.Status = models.QodRequested
	}
	return q
}

func qodDraftOf(q models.QodSession) qodDraft {
	return qodDraft{QodSession: q, PhoneNumber: q.PhoneNumber}
}

type trackedDeviceDraft struct {
	models.TrackedDevice
	DeviceName      string `json:"device_name" validate:"required" label:"Device name"`
	PhoneNumber     string `json:"phone_number" validate:"required" label:"Phone number"`
	TrackingEnabled *bool  `json:"tracking_enabled"`
}

func (d trackedDeviceDraft) record() models.TrackedDevice {
	t := d.TrackedDevice
	t.DeviceName = d.DeviceName
	t.PhoneNumber = d.PhoneNumber
	t.TrackingEnabled = d.TrackingEnabled == nil || *d.TrackingEnabled
	if t.UpdateFrequencyMinutes == 0 {
		t.UpdateFrequencyMinutes = 15
	}
	if t.PrecisionLevel == "" {
		t.PrecisionLevel = "standard"
	}
	if t.Status == "" {
		t.Status = models.StatusActive
	}
	return t
}

func trackedDeviceDraftOf(t models.TrackedDevice) trackedDeviceDraft {
	on := t.TrackingEnabled
	return trackedDeviceDraft{TrackedDevice: t, DeviceName: t.DeviceName, PhoneNumber: t.PhoneNumber, TrackingEnabled: &on}
}

func activeStatus(on bool) string {
	if on {
		return models.StatusActive
	}
	return models.StatusInactive
}
