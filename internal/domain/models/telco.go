// internal/domain/models/telco.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Telco network-intelligence records. Optional columns are pointers so a
// missing value stays distinguishable from zero (an unmeasured latency is
// not a 0 ms latency).

// TelcoAPIProvider is an operator network exposing CAMARA-style APIs.
type TelcoAPIProvider struct {
	Meta          `bson:",inline"`
	Name          string   `bson:"name" json:"name"`
	ProviderCode  string   `bson:"provider_code,omitempty" json:"provider_code,omitempty"`
	Country       string   `bson:"country,omitempty" json:"country,omitempty"`
	BaseURL       string   `bson:"base_url,omitempty" json:"base_url,omitempty"`
	SupportedAPIs []string `bson:"supported_apis,omitempty" json:"supported_apis,omitempty"`
	Status        string   `bson:"status" json:"status"` // active | inactive
}

// SimSwapRequest is one SIM-swap check for a phone number.
type SimSwapRequest struct {
	Meta           `bson:",inline"`
	PhoneNumber    string              `bson:"phone_number" json:"phone_number"`
	ProviderID     *primitive.ObjectID `bson:"provider_id,omitempty" json:"provider_id,omitempty"`
	MaxAgeHours    int                 `bson:"max_age_hours,omitempty" json:"max_age_hours,omitempty"`
	SwapDetected   bool                `bson:"swap_detected" json:"swap_detected"`
	FraudScore     int                 `bson:"fraud_score" json:"fraud_score"` // 0-100
	LastSwapDate   *time.Time          `bson:"last_swap_date,omitempty" json:"last_swap_date,omitempty"`
	DaysSinceSwap  *int                `bson:"days_since_swap,omitempty" json:"days_since_swap,omitempty"`
	ResponseTimeMS *int                `bson:"response_time_ms,omitempty" json:"response_time_ms,omitempty"`
}

// NumberVerificationRequest checks that a device is using the claimed number.
type NumberVerificationRequest struct {
	Meta               `bson:",inline"`
	PhoneNumber        string   `bson:"phone_number" json:"phone_number"`
	VerificationMethod string   `bson:"verification_method,omitempty" json:"verification_method,omitempty"`
	IsVerified         bool     `bson:"is_verified" json:"is_verified"`
	MatchScore         *float64 `bson:"match_score,omitempty" json:"match_score,omitempty"`
	NetworkName        string   `bson:"network_name,omitempty" json:"network_name,omitempty"`
	NetworkType        string   `bson:"network_type,omitempty" json:"network_type,omitempty"`
	ResponseTimeMS     *int     `bson:"response_time_ms,omitempty" json:"response_time_ms,omitempty"`
}

// DeviceLocationRequest retrieves or verifies a device position, optionally
// against a geofence.
type DeviceLocationRequest struct {
	Meta           `bson:",inline"`
	PhoneNumber    string              `bson:"phone_number" json:"phone_number"`
	RequestType    string              `bson:"request_type,omitempty" json:"request_type,omitempty"` // retrieve | verify
	GeofenceID     *primitive.ObjectID `bson:"geofence_id,omitempty" json:"geofence_id,omitempty"`
	Latitude       *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude      *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	AccuracyMeters *float64            `bson:"accuracy_meters,omitempty" json:"accuracy_meters,omitempty"`
	IsWithinArea   *bool               `bson:"is_within_area,omitempty" json:"is_within_area,omitempty"`
	Status         string              `bson:"status" json:"status"` // pending | completed | failed
	ResponseTimeMS *int                `bson:"response_time_ms,omitempty" json:"response_time_ms,omitempty"`
}

// Geofence is a named circular area.
type Geofence struct {
	Meta           `bson:",inline"`
	GeofenceName   string   `bson:"geofence_name" json:"geofence_name"`
	GeofenceNameCI string   `bson:"geofence_name_ci" json:"-"`
	Description    string   `bson:"description,omitempty" json:"description,omitempty"`
	CenterLat      float64  `bson:"center_lat" json:"center_lat"`
	CenterLon      float64  `bson:"center_lon" json:"center_lon"`
	RadiusMeters   float64  `bson:"radius_meters" json:"radius_meters"`
	ShapeType      string   `bson:"shape_type" json:"shape_type"` // circle
	Tags           []string `bson:"tags,omitempty" json:"tags,omitempty"`
	IsActive       bool     `bson:"is_active" json:"is_active"`
	Status         string   `bson:"status" json:"status"` // active | inactive, mirrors IsActive
}

// QodSession is a Quality-on-Demand session request.
type QodSession struct {
	Meta                   `bson:",inline"`
	SessionID              string   `bson:"session_id" json:"session_id"`
	PhoneNumber            string   `bson:"phone_number" json:"phone_number"`
	QosProfile             string   `bson:"qos_profile" json:"qos_profile"`
	TargetLatencyMS        *float64 `bson:"target_latency_ms,omitempty" json:"target_latency_ms,omitempty"`
	ActualLatencyMS        *float64 `bson:"actual_latency_ms,omitempty" json:"actual_latency_ms,omitempty"`
	TargetBandwidthMbps    *float64 `bson:"target_bandwidth_mbps,omitempty" json:"target_bandwidth_mbps,omitempty"`
	ActualBandwidthMbps    *float64 `bson:"actual_bandwidth_mbps,omitempty" json:"actual_bandwidth_mbps,omitempty"`
	PacketLossPercent      *float64 `bson:"packet_loss_percent,omitempty" json:"packet_loss_percent,omitempty"`
	JitterMS               *float64 `bson:"jitter_ms,omitempty" json:"jitter_ms,omitempty"`
	SessionDurationMinutes int      `bson:"session_duration_minutes" json:"session_duration_minutes"`
	Status                 string   `bson:"status" json:"status"` // active | requested | terminated | failed
}

// TelcoAPIUsage is one logged API call, used for the daily console totals.
type TelcoAPIUsage struct {
	Meta           `bson:",inline"`
	APIName        string              `bson:"api_name" json:"api_name"`
	ProviderID     *primitive.ObjectID `bson:"provider_id,omitempty" json:"provider_id,omitempty"`
	PhoneNumber    string              `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	Success        bool                `bson:"success" json:"success"`
	ResponseTimeMS int                 `bson:"response_time_ms" json:"response_time_ms"`
}

// TrackedDevice is a device enrolled for continuous location tracking.
type TrackedDevice struct {
	Meta                   `bson:",inline"`
	DeviceName             string   `bson:"device_name" json:"device_name"`
	PhoneNumber            string   `bson:"phone_number" json:"phone_number"`
	DeviceType             string   `bson:"device_type,omitempty" json:"device_type,omitempty"`
	PrecisionLevel         string   `bson:"precision_level,omitempty" json:"precision_level,omitempty"`
	UpdateFrequencyMinutes int      `bson:"update_frequency_minutes" json:"update_frequency_minutes"`
	TrackingEnabled        bool     `bson:"tracking_enabled" json:"tracking_enabled"`
	AlertOnGeofenceExit    bool     `bson:"alert_on_geofence_exit" json:"alert_on_geofence_exit"`
	AlertOnLowAccuracy     bool     `bson:"alert_on_low_accuracy" json:"alert_on_low_accuracy"`
	Tags                   []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Status                 string   `bson:"status" json:"status"` // active | inactive
}
