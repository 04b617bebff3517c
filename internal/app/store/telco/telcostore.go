// internal/app/store/telco/telcostore.go
package telcostore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/app/system/derive"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrGeofenceUnavailable is returned when a geofence is missing or inactive.
var ErrGeofenceUnavailable = errors.New("geofence not found or inactive")

// Store groups the telco network-intelligence tables.
type Store struct {
	Providers           records.Repository[models.TelcoAPIProvider]
	SimSwaps            records.Repository[models.SimSwapRequest]
	NumberVerifications records.Repository[models.NumberVerificationRequest]
	DeviceLocations     records.Repository[models.DeviceLocationRequest]
	Geofences           records.Repository[models.Geofence]
	QodSessions         records.Repository[models.QodSession]
	Usage               records.Repository[models.TelcoAPIUsage]
	TrackedDevices      records.Repository[models.TrackedDevice]
}

// New wires every telco table to db. obs (may be nil) sees each mutation.
func New(db *mongo.Database, obs records.Observer) *Store {
	return &Store{
		Providers:           records.Open[models.TelcoAPIProvider](db, records.TableTelcoProviders, obs),
		SimSwaps:            records.Open[models.SimSwapRequest](db, records.TableSimSwapRequests, obs),
		NumberVerifications: records.Open[models.NumberVerificationRequest](db, records.TableNumberVerifications, obs),
		DeviceLocations:     records.Open[models.DeviceLocationRequest](db, records.TableDeviceLocations, obs),
		Geofences:           records.Open[models.Geofence](db, records.TableGeofences, obs),
		QodSessions:         records.Open[models.QodSession](db, records.TableQodSessions, obs),
		Usage:               records.Open[models.TelcoAPIUsage](db, records.TableTelcoUsage, obs),
		TrackedDevices:      records.Open[models.TrackedDevice](db, records.TableTrackedDevices, obs),
	}
}

// UsageSince returns every usage row logged at or after since, newest first.
// Unlike Select it is not capped at records.MaxLimit.
func (s *Store) UsageSince(ctx context.Context, since time.Time) ([]models.TelcoAPIUsage, error) {
	out := make([]models.TelcoAPIUsage, 0)
	err := s.Usage.Each(ctx, bson.M{"created_at": bson.M{"$gte": since.UTC()}}, func(u models.TelcoAPIUsage) error {
		out = append(out, u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UsageCounts returns how many API calls were logged at or after since,
// and how many of those succeeded.
func (s *Store) UsageCounts(ctx context.Context, since time.Time) (total, successful int64, err error) {
	window := bson.M{"$gte": since.UTC()}
	if total, err = s.Usage.Count(ctx, bson.M{"created_at": window}); err != nil {
		return 0, 0, err
	}
	if successful, err = s.Usage.Count(ctx, bson.M{"created_at": window, "success": true}); err != nil {
		return 0, 0, err
	}
	return total, successful, nil
}

// Figures are whole-table numbers for the overview summary.
type Figures struct {
	FraudScores       derive.Running
	QodLatency        derive.Running
	ActiveQodSessions int64
	ActiveGeofences   int64
	TrackedDevices    int64
}

// Figures walks the SIM-swap and QoD tables for their means and counts the
// active rows. Nothing is capped, so the figures agree with the tables.
func (s *Store) Figures(ctx context.Context) (Figures, error) {
	var f Figures
	err := s.SimSwaps.Each(ctx, nil, func(r models.SimSwapRequest) error {
		f.FraudScores.Add(float64(r.FraudScore))
		return nil
	})
	if err != nil {
		return Figures{}, err
	}
	err = s.QodSessions.Each(ctx, nil, func(q models.QodSession) error {
		f.QodLatency.AddPtr(q.ActualLatencyMS)
		return nil
	})
	if err != nil {
		return Figures{}, err
	}
	if f.ActiveQodSessions, err = s.QodSessions.Count(ctx, bson.M{"status": models.QodActive}); err != nil {
		return Figures{}, err
	}
	if f.ActiveGeofences, err = s.Geofences.Count(ctx, bson.M{"is_active": true}); err != nil {
		return Figures{}, err
	}
	if f.TrackedDevices, err = s.TrackedDevices.Count(ctx, bson.M{"tracking_enabled": true}); err != nil {
		return Figures{}, err
	}
	return f, nil
}

// ActiveGeofence loads a geofence and checks that it is active.
func (s *Store) ActiveGeofence(ctx context.Context, id primitive.ObjectID) (models.Geofence, error) {
	g, err := s.Geofences.Get(ctx, id)
	if errors.Is(err, records.ErrNotFound) {
		return models.Geofence{}, ErrGeofenceUnavailable
	}
	if err != nil {
		return models.Geofence{}, err
	}
	if !g.IsActive {
		return models.Geofence{}, ErrGeofenceUnavailable
	}
	return g, nil
}

// StartOfDay returns midnight UTC of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
