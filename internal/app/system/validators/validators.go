// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"github.com/dalemusser/opsconsole/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates every console collection (if missing) and tries to attach
// JSON-Schema validators. On servers that don't support collMod/validators
// (e.g. some DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	schemas := Schemas()
	for _, table := range records.Tables {
		ensure(table, schemas[table])
	}
	ensure("operators", schemas["operators"])
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Schemas returns the $jsonSchema validator per collection. Collections
// without an entry are created without a validator.
func Schemas() map[string]bson.M {
	active := enum(models.StatusActive, models.StatusInactive)
	agentStatus := enum(models.AgentStatuses...)

	return map[string]bson.M{
		records.TableTelcoProviders: schema([]string{"name", "status"}, bson.M{
			"name":   nonEmpty(),
			"status": active,
		}),
		records.TableSimSwapRequests: schema([]string{"phone_number"}, bson.M{
			"phone_number": nonEmpty(),
			"fraud_score":  bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0, "maximum": 100},
		}),
		records.TableNumberVerifications: schema([]string{"phone_number"}, bson.M{
			"phone_number": nonEmpty(),
		}),
		records.TableDeviceLocations: schema([]string{"phone_number", "status"}, bson.M{
			"phone_number": nonEmpty(),
			"status":       enum(models.LocationPending, models.LocationCompleted, models.LocationFailed),
		}),
		records.TableGeofences: schema([]string{"geofence_name", "geofence_name_ci", "radius_meters"}, bson.M{
			"geofence_name":    nonEmpty(),
			"geofence_name_ci": nonEmpty(),
			"radius_meters":    bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0},
			"status":           active,
		}),
		records.TableQodSessions: schema([]string{"session_id", "phone_number", "status"}, bson.M{
			"session_id":   nonEmpty(),
			"phone_number": nonEmpty(),
			"status":       enum(models.QodActive, models.QodRequested, models.QodTerminated, models.QodFailed),
		}),
		records.TableTelcoUsage: schema([]string{"api_name"}, bson.M{
			"api_name": nonEmpty(),
		}),
		records.TableTrackedDevices: schema([]string{"device_name", "phone_number"}, bson.M{
			"device_name":  nonEmpty(),
			"phone_number": nonEmpty(),
			"status":       active,
		}),
		records.TableVoiceAgents: schema([]string{"name", "name_ci", "status"}, bson.M{
			"name":    nonEmpty(),
			"name_ci": nonEmpty(),
			"status":  agentStatus,
		}),
		records.TableVoiceAgentIntents:     agentChild("name"),
		records.TableVoiceAgentTools:       agentChild("name"),
		records.TableVoiceAgentConfigs:     agentChild("config_name"),
		records.TableVoiceAgentCalls:       agentChild(),
		records.TableVoiceAgentTranscripts: agentChild(),
		records.TableVoiceAgentAnalytics:   agentChild(),
		records.TableLiveKitAgents: schema([]string{"name", "status"}, bson.M{
			"name":   nonEmpty(),
			"status": agentStatus,
		}),
		records.TableLiveKitSessions: schema([]string{"room_name", "status"}, bson.M{
			"room_name": nonEmpty(),
			"status":    enum(models.SessionActive, models.SessionEnded, models.SessionFailed),
		}),
		records.TableLiveKitJobs: schema([]string{"job_type", "status"}, bson.M{
			"job_type": nonEmpty(),
			"status":   enum(models.JobPending, models.JobRunning, models.JobCompleted, models.JobFailed),
		}),
		records.TableLiveKitWorkers: schema([]string{"worker_name", "status"}, bson.M{
			"worker_name": nonEmpty(),
			"status":      enum(models.WorkerOnline, models.WorkerOffline, models.WorkerDraining),
		}),
		records.TableLiveKitMCPTools: schema([]string{"name", "server_url"}, bson.M{
			"name":       nonEmpty(),
			"server_url": nonEmpty(),
		}),
		records.TableLiveKitTestCases: schema([]string{"name", "input"}, bson.M{
			"name":        nonEmpty(),
			"last_result": enum(models.TestPending, models.TestPass, models.TestFail),
		}),
		"operators": schema([]string{"email", "email_ci", "password_hash", "status"}, bson.M{
			"email":         nonEmpty(),
			"email_ci":      nonEmpty(),
			"password_hash": nonEmpty(),
			"status":        enum("active", "disabled"),
		}),
	}
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 59 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 115 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema builders ---------------------- */

func schema(required []string, props bson.M) bson.M {
	req := bson.A{}
	for _, r := range required {
		req = append(req, r)
	}
	props["created_at"] = bson.M{"bsonType": "date"}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   req,
			"properties": props,
		},
	}
}

func agentChild(required ...string) bson.M {
	props := bson.M{"agent_id": bson.M{"bsonType": "objectId"}}
	for _, r := range required {
		props[r] = nonEmpty()
	}
	return schema(append([]string{"agent_id"}, required...), props)
}

func nonEmpty() bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
}

func enum(values ...string) bson.M {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}
