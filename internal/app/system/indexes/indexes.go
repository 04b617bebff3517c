// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/opsconsole/internal/app/store/records"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Set is the desired index list for one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

/*
EnsureAll is called at startup. Every collection is reconciled independently
and idempotently; problems are aggregated so startup can fail fast with the
full list.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, set := range Plan() {
		if err := ensureIndexSet(ctx, db.Collection(set.Collection), set.Models); err != nil {
			problems = append(problems, set.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// agentChildren hold agent_id references to voice_agents.
var agentChildren = map[string]bool{
	records.TableVoiceAgentCalls:       true,
	records.TableVoiceAgentTranscripts: true,
	records.TableVoiceAgentIntents:     true,
	records.TableVoiceAgentTools:       true,
	records.TableVoiceAgentConfigs:     true,
	records.TableVoiceAgentAnalytics:   true,
}

// phoneTables are telco request tables looked up by phone number.
var phoneTables = map[string]bool{
	records.TableSimSwapRequests:     true,
	records.TableNumberVerifications: true,
	records.TableDeviceLocations:     true,
	records.TableQodSessions:         true,
	records.TableTrackedDevices:      true,
}

// Plan returns the desired index sets for every collection the console owns.
func Plan() []Set {
	sets := make([]Set, 0, len(records.Tables)+2)
	for _, table := range records.Tables {
		ms := []mongo.IndexModel{
			// Every list is newest first.
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_" + table + "_created"),
			},
		}
		if agentChildren[table] {
			ms = append(ms, mongo.IndexModel{
				Keys:    bson.D{{Key: "agent_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_" + table + "_agent_created"),
			})
		}
		if phoneTables[table] {
			ms = append(ms, mongo.IndexModel{
				Keys:    bson.D{{Key: "phone_number", Value: 1}},
				Options: options.Index().SetName("idx_" + table + "_phone"),
			})
		}
		switch table {
		case records.TableGeofences:
			ms = append(ms, mongo.IndexModel{
				Keys:    bson.D{{Key: "geofence_name_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_geofences_nameci"),
			})
		case records.TableVoiceAgents:
			ms = append(ms, mongo.IndexModel{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_voice_agents_nameci"),
			})
		case records.TableTelcoUsage:
			ms = append(ms, mongo.IndexModel{
				Keys:    bson.D{{Key: "api_name", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_telco_api_usage_api_created"),
			})
		}
		sets = append(sets, Set{Collection: table, Models: ms})
	}

	sets = append(sets,
		Set{Collection: "operators", Models: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_operators_emailci"),
			},
		}},
		Set{Collection: "audit_events", Models: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_ts"),
			},
			{
				Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_actor_ts"),
			},
			{
				Keys:    bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_cat_type_ts"),
			},
		}},
	)
	return sets
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection's desired indexes against what exists             */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(unique) == isUnique(ex.Unique) && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// Same keys, different name or uniqueness: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if isDuplicateKeyErr(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
