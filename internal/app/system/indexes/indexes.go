// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's set is reconciled
idempotently. Problems are aggregated so every failure is visible and
startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, spec := range Specs() {
		if err := ensureIndexSet(ctx, db.Collection(spec.Collection), spec.Models, logger); err != nil {
			problems = append(problems, spec.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// CollectionIndexes is the desired index set for one collection.
type CollectionIndexes struct {
	Collection string
	Models     []mongo.IndexModel
}

// Specs lists every index the stores rely on.
func Specs() []CollectionIndexes {
	return []CollectionIndexes{
		{"users", []mongo.IndexModel{
			// One profile per principal; also backs the upsert race.
			{Keys: bson.D{{Key: "principal_id", Value: 1}},
				Options: options.Index().SetName("uniq_users_principal").SetUnique(true)},
		}},
		{"groups", []mongo.IndexModel{
			// ListByMember: member_ids multikey + newest first
			{Keys: bson.D{{Key: "member_ids", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_groups_member_created")},
			{Keys: bson.D{{Key: "owner_id", Value: 1}},
				Options: options.Index().SetName("idx_groups_owner")},
		}},
		{"tasks", []mongo.IndexModel{
			// ListByAssignee, ProgressFor
			{Keys: bson.D{{Key: "assignee_ids", Value: 1}, {Key: "due_at", Value: 1}},
				Options: options.Index().SetName("idx_tasks_assignee_due")},
			// ListOverdue / ListUpcoming
			{Keys: bson.D{{Key: "assignee_ids", Value: 1}, {Key: "status", Value: 1}, {Key: "due_at", Value: 1}},
				Options: options.Index().SetName("idx_tasks_assignee_status_due")},
			{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "due_at", Value: 1}},
				Options: options.Index().SetName("idx_tasks_group_due")},
			{Keys: bson.D{{Key: "creator_id", Value: 1}},
				Options: options.Index().SetName("idx_tasks_creator")},
		}},
		{"resources", []mongo.IndexModel{
			{Keys: bson.D{{Key: "uploader_id", Value: 1}, {Key: "uploaded_at", Value: -1}},
				Options: options.Index().SetName("idx_resources_uploader_uploaded")},
			{Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "uploaded_at", Value: -1}},
				Options: options.Index().SetName("idx_resources_group_uploaded")},
			{Keys: bson.D{{Key: "subject_ci", Value: 1}, {Key: "uploaded_at", Value: -1}},
				Options: options.Index().SetName("idx_resources_subjectci_uploaded")},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection                                                    */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	bySig := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			return nil, err
		}
		bySig[keySig(idx.Key)] = idx
	}
	return bySig, cur.Err()
}

// ensureIndexSet creates missing indexes and replaces ones whose name or
// uniqueness differs from the desired model. An index with the same keys,
// name and uniqueness is left alone.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to compare.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := m.Options.Unique != nil && *m.Options.Unique
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		if ex, ok := existing[sig]; ok {
			if ex.Name == name && ex.Unique == unique {
				log.Debug("index up to date")
				continue
			}
			log.Info("replacing index", zap.String("existing", ex.Name))
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && wafflemongo.IsDup(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present)", name))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		log.Info("index created", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
