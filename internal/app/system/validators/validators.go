// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/educollab/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection the stores write to, in the order
// EnsureAll visits them.
var Collections = []string{"users", "groups", "tasks", "resources"}

// EnsureAll creates the collections when missing and attaches a JSON-Schema
// validator to each. Deployments that reject collMod (some DocumentDB
// versions) are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema, logger); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("groups", groupsSchema())
	ensure("tasks", tasksSchema())
	ensure("resources", resourcesSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) (created bool, err error) {
	names, listErr := db.ListCollectionNames(ctx, bson.M{"name": name})
	if listErr == nil && len(names) > 0 {
		return false, nil
	}
	// Listing failed or found nothing: create and tolerate a concurrent creator.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	logger.Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M, logger *zap.Logger) error {
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
	logger.Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErr(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErr(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErr(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErr(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"principal_id", "role", "created_at"},
			"properties": bson.M{
				"principal_id": nonBlank,
				"display_name": bson.M{"bsonType": "string"},
				"email":        bson.M{"bsonType": "string"},
				"role":         bson.M{"enum": bson.A{models.RoleStudent, models.RoleMentor}},
				"avatar_url":   bson.M{"bsonType": "string"},
				"created_at":   bson.M{"bsonType": "date"},
				"updated_at":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func groupsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "subject", "subject_ci", "owner_id", "member_ids", "is_public", "created_at"},
			"properties": bson.M{
				"name":        nonBlank,
				"subject":     nonBlank,
				"subject_ci":  nonBlank,
				"description": bson.M{"bsonType": "string"},
				"owner_id":    nonBlank,
				"member_ids":  bson.M{"bsonType": "array", "items": nonBlank},
				"is_public":   bson.M{"bsonType": "bool"},
				"created_at":  bson.M{"bsonType": "date"},
				"updated_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func tasksSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "subject", "due_at", "priority", "status", "assignee_ids", "creator_id"},
			"properties": bson.M{
				"title":        nonBlank,
				"description":  bson.M{"bsonType": "string"},
				"subject":      nonBlank,
				"subject_ci":   bson.M{"bsonType": "string"},
				"due_at":       bson.M{"bsonType": "date"},
				"priority":     bson.M{"enum": bson.A{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}},
				"status":       bson.M{"enum": bson.A{models.TaskPending, models.TaskCompleted}},
				"group_id":     bson.M{"bsonType": "objectId"},
				"assignee_ids": bson.M{"bsonType": "array", "items": nonBlank},
				"creator_id":   nonBlank,
			},
		},
	}
}

func resourcesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"file_name", "file_url", "mime_class", "uploader_id", "uploaded_at"},
			"properties": bson.M{
				"file_name":   nonBlank,
				"file_url":    nonBlank,
				"file_path":   bson.M{"bsonType": "string"},
				"file_size":   bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
				"mime_class":  nonBlank,
				"subject":     bson.M{"bsonType": "string"},
				"group_id":    bson.M{"bsonType": "objectId"},
				"uploader_id": nonBlank,
				"uploaded_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
