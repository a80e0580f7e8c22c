// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	errNoCreator   = errors.New("task must have creator_id")
	errNoDue       = errors.New("task must have due_at")
	errBadPriority = errors.New(`priority must be "low"|"medium"|"high"`)
	errBadStatus   = errors.New(`status must be "pending"|"completed"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

var byDueAsc = bson.D{{Key: "due_at", Value: 1}, {Key: "_id", Value: 1}}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Create inserts a new task, filling defaults: subject "General", priority
// medium, status pending, and assignees [creator] when none are given.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.CreatorID.IsZero() {
		return models.Task{}, errNoCreator
	}
	if t.DueAt.IsZero() {
		return models.Task{}, errNoDue
	}
	t.Subject = normalize.Subject(t.Subject)
	if t.Subject == "" {
		t.Subject = models.DefaultTaskSubject
	}
	t.SubjectCI = normalize.SubjectKey(t.Subject)
	t.Priority = normalize.Enum(t.Priority)
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if !models.IsValidPriority(t.Priority) {
		return models.Task{}, errBadPriority
	}
	t.Status = models.TaskPending
	t.AssigneeIDs = models.UniquePrincipals(t.AssigneeIDs)
	if len(t.AssigneeIDs) == 0 {
		t.AssigneeIDs = []models.PrincipalID{t.CreatorID}
	}

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.DueAt = t.DueAt.UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Find returns tasks matching filter. Pass options to sort or limit.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByAssignee returns tasks assigned to pid, earliest due first.
func (s *Store) ListByAssignee(ctx context.Context, pid models.PrincipalID) ([]models.Task, error) {
	return s.Find(ctx, bson.M{"assignee_ids": pid}, options.Find().SetSort(byDueAsc))
}

// ListByGroup returns tasks scoped to a group, earliest due first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Task, error) {
	return s.Find(ctx, bson.M{"group_id": groupID}, options.Find().SetSort(byDueAsc))
}

// ListOverdue returns pid's tasks that are still pending and were due before now.
func (s *Store) ListOverdue(ctx context.Context, pid models.PrincipalID, now time.Time) ([]models.Task, error) {
	return s.Find(ctx, bson.M{
		"assignee_ids": pid,
		"status":       bson.M{"$ne": models.TaskCompleted},
		"due_at":       bson.M{"$lt": now.UTC()},
	}, options.Find().SetSort(byDueAsc))
}

// ListUpcoming returns up to limit of pid's pending tasks due at or after now.
// A limit <= 0 returns all of them.
func (s *Store) ListUpcoming(ctx context.Context, pid models.PrincipalID, now time.Time, limit int64) ([]models.Task, error) {
	opts := options.Find().SetSort(byDueAsc)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.Find(ctx, bson.M{
		"assignee_ids": pid,
		"status":       bson.M{"$ne": models.TaskCompleted},
		"due_at":       bson.M{"$gte": now.UTC()},
	}, opts)
}

// Patch lists the task fields a full update may change. Nil means "leave unchanged".
type Patch struct {
	Title       *string
	Description *string
	Subject     *string
	DueAt       *time.Time
	Priority    *string
	Status      *string
}

// Update applies patch and returns the updated task.
// Returns mongo.ErrNoDocuments if the task does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Task, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = normalize.Name(*p.Title)
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Subject != nil {
		subj := normalize.Subject(*p.Subject)
		if subj == "" {
			subj = models.DefaultTaskSubject
		}
		set["subject"] = subj
		set["subject_ci"] = normalize.SubjectKey(subj)
	}
	if p.DueAt != nil {
		set["due_at"] = p.DueAt.UTC()
	}
	if p.Priority != nil {
		pr := normalize.Enum(*p.Priority)
		if !models.IsValidPriority(pr) {
			return models.Task{}, errBadPriority
		}
		set["priority"] = pr
	}
	if p.Status != nil {
		st := normalize.Enum(*p.Status)
		if !models.IsValidTaskStatus(st) {
			return models.Task{}, errBadStatus
		}
		set["status"] = st
	}
	return s.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// Toggle flips status between pending and completed in a single pipeline
// update, so two concurrent toggles always net out.
// Returns mongo.ErrNoDocuments if the task does not exist.
func (s *Store) Toggle(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"status": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.TaskCompleted}},
				models.TaskPending,
				models.TaskCompleted,
			}},
			"updated_at": "$$NOW",
		}}},
	}
	return s.findAndUpdate(ctx, bson.M{"_id": id}, pipeline)
}

// AddAssignee adds pid to the assignee set (idempotent).
func (s *Store) AddAssignee(ctx context.Context, id primitive.ObjectID, pid models.PrincipalID) (models.Task, error) {
	return s.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"assignee_ids": pid},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

// RemoveAssignee pulls pid from the assignee set (idempotent).
func (s *Store) RemoveAssignee(ctx context.Context, id primitive.ObjectID, pid models.PrincipalID) (models.Task, error) {
	return s.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"assignee_ids": pid},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

// Delete removes a task by ID. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ProgressFor summarizes completion of pid's assigned tasks, overall and per subject.
func (s *Store) ProgressFor(ctx context.Context, pid models.PrincipalID) (models.TaskProgress, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"assignee_ids": pid}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$subject",
			"total": bson.M{"$sum": 1},
			"completed": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", models.TaskCompleted}}, 1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.TaskProgress{}, err
	}
	defer cur.Close(ctx)

	rows := []models.SubjectProgress{}
	if err := cur.All(ctx, &rows); err != nil {
		return models.TaskProgress{}, err
	}

	p := models.TaskProgress{BySubject: rows}
	for i := range p.BySubject {
		r := &p.BySubject[i]
		r.Percentage = percent(r.Completed, r.Total)
		p.Total += r.Total
		p.Completed += r.Completed
	}
	p.Pending = p.Total - p.Completed
	p.Percentage = percent(p.Completed, p.Total)
	return p, nil
}

func percent(n, total int64) int {
	if total == 0 {
		return 0
	}
	return int((n*100 + total/2) / total)
}

func (s *Store) findAndUpdate(ctx context.Context, filter bson.M, update any) (models.Task, error) {
	var t models.Task
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}
