package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a student profile for pid.
func (f *Fixtures) CreateUser(ctx context.Context, pid models.PrincipalID, name string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:          primitive.NewObjectID(),
		PrincipalID: pid,
		DisplayName: name,
		Email:       string(pid) + "@test.com",
		Role:        models.RoleStudent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateGroup inserts a group owned by owner with the given extra members.
func (f *Fixtures) CreateGroup(ctx context.Context, name, subject string, owner models.PrincipalID, members ...models.PrincipalID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Subject:   subject,
		SubjectCI: normalize.SubjectKey(subject),
		OwnerID:   owner,
		MemberIDs: models.UniquePrincipals(append([]models.PrincipalID{owner}, members...)),
		IsPublic:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// TaskOpts customizes CreateTask.
type TaskOpts struct {
	Subject   string
	Status    string
	Priority  string
	GroupID   *primitive.ObjectID
	Assignees []models.PrincipalID
}

// CreateTask inserts a task created by creator and due at due.
func (f *Fixtures) CreateTask(ctx context.Context, title string, creator models.PrincipalID, due time.Time, opts TaskOpts) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	t := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Subject:     opts.Subject,
		DueAt:       due.UTC(),
		Priority:    opts.Priority,
		Status:      opts.Status,
		GroupID:     opts.GroupID,
		AssigneeIDs: opts.Assignees,
		CreatorID:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Subject == "" {
		t.Subject = models.DefaultTaskSubject
	}
	t.SubjectCI = normalize.SubjectKey(t.Subject)
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Status == "" {
		t.Status = models.TaskPending
	}
	if len(t.AssigneeIDs) == 0 {
		t.AssigneeIDs = []models.PrincipalID{creator}
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, t); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return t
}

// CreateResource inserts a resource record uploaded by uploader.
func (f *Fixtures) CreateResource(ctx context.Context, fileName, subject string, uploader models.PrincipalID, groupID *primitive.ObjectID) models.Resource {
	f.t.Helper()

	r := models.Resource{
		ID:         primitive.NewObjectID(),
		FileName:   fileName,
		FileURL:    "https://files.test/" + fileName,
		MimeClass:  models.MimeClassFor(fileName),
		Subject:    subject,
		SubjectCI:  normalize.SubjectKey(subject),
		GroupID:    groupID,
		UploaderID: uploader,
		UploadedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("resources").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test resource: %v", err)
	}
	return r
}
