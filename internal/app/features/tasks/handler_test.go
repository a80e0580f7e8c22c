package tasks_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/educollab/internal/app/features/tasks"
	"github.com/dalemusser/educollab/internal/app/policy/taskpolicy"
	"github.com/dalemusser/educollab/internal/app/system/apierrors"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/dalemusser/educollab/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newRouter(t *testing.T, rule taskpolicy.MutationRule) (http.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := tasks.NewHandler(db, taskpolicy.New(rule), apierrors.NewErrorLogger(logger), logger)
	h.SetClock(func() time.Time { return fixedNow })
	r := chi.NewRouter()
	r.Mount("/tasks", tasks.Routes(h, testutil.AuthService()))
	return r, db
}

func do(t *testing.T, router http.Handler, method, target string, body any, uid string) *testutil.ResponseRecorder {
	t.Helper()
	return testutil.Serve(router, testutil.Bearer(testutil.NewJSONRequest(t, method, target, body), uid))
}

func TestCreate_Defaults(t *testing.T) {
	router, _ := newRouter(t, taskpolicy.AnyPrincipal)

	rec := do(t, router, "POST", "/tasks", map[string]any{
		"title":   "Read chapter 4",
		"dueDate": "2026-03-20",
	}, "uid-a")
	rec.AssertStatus(t, http.StatusCreated)

	var task models.Task
	rec.DecodeJSON(t, &task)
	if task.Subject != "General" || task.Priority != "medium" || task.Status != "pending" {
		t.Errorf("defaults: got subject=%q priority=%q status=%q", task.Subject, task.Priority, task.Status)
	}
	if task.CreatorID != "uid-a" {
		t.Errorf("CreatorID: got %q", task.CreatorID)
	}
	if len(task.AssigneeIDs) != 1 || task.AssigneeIDs[0] != "uid-a" {
		t.Errorf("AssigneeIDs: got %v, want [uid-a]", task.AssigneeIDs)
	}
	if want := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC); !task.DueAt.Equal(want) {
		t.Errorf("DueAt: got %v, want %v", task.DueAt, want)
	}
}

func TestCreate_Validation(t *testing.T) {
	router, _ := newRouter(t, taskpolicy.AnyPrincipal)

	tests := []struct {
		name      string
		body      map[string]any
		wantField string
	}{
		{"missing title", map[string]any{"dueDate": "2026-03-20"}, "title"},
		{"missing due date", map[string]any{"title": "x"}, "dueDate"},
		{"bad due date", map[string]any{"title": "x", "dueDate": "next week"}, "dueDate"},
		{"bad priority", map[string]any{"title": "x", "dueDate": "2026-03-20", "priority": "urgent"}, "priority"},
		{"bad group id", map[string]any{"title": "x", "dueDate": "2026-03-20", "groupId": "nope"}, "groupId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, "POST", "/tasks", tt.body, "uid-a")
			rec.AssertStatus(t, http.StatusBadRequest)
			if _, field := rec.ErrorBody(t); field != tt.wantField {
				t.Errorf("field: got %q, want %q", field, tt.wantField)
			}
		})
	}
}

func TestPastDueTaskIsListedOverdue(t *testing.T) {
	router, _ := newRouter(t, taskpolicy.AnyPrincipal)

	rec := do(t, router, "POST", "/tasks", map[string]any{
		"title":   "Late essay",
		"dueDate": "2026-03-01",
	}, "uid-a")
	rec.AssertStatus(t, http.StatusCreated)
	var created models.Task
	rec.DecodeJSON(t, &created)

	do(t, router, "POST", "/tasks", map[string]any{
		"title":   "Future quiz",
		"dueDate": "2026-03-15T09:00:00Z",
	}, "uid-a").AssertStatus(t, http.StatusCreated)

	rec = do(t, router, "GET", "/tasks/user/uid-a/overdue", nil, "uid-a")
	rec.AssertStatus(t, http.StatusOK)
	var overdue []models.Task
	rec.DecodeJSON(t, &overdue)
	if len(overdue) != 1 || overdue[0].ID != created.ID {
		t.Fatalf("overdue: got %v, want only the late essay", overdue)
	}

	rec = do(t, router, "GET", "/tasks/user/uid-a/upcoming?limit=10", nil, "uid-a")
	rec.AssertStatus(t, http.StatusOK)
	var upcoming []models.Task
	rec.DecodeJSON(t, &upcoming)
	if len(upcoming) != 1 || upcoming[0].Title != "Future quiz" {
		t.Errorf("upcoming: got %v", upcoming)
	}

	do(t, router, "GET", "/tasks/user/uid-a/upcoming?limit=0", nil, "uid-a").AssertStatus(t, http.StatusBadRequest)
}

func TestToggleTwiceRestoresStatus(t *testing.T) {
	router, db := newRouter(t, taskpolicy.AnyPrincipal)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Flip", "uid-a", fixedNow, testutil.TaskOpts{})
	path := "/tasks/" + task.ID.Hex() + "/toggle"

	var got models.Task
	rec := do(t, router, "PATCH", path, nil, "uid-b")
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if got.Status != models.TaskCompleted {
		t.Errorf("after one toggle: got %q", got.Status)
	}

	rec = do(t, router, "PATCH", path, nil, "uid-a")
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if got.Status != task.Status {
		t.Errorf("after two toggles: got %q, want %q", got.Status, task.Status)
	}
}

func TestMutationRule_CreatorOrAssignee(t *testing.T) {
	router, db := newRouter(t, taskpolicy.CreatorOrAssignee)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Mine", "uid-a", fixedNow, testutil.TaskOpts{
		Assignees: []models.PrincipalID{"uid-a", "uid-b"},
	})
	path := "/tasks/" + task.ID.Hex()

	do(t, router, "PATCH", path+"/toggle", nil, "uid-c").AssertStatus(t, http.StatusForbidden)
	do(t, router, "PUT", path, map[string]any{"title": "x"}, "uid-c").AssertStatus(t, http.StatusForbidden)
	do(t, router, "PATCH", path+"/toggle", nil, "uid-b").AssertStatus(t, http.StatusOK)
}

func TestUpdate(t *testing.T) {
	router, db := newRouter(t, taskpolicy.AnyPrincipal)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Draft", "uid-a", fixedNow, testutil.TaskOpts{})
	path := "/tasks/" + task.ID.Hex()

	rec := do(t, router, "PUT", path, map[string]any{
		"title":    "Final",
		"priority": "High",
		"status":   "completed",
		"dueDate":  "",
	}, "uid-b")
	rec.AssertStatus(t, http.StatusOK)
	var got models.Task
	rec.DecodeJSON(t, &got)
	if got.Title != "Final" || got.Priority != models.PriorityHigh || got.Status != models.TaskCompleted {
		t.Errorf("got %+v", got)
	}
	if !got.DueAt.Equal(task.DueAt) {
		t.Errorf("blank dueDate must keep the stored value: got %v", got.DueAt)
	}

	rec = do(t, router, "PUT", path, map[string]any{"status": "done"}, "uid-a")
	rec.AssertStatus(t, http.StatusBadRequest)
	if _, field := rec.ErrorBody(t); field != "status" {
		t.Errorf("field: got %q, want status", field)
	}
}

func TestAssignees(t *testing.T) {
	router, db := newRouter(t, taskpolicy.AnyPrincipal)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Pair", "uid-a", fixedNow, testutil.TaskOpts{})
	path := "/tasks/" + task.ID.Hex() + "/assignees"

	rec := do(t, router, "POST", path, map[string]any{"principalId": "uid-b"}, "uid-a")
	rec.AssertStatus(t, http.StatusOK)
	var got models.Task
	rec.DecodeJSON(t, &got)
	if !got.IsAssignee("uid-b") {
		t.Errorf("uid-b not assigned: %v", got.AssigneeIDs)
	}

	rec = do(t, router, "GET", "/tasks/user/uid-b", nil, "uid-b")
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Task
	rec.DecodeJSON(t, &list)
	if len(list) != 1 {
		t.Errorf("uid-b list: got %d, want 1", len(list))
	}

	rec = do(t, router, "DELETE", path+"/uid-b", nil, "uid-a")
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if got.IsAssignee("uid-b") {
		t.Errorf("uid-b still assigned: %v", got.AssigneeIDs)
	}

	do(t, router, "POST", path, map[string]any{}, "uid-a").AssertStatus(t, http.StatusBadRequest)
}

func TestDelete_CreatorOnly(t *testing.T) {
	router, db := newRouter(t, taskpolicy.AnyPrincipal)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	task := fixtures.CreateTask(ctx, "Owned", "uid-a", fixedNow, testutil.TaskOpts{
		Assignees: []models.PrincipalID{"uid-a", "uid-b"},
	})
	path := "/tasks/" + task.ID.Hex()

	do(t, router, "DELETE", path, nil, "uid-b").AssertStatus(t, http.StatusForbidden)

	rec := do(t, router, "DELETE", path, nil, "uid-a")
	rec.AssertStatus(t, http.StatusOK)
	var out map[string]string
	rec.DecodeJSON(t, &out)
	if out["message"] != "Task deleted successfully" {
		t.Errorf("message: got %q", out["message"])
	}

	rec = do(t, router, "DELETE", path, nil, "uid-a")
	rec.AssertStatus(t, http.StatusNotFound)
	if msg, _ := rec.ErrorBody(t); msg != "Task not found" {
		t.Errorf("message: got %q", msg)
	}
}

func TestGroupTasksAndProgress(t *testing.T) {
	router, db := newRouter(t, taskpolicy.AnyPrincipal)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Algo Study", "CS", "uid-a")
	fixtures.CreateTask(ctx, "Graphs", "uid-a", fixedNow, testutil.TaskOpts{GroupID: &g.ID, Subject: "CS", Status: models.TaskCompleted})
	fixtures.CreateTask(ctx, "Trees", "uid-a", fixedNow.Add(time.Hour), testutil.TaskOpts{GroupID: &g.ID, Subject: "CS"})

	rec := do(t, router, "GET", "/tasks/group/"+g.ID.Hex(), nil, "uid-b")
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Task
	rec.DecodeJSON(t, &list)
	if len(list) != 2 || list[0].Title != "Graphs" {
		t.Errorf("group tasks: got %v", list)
	}

	rec = do(t, router, "GET", "/tasks/user/uid-a/progress", nil, "uid-a")
	rec.AssertStatus(t, http.StatusOK)
	var progress models.TaskProgress
	rec.DecodeJSON(t, &progress)
	if progress.Total != 2 || progress.Completed != 1 || progress.Percentage != 50 {
		t.Errorf("progress: got %+v", progress)
	}

	do(t, router, "GET", "/tasks/group/not-an-id", nil, "uid-a").AssertStatus(t, http.StatusBadRequest)
}

func TestMissingTask(t *testing.T) {
	router, _ := newRouter(t, taskpolicy.AnyPrincipal)
	missing := "/tasks/" + primitive.NewObjectID().Hex()

	for _, tc := range []struct{ method, path string }{
		{"GET", missing},
		{"PUT", missing},
		{"PATCH", missing + "/toggle"},
		{"DELETE", missing},
		{"POST", missing + "/assignees"},
	} {
		body := map[string]any{"principalId": "uid-b"}
		do(t, router, tc.method, tc.path, body, "uid-a").AssertStatus(t, http.StatusNotFound)
	}
}
