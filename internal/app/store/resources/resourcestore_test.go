package resourcestore_test

import (
	"errors"
	"testing"

	resourcestore "github.com/dalemusser/educollab/internal/app/store/resources"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/dalemusser/educollab/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Resource{
		FileName:   "graphs.pdf",
		FileURL:    "https://files.test/graphs.pdf",
		Subject:    " Computer Science ",
		UploaderID: "uid-alice",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.UploadedAt.IsZero() {
		t.Error("expected UploadedAt to be set")
	}
	if created.Subject != "Computer Science" {
		t.Errorf("Subject: got %q", created.Subject)
	}
	if created.MimeClass != models.MimePDF {
		t.Errorf("MimeClass: got %q, want pdf", created.MimeClass)
	}

	if _, err := store.Create(ctx, models.Resource{FileName: "x"}); err == nil {
		t.Error("expected error without uploader")
	}
}

func TestStore_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := fixtures.CreateGroup(ctx, "Algo Study", "CS", "uid-alice")
	fixtures.CreateResource(ctx, "a.pdf", "Math", "uid-alice", nil)
	fixtures.CreateResource(ctx, "b.pdf", "Computer Science", "uid-bob", &g.ID)
	newest := fixtures.CreateResource(ctx, "c.pdf", "computer science", "uid-alice", &g.ID)

	all, err := store.List(ctx, resourcestore.Filter{})
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all: got %d, want 3", len(all))
	}
	if all[0].ID != newest.ID {
		t.Errorf("newest first: got %q", all[0].FileName)
	}

	cs, err := store.List(ctx, resourcestore.Filter{Subject: "COMPUTER SCIENCE"})
	if err != nil {
		t.Fatalf("List subject failed: %v", err)
	}
	if len(cs) != 2 {
		t.Errorf("subject filter (case-insensitive): got %d, want 2", len(cs))
	}

	byGroup, err := store.List(ctx, resourcestore.Filter{GroupID: &g.ID, Subject: "Computer Science"})
	if err != nil {
		t.Fatalf("List group failed: %v", err)
	}
	if len(byGroup) != 2 {
		t.Errorf("group+subject filter: got %d, want 2", len(byGroup))
	}

	mine, err := store.ListByUploader(ctx, "uid-alice")
	if err != nil {
		t.Fatalf("ListByUploader failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("ListByUploader: got %d, want 2", len(mine))
	}

	grp, err := store.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(grp) != 2 {
		t.Errorf("ListByGroup: got %d, want 2", len(grp))
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := resourcestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := fixtures.CreateResource(ctx, "a.pdf", "Math", "uid-alice", nil)
	if err := store.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, r.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("after delete: expected mongo.ErrNoDocuments, got %v", err)
	}
	if err := store.Delete(ctx, r.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second delete: expected mongo.ErrNoDocuments, got %v", err)
	}
}
