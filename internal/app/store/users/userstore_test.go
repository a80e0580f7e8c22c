package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/educollab/internal/app/store/users"
	"github.com/dalemusser/educollab/internal/app/system/indexes"
	"github.com/dalemusser/educollab/internal/domain/models"
	"github.com/dalemusser/educollab/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestStore_UpsertByPrincipal_CreatesThenRefreshes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.UpsertByPrincipal(ctx, models.User{
		PrincipalID: "uid-alice",
		DisplayName: "  Alice   Smith ",
		Email:       "Alice@Example.com",
		Role:        "mentor",
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if created.DisplayName != "Alice Smith" {
		t.Errorf("DisplayName: got %q, want %q", created.DisplayName, "Alice Smith")
	}
	if created.Email != "alice@example.com" {
		t.Errorf("Email: got %q", created.Email)
	}
	if created.Role != models.RoleMentor {
		t.Errorf("Role: got %q, want mentor", created.Role)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}

	// Second sign-in: name and avatar refresh; role and email stay.
	again, err := store.UpsertByPrincipal(ctx, models.User{
		PrincipalID: "uid-alice",
		DisplayName: "Alice S.",
		Email:       "other@example.com",
		Role:        "student",
		AvatarURL:   "https://img.test/a.png",
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("ID changed: got %v, want %v", again.ID, created.ID)
	}
	if again.DisplayName != "Alice S." {
		t.Errorf("DisplayName: got %q", again.DisplayName)
	}
	if again.AvatarURL != "https://img.test/a.png" {
		t.Errorf("AvatarURL: got %q", again.AvatarURL)
	}
	if again.Role != models.RoleMentor {
		t.Errorf("Role should be kept: got %q", again.Role)
	}
	if again.Email != "alice@example.com" {
		t.Errorf("Email should be kept: got %q", again.Email)
	}

	n, err := db.Collection("users").CountDocuments(ctx, map[string]any{"principal_id": "uid-alice"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("documents for principal: got %d, want 1", n)
	}
}

func TestStore_UpsertByPrincipal_DefaultsAndValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := store.UpsertByPrincipal(ctx, models.User{PrincipalID: "uid-bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if u.Role != models.RoleStudent {
		t.Errorf("default role: got %q, want student", u.Role)
	}

	// A refresh without a name keeps the stored one.
	if _, err := store.UpsertByPrincipal(ctx, models.User{PrincipalID: "uid-carol", DisplayName: "Carol"}); err != nil {
		t.Fatalf("upsert carol: %v", err)
	}
	c, err := store.UpsertByPrincipal(ctx, models.User{PrincipalID: "uid-carol"})
	if err != nil {
		t.Fatalf("refresh carol: %v", err)
	}
	if c.DisplayName != "Carol" {
		t.Errorf("DisplayName: got %q, want Carol", c.DisplayName)
	}

	if _, err := store.UpsertByPrincipal(ctx, models.User{PrincipalID: "uid-x", Role: "admin"}); err == nil {
		t.Error("expected error for invalid role")
	}
	if _, err := store.UpsertByPrincipal(ctx, models.User{}); err == nil {
		t.Error("expected error for missing principal")
	}
}

func TestStore_UniqueIndexHoldsUnderRepeatUpserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := userstore.New(db)

	for i := 0; i < 3; i++ {
		if _, err := store.UpsertByPrincipal(ctx, models.User{PrincipalID: "uid-dave", DisplayName: "Dave"}); err != nil {
			t.Fatalf("upsert #%d: %v", i, err)
		}
	}
}

func TestStore_GetByPrincipal_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByPrincipal(ctx, "uid-nobody")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	orig := fixtures.CreateUser(ctx, "uid-erin", "Erin")

	name := "Erin B"
	updated, err := store.UpdateProfile(ctx, "uid-erin", userstore.ProfilePatch{DisplayName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.DisplayName != "Erin B" {
		t.Errorf("DisplayName: got %q", updated.DisplayName)
	}
	if updated.Email != orig.Email {
		t.Errorf("Email changed: got %q", updated.Email)
	}
	if !updated.UpdatedAt.After(orig.UpdatedAt) && !updated.UpdatedAt.Equal(orig.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}

	_, err = store.UpdateProfile(ctx, "uid-missing", userstore.ProfilePatch{DisplayName: &name})
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("missing profile: expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "uid-finn", "Finn")
	if err := store.Delete(ctx, "uid-finn"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "uid-finn"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("second Delete: expected mongo.ErrNoDocuments, got %v", err)
	}
}
