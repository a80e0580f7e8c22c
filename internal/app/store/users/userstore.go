// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/educollab/internal/app/system/normalize"
	"github.com/dalemusser/educollab/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	errNoPrincipal = errors.New("user must have principal_id")
	errBadRole     = errors.New(`role must be "student"|"mentor"`)
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByPrincipal loads the profile for a principal. Returns mongo.ErrNoDocuments if none exists.
func (s *Store) GetByPrincipal(ctx context.Context, pid models.PrincipalID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"principal_id": pid}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UpsertByPrincipal creates the profile on first sign-in, or refreshes it on a
// later one. On refresh only display_name and avatar_url are overwritten, and
// only when the draft carries a value; role and email keep what was stored
// at creation. The operation is a single atomic find-and-modify so two
// concurrent first sign-ins cannot produce two documents (the unique index on
// principal_id backs this up).
func (s *Store) UpsertByPrincipal(ctx context.Context, draft models.User) (models.User, error) {
	if draft.PrincipalID.IsZero() {
		return models.User{}, errNoPrincipal
	}
	draft.Role = normalize.Enum(draft.Role)
	if draft.Role == "" {
		draft.Role = models.RoleStudent
	}
	if !models.IsValidRole(draft.Role) {
		return models.User{}, errBadRole
	}

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	onInsert := bson.M{
		"_id":          primitive.NewObjectID(),
		"principal_id": draft.PrincipalID,
		"email":        normalize.Email(draft.Email),
		"role":         draft.Role,
		"created_at":   now,
	}
	if name := normalize.Name(draft.DisplayName); name != "" {
		set["display_name"] = name
	} else {
		onInsert["display_name"] = ""
	}
	if draft.AvatarURL != "" {
		set["avatar_url"] = draft.AvatarURL
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var out models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"principal_id": draft.PrincipalID},
		bson.M{"$set": set, "$setOnInsert": onInsert},
		opts,
	).Decode(&out)
	if wafflemongo.IsDup(err) {
		// A concurrent first sign-in inserted the document between our
		// match and insert. Theirs stands.
		return s.GetByPrincipal(ctx, draft.PrincipalID)
	}
	if err != nil {
		return models.User{}, err
	}
	return out, nil
}

// ProfilePatch lists the mutable profile fields. Nil means "leave unchanged".
type ProfilePatch struct {
	DisplayName *string
	AvatarURL   *string
}

// UpdateProfile applies patch to the principal's profile and returns the
// updated document. Returns mongo.ErrNoDocuments if the profile does not exist.
func (s *Store) UpdateProfile(ctx context.Context, pid models.PrincipalID, patch ProfilePatch) (models.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.DisplayName != nil {
		set["display_name"] = normalize.Name(*patch.DisplayName)
	}
	if patch.AvatarURL != nil {
		set["avatar_url"] = *patch.AvatarURL
	}

	var out models.User
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"principal_id": pid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return models.User{}, err
	}
	return out, nil
}

// Delete removes the principal's profile. Returns mongo.ErrNoDocuments if none existed.
func (s *Store) Delete(ctx context.Context, pid models.PrincipalID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"principal_id": pid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
