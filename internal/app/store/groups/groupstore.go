// internal/app/store/groups/groupstore.go
package groupstore

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

var errNoOwner = errors.New("group must have owner_id")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a new group. The owner is always added to the member set,
// whatever the draft carried.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	if g.OwnerID.IsZero() {
		return models.Group{}, errNoOwner
	}
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.Name = normalize.Name(g.Name)
	g.Subject = normalize.Subject(g.Subject)
	g.SubjectCI = normalize.SubjectKey(g.Subject)
	g.MemberIDs = models.UniquePrincipals(append([]models.PrincipalID{g.OwnerID}, g.MemberIDs...))
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Find returns groups matching filter. Pass options to sort or limit.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Group{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByMember returns the groups pid belongs to, newest first.
func (s *Store) ListByMember(ctx context.Context, pid models.PrincipalID) ([]models.Group, error) {
	return s.Find(ctx,
		bson.M{"member_ids": pid},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
}

// Patch lists the group fields an owner may change. Nil means "leave unchanged".
type Patch struct {
	Name        *string
	Subject     *string
	Description *string
	IsPublic    *bool
}

// Update applies patch and returns the updated group.
// Returns mongo.ErrNoDocuments if the group does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p Patch) (models.Group, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = normalize.Name(*p.Name)
	}
	if p.Subject != nil {
		subj := normalize.Subject(*p.Subject)
		set["subject"] = subj
		set["subject_ci"] = normalize.SubjectKey(subj)
	}
	// Description can be cleared (set to empty)
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.IsPublic != nil {
		set["is_public"] = *p.IsPublic
	}
	return s.findAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// AddMember adds pid to the member set. Adding an existing member leaves the
// set unchanged. Returns mongo.ErrNoDocuments if the group does not exist.
func (s *Store) AddMember(ctx context.Context, id primitive.ObjectID, pid models.PrincipalID) (models.Group, error) {
	return s.findAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$addToSet": bson.M{"member_ids": pid},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
	)
}

// ErrOwnerMember is returned by RemoveMember when pid owns the group.
var ErrOwnerMember = errors.New("the group owner cannot be removed from its members")

// RemoveMember pulls pid from the member set. Removing a non-member is a
// no-op. The owner is never removed: the filter excludes documents owned by
// pid, and that case is reported as ErrOwnerMember.
func (s *Store) RemoveMember(ctx context.Context, id primitive.ObjectID, pid models.PrincipalID) (models.Group, error) {
	g, err := s.findAndUpdate(ctx,
		bson.M{"_id": id, "owner_id": bson.M{"$ne": pid}},
		bson.M{
			"$pull": bson.M{"member_ids": pid},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Either the group is gone or pid owns it.
		existing, gerr := s.GetByID(ctx, id)
		if gerr != nil {
			return models.Group{}, gerr
		}
		if existing.OwnerID == pid {
			return models.Group{}, ErrOwnerMember
		}
	}
	return g, err
}

// Delete removes a group by ID. Returns mongo.ErrNoDocuments if it did not exist.
// Tasks and resources that reference the group are left in place.
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

func (s *Store) findAndUpdate(ctx context.Context, filter, update bson.M) (models.Group, error) {
	var g models.Group
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&g)
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}
