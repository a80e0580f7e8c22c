// internal/app/store/resources/resourcestore.go
package resourcestore

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

// Store manages resource metadata records. File bytes live in the filestore;
// this collection only records where they are.
type Store struct {
	c *mongo.Collection
}

var errNoUploader = errors.New("resource must have uploader_id")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resources")}
}

var byUploadedDesc = bson.D{{Key: "uploaded_at", Value: -1}, {Key: "_id", Value: -1}}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// Create inserts a resource record, stamping uploaded_at.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	if r.UploaderID.IsZero() {
		return models.Resource{}, errNoUploader
	}
	r.ID = primitive.NewObjectID()
	r.Subject = normalize.Subject(r.Subject)
	r.SubjectCI = normalize.SubjectKey(r.Subject)
	if r.MimeClass == "" {
		r.MimeClass = models.MimeClassFor(r.FileName)
	}
	r.UploadedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// Find returns resources matching filter. Pass options to sort or limit.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Resource, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Resource{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUploader returns resources uploaded by pid, newest first.
func (s *Store) ListByUploader(ctx context.Context, pid models.PrincipalID) ([]models.Resource, error) {
	return s.Find(ctx, bson.M{"uploader_id": pid}, options.Find().SetSort(byUploadedDesc))
}

// ListByGroup returns resources shared with a group, newest first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Resource, error) {
	return s.Find(ctx, bson.M{"group_id": groupID}, options.Find().SetSort(byUploadedDesc))
}

// Filter narrows List. Zero fields are ignored.
type Filter struct {
	Subject string // matched case-insensitively
	GroupID *primitive.ObjectID
}

// List returns resources matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Resource, error) {
	q := bson.M{}
	if key := normalize.SubjectKey(f.Subject); key != "" {
		q["subject_ci"] = key
	}
	if f.GroupID != nil {
		q["group_id"] = *f.GroupID
	}
	return s.Find(ctx, q, options.Find().SetSort(byUploadedDesc))
}

// Delete removes a resource record by ID. Returns mongo.ErrNoDocuments if it did not exist.
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
