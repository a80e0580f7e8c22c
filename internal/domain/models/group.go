// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a study group.
//
// NOTE:
//   - MemberIDs is a set; the owner is always a member.
//   - Membership is embedded on the group document (no join collection),
//     so join/leave are single-document $addToSet/$pull updates.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Subject     string             `bson:"subject" json:"subject"`
	SubjectCI   string             `bson:"subject_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	OwnerID     PrincipalID        `bson:"owner_id" json:"ownerId"`
	MemberIDs   []PrincipalID      `bson:"member_ids" json:"memberIds"`
	IsPublic    bool               `bson:"is_public" json:"isPublic"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether id is in the group's member set.
func (g Group) HasMember(id PrincipalID) bool {
	return ContainsPrincipal(g.MemberIDs, id)
}
