// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	return role == RoleStudent || role == RoleMentor
}

// User is the profile record for a principal. One document per principal_id;
// it is created on first sign-in and refreshed on later sign-ins.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PrincipalID PrincipalID        `bson:"principal_id" json:"principalId"`
	DisplayName string             `bson:"display_name" json:"displayName"`
	Email       string             `bson:"email" json:"email"`
	Role        string             `bson:"role" json:"role"` // student | mentor
	AvatarURL   string             `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
