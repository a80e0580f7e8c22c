// internal/app/policy/userpolicy/userpolicy.go
package userpolicy

import (
	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/dalemusser/educollab/internal/domain/models"
)

// CanEditProfile reports whether p may change the profile of target.
// Principals may only edit their own profile.
func CanEditProfile(p models.Principal, target models.PrincipalID) authz.Decision {
	if p.ID != "" && p.ID == target {
		return authz.Allow()
	}
	return authz.Deny(authz.Forbidden)
}
