// internal/app/policy/resourcepolicy/resourcepolicy.go
package resourcepolicy

import (
	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/dalemusser/educollab/internal/domain/models"
)

// CanDelete reports whether p may delete res. Only the uploader can.
func CanDelete(p models.Principal, res models.Resource) authz.Decision {
	if p.ID != "" && p.ID == res.UploaderID {
		return authz.Allow()
	}
	return authz.Deny(authz.Forbidden)
}
