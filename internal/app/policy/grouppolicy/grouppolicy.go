// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/dalemusser/educollab/internal/domain/models"
)

// CanManage reports whether p may update or delete g. Only the owner can.
func CanManage(p models.Principal, g models.Group) authz.Decision {
	if p.ID != "" && p.ID == g.OwnerID {
		return authz.Allow()
	}
	return authz.Deny(authz.Forbidden)
}

// CanJoin reports whether p may join g. Any principal may join a group they
// are not yet in.
func CanJoin(p models.Principal, g models.Group) authz.Decision {
	if g.HasMember(p.ID) {
		return authz.Deny(authz.AlreadyMember)
	}
	return authz.Allow()
}

// CanLeave reports whether p may leave g. Leaving a group you are not in is
// allowed and changes nothing. The owner may not leave, since the owner must
// remain a member.
func CanLeave(p models.Principal, g models.Group) authz.Decision {
	if p.ID == g.OwnerID {
		return authz.Deny(authz.OwnerCannotLeave)
	}
	return authz.Allow()
}
