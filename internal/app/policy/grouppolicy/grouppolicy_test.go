package grouppolicy_test

import (
	"testing"

	"github.com/dalemusser/educollab/internal/app/policy/grouppolicy"
	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/dalemusser/educollab/internal/domain/models"
)

var (
	alice = models.Principal{ID: "uid-alice", Email: "alice@example.com"}
	bob   = models.Principal{ID: "uid-bob", Email: "bob@example.com"}
	carol = models.Principal{ID: "uid-carol", Email: "carol@example.com"}
)

func algoStudy() models.Group {
	return models.Group{
		Name:      "Algo Study",
		Subject:   "CS",
		OwnerID:   alice.ID,
		MemberIDs: []models.PrincipalID{alice.ID, bob.ID},
	}
}

func TestCanManage(t *testing.T) {
	tests := []struct {
		name string
		p    models.Principal
		want authz.Decision
	}{
		{"owner", alice, authz.Allow()},
		{"member", bob, authz.Deny(authz.Forbidden)},
		{"stranger", carol, authz.Deny(authz.Forbidden)},
		{"anonymous", models.Principal{}, authz.Deny(authz.Forbidden)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanManage(tt.p, algoStudy()); got != tt.want {
				t.Errorf("CanManage: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCanJoin(t *testing.T) {
	tests := []struct {
		name string
		p    models.Principal
		want authz.Decision
	}{
		{"owner", alice, authz.Deny(authz.AlreadyMember)},
		{"member", bob, authz.Deny(authz.AlreadyMember)},
		{"stranger", carol, authz.Allow()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanJoin(tt.p, algoStudy()); got != tt.want {
				t.Errorf("CanJoin: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCanLeave(t *testing.T) {
	tests := []struct {
		name string
		p    models.Principal
		want authz.Decision
	}{
		{"owner", alice, authz.Deny(authz.OwnerCannotLeave)},
		{"member", bob, authz.Allow()},
		{"non-member is a no-op", carol, authz.Allow()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grouppolicy.CanLeave(tt.p, algoStudy()); got != tt.want {
				t.Errorf("CanLeave: got %+v, want %+v", got, tt.want)
			}
		})
	}
}
