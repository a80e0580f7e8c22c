package authz_test

import (
	"testing"

	"github.com/dalemusser/educollab/internal/app/system/authz"
)

func TestAllow(t *testing.T) {
	d := authz.Allow()
	if !d.Allowed {
		t.Error("expected Allowed")
	}
	if d.Reason != "" {
		t.Errorf("Reason: got %q, want empty", d.Reason)
	}
	if d.Message() != "" {
		t.Errorf("Message: got %q, want empty", d.Message())
	}
}

func TestDeny_Messages(t *testing.T) {
	tests := []struct {
		reason authz.Reason
		want   string
	}{
		{authz.Forbidden, "Unauthorized"},
		{authz.AlreadyMember, "Already a member"},
		{authz.OwnerCannotLeave, "The group owner cannot leave the group"},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			d := authz.Deny(tt.reason)
			if d.Allowed {
				t.Error("expected denial")
			}
			if d.Message() != tt.want {
				t.Errorf("Message: got %q, want %q", d.Message(), tt.want)
			}
		})
	}
}
