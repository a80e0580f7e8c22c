// internal/app/policy/taskpolicy/taskpolicy.go
package taskpolicy

import (
	"fmt"
	"strings"

	"github.com/dalemusser/educollab/internal/app/system/authz"
	"github.com/dalemusser/educollab/internal/domain/models"
)

// MutationRule decides who may update, toggle or reassign a task.
// Deleting is always creator-only regardless of the rule.
type MutationRule string

const (
	// AnyPrincipal lets any signed-in principal change any task.
	AnyPrincipal MutationRule = "any_principal"
	// CreatorOrAssignee limits changes to the creator and the assignees.
	CreatorOrAssignee MutationRule = "creator_or_assignee"
)

// DefaultMutationRule keeps task edits open to every signed-in principal.
const DefaultMutationRule = AnyPrincipal

// ParseMutationRule parses a configured rule name. Empty selects the default.
func ParseMutationRule(s string) (MutationRule, error) {
	switch MutationRule(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMutationRule, nil
	case AnyPrincipal:
		return AnyPrincipal, nil
	case CreatorOrAssignee:
		return CreatorOrAssignee, nil
	}
	return "", fmt.Errorf("unknown task mutation rule %q (want %q or %q)", s, AnyPrincipal, CreatorOrAssignee)
}

// Policy applies a MutationRule.
type Policy struct {
	Rule MutationRule
}

// New returns a Policy using rule.
func New(rule MutationRule) Policy {
	return Policy{Rule: rule}
}

// CanMutate reports whether p may update, toggle, or change assignees of t.
func (pol Policy) CanMutate(p models.Principal, t models.Task) authz.Decision {
	if p.ID.IsZero() {
		return authz.Deny(authz.Forbidden)
	}
	switch pol.Rule {
	case CreatorOrAssignee:
		if p.ID == t.CreatorID || t.IsAssignee(p.ID) {
			return authz.Allow()
		}
		return authz.Deny(authz.Forbidden)
	default:
		return authz.Allow()
	}
}

// CanDelete reports whether p may delete t. Only the creator can.
func CanDelete(p models.Principal, t models.Task) authz.Decision {
	if p.ID != "" && p.ID == t.CreatorID {
		return authz.Allow()
	}
	return authz.Deny(authz.Forbidden)
}
