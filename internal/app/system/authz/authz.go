// internal/app/system/authz/authz.go
//
// Package authz holds the result type returned by the policy packages.
// Policies are pure functions of (principal, entity); they never touch the
// request or the database.
package authz

// Reason explains a denial. The zero value means the action was allowed.
type Reason string

const (
	// Forbidden: the principal lacks the relationship (owner, creator,
	// uploader, self) the action requires.
	Forbidden Reason = "forbidden"
	// AlreadyMember: the join target already lists the principal.
	AlreadyMember Reason = "already_member"
	// OwnerCannotLeave: the owner must stay in the member set.
	OwnerCannotLeave Reason = "owner_cannot_leave"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow returns an allowing Decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny returns a denying Decision with the given reason.
func Deny(reason Reason) Decision { return Decision{Allowed: false, Reason: reason} }

// Message is the client-facing text for a denial.
func (d Decision) Message() string {
	switch d.Reason {
	case "":
		return ""
	case AlreadyMember:
		return "Already a member"
	case OwnerCannotLeave:
		return "The group owner cannot leave the group"
	default:
		return "Unauthorized"
	}
}
