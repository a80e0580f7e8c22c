// internal/domain/models/principal.go
package models

// PrincipalID is the stable identifier the identity provider issues for a
// signed-in account (the Firebase uid). It is the join key for every
// creator/owner/member/assignee field.
//
// It is a distinct type so that it cannot be compared with arbitrary strings
// (group names, subjects, hex ids) by accident.
type PrincipalID string

// String returns the raw identifier.
func (p PrincipalID) String() string { return string(p) }

// IsZero reports whether the id is empty.
func (p PrincipalID) IsZero() bool { return p == "" }

// Principal is the authenticated caller of a request. It is only ever
// produced by the token verifier, never decoded from a request body.
type Principal struct {
	ID    PrincipalID `json:"id"`
	Email string      `json:"email"`
}

// ContainsPrincipal reports whether id is present in ids.
func ContainsPrincipal(ids []PrincipalID, id PrincipalID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UniquePrincipals returns ids with empty values and duplicates removed,
// preserving first-seen order.
func UniquePrincipals(ids []PrincipalID) []PrincipalID {
	out := make([]PrincipalID, 0, len(ids))
	seen := make(map[PrincipalID]struct{}, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
