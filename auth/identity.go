package auth

import "fmt"

// PrincipalKind discriminates the three authenticated identity kinds. Callers
// switch on the kind tag explicitly; which id fields are meaningful follows
// from the kind, never from a type hierarchy.
type PrincipalKind string

const (
	KindUser        PrincipalKind = "user"
	KindContributor PrincipalKind = "contributor"
	KindAdmin       PrincipalKind = "admin"
)

// ValidKind reports whether k is a known principal kind
func ValidKind(k PrincipalKind) bool {
	return k == KindUser || k == KindContributor || k == KindAdmin
}

// Identity is the normalized authenticated principal attached to a request.
// UserID is set for user and contributor kinds, ContributorID only for
// contributors, AdminID only for admins. Zero means "not set".
type Identity struct {
	Kind          PrincipalKind
	UserID        int64
	ContributorID int64
	AdminID       int64
}

// IsAdmin reports whether the identity is an administrator
func (i Identity) IsAdmin() bool {
	return i.Kind == KindAdmin
}

// PrincipalRef names the single principal a refresh row belongs to
type PrincipalRef struct {
	Kind PrincipalKind
	ID   int64
}

// Validate checks the ref names a known kind and a positive id
func (r PrincipalRef) Validate() error {
	if !ValidKind(r.Kind) {
		return fmt.Errorf("unknown principal kind %q", r.Kind)
	}
	if r.ID <= 0 {
		return fmt.Errorf("principal id must be positive, got %d", r.ID)
	}
	return nil
}
