package auth

// Authorization policy: pure decision functions over a resolved identity and a
// target resource owner. No I/O.

// CanModifyUser reports whether the identity may modify the user record owned
// by ownerUserID: admins always, otherwise only the principal whose own user
// id matches exactly.
func CanModifyUser(id Identity, ownerUserID int64) bool {
	if id.Kind == KindAdmin {
		return true
	}
	return id.UserID != 0 && id.UserID == ownerUserID
}

// CanModifyContributor reports whether the identity may modify the contributor
// record ownerContributorID: admins always, otherwise only the contributor
// itself.
func CanModifyContributor(id Identity, ownerContributorID int64) bool {
	if id.Kind == KindAdmin {
		return true
	}
	return id.ContributorID != 0 && id.ContributorID == ownerContributorID
}

// FilterUserUpdate strips fields a generic user update must never set.
// password_hash is removed unconditionally (password changes go through the
// dedicated change-password operation); user_type is admin-only.
func FilterUserUpdate(patch map[string]interface{}, isAdmin bool) map[string]interface{} {
	filtered := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		if k == "password_hash" {
			continue
		}
		if k == "user_type" && !isAdmin {
			continue
		}
		filtered[k] = v
	}
	return filtered
}

// FilterContributorUpdate strips fields a generic contributor update must
// never set. password_hash is removed unconditionally; verification_status and
// verified are admin-only.
func FilterContributorUpdate(patch map[string]interface{}, isAdmin bool) map[string]interface{} {
	filtered := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		if k == "password_hash" {
			continue
		}
		if (k == "verification_status" || k == "verified") && !isAdmin {
			continue
		}
		filtered[k] = v
	}
	return filtered
}
