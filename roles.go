package accounts

// Role names as stored in the user_types table.
const (
	// RoleUser is granted to every registered account.
	RoleUser = "ROLE_USER"
	// RoleAdmin marks organization administrators.
	RoleAdmin = "ROLE_ADMIN"
)

// IsAdmin reports whether the user holds the admin role.
func IsAdmin(u *User) bool {
	return u != nil && u.HasRole(RoleAdmin)
}

// QualifiesAsSuccessorAdmin reports whether an admin candidate could
// keep the organization administered on their own: they must be
// enabled and not blocked. Enabled-but-blocked and blocked-but-not-enabled
// candidates do not qualify.
func QualifiesAsSuccessorAdmin(u *User) bool {
	return u != nil && u.Enabled && !u.Blocked
}

// HasSuccessorAdmin scans candidate admins, excluding the acting user,
// for at least one qualifying successor.
func HasSuccessorAdmin(actor *User, admins []*User) bool {
	for _, admin := range admins {
		if admin == nil || admin.ID == actor.ID {
			continue
		}
		if QualifiesAsSuccessorAdmin(admin) {
			return true
		}
	}
	return false
}
