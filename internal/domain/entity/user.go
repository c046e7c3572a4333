package entity

import "time"

// Role is a capability tag attached to an Identity.
// Assigned by the collaborator at registration; read-only on the client.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole maps a wire value onto a known role, defaulting to RoleUser.
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the authenticated principal: an opaque external identifier
// plus the login email. Created on successful authentication, destroyed
// on sign-out.
type Identity struct {
	ID    string
	Email string
}

// Profile holds the displayable account data, one per identity.
// When the collaborator returns no profile it is synthesized client-side
// from token claims.
type Profile struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfilePatch carries a partial profile update. Empty fields are left
// untouched.
type ProfilePatch struct {
	Name      string
	Email     string
	AvatarURL string
}
