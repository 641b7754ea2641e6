package enums

// ActorRole represents who is acting against the API.
type ActorRole string

const (
	ActorRoleUser      ActorRole = "user"
	ActorRoleModerator ActorRole = "moderator"
	ActorRoleAdmin     ActorRole = "admin"
)

var validActorRoles = []ActorRole{
	ActorRoleUser,
	ActorRoleModerator,
	ActorRoleAdmin,
}

// IsValid checks whether the given role matches the canonical enum.
func (r ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanModerate reports whether the role may apply moderation decisions.
func (r ActorRole) CanModerate() bool {
	return r == ActorRoleModerator || r == ActorRoleAdmin
}
