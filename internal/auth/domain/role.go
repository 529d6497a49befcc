package domain

// Role is the closed set of account categories. A user has exactly one role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleReviewer  Role = "reviewer"
	RoleAuthor    Role = "author"
	RoleMember    Role = "member"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleReviewer, RoleAuthor, RoleMember:
		return true
	}
	return false
}

// Permission grants a set of actions on a resource class.
type Permission struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// rolePermissions is the single source of truth for default grants. The
// admin entry includes "admin: access" so the console gate and the resource
// grants no longer live in two places.
var rolePermissions = map[Role][]Permission{
	RoleAdmin: {
		{Resource: "users", Actions: []string{"create", "read", "update", "delete"}},
		{Resource: "articles", Actions: []string{"create", "read", "update", "delete", "publish"}},
		{Resource: "reviews", Actions: []string{"create", "read", "update", "delete", "assign"}},
		{Resource: "analytics", Actions: []string{"read"}},
		{Resource: "settings", Actions: []string{"read", "update"}},
		{Resource: "admin", Actions: []string{"access"}},
	},
	RoleProfessor: {
		{Resource: "articles", Actions: []string{"create", "read", "update", "publish"}},
		{Resource: "reviews", Actions: []string{"create", "read", "update"}},
		{Resource: "documents", Actions: []string{"create", "read", "update", "delete"}},
		{Resource: "analytics", Actions: []string{"read"}},
	},
	RoleReviewer: {
		{Resource: "articles", Actions: []string{"read"}},
		{Resource: "reviews", Actions: []string{"create", "read", "update"}},
	},
	RoleAuthor: {
		{Resource: "articles", Actions: []string{"create", "read", "update"}},
		{Resource: "documents", Actions: []string{"create", "read", "update", "delete"}},
	},
	RoleMember: {
		{Resource: "articles", Actions: []string{"read"}},
	},
}

// DefaultPermissions returns the default grant set for a role. It is total:
// unrecognized roles get an empty set rather than an error. The returned
// slices are copies, safe for the caller to mutate.
func DefaultPermissions(role Role) []Permission {
	src, ok := rolePermissions[role]
	if !ok {
		return []Permission{}
	}

	out := make([]Permission, len(src))
	for i, p := range src {
		actions := make([]string, len(p.Actions))
		copy(actions, p.Actions)
		out[i] = Permission{Resource: p.Resource, Actions: actions}
	}
	return out
}
