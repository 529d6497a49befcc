package domain

// routeRoles maps protected UI routes to the roles allowed to open them.
// Routes absent from the table are treated as public to authenticated users.
var routeRoles = map[string][]Role{
	"/dashboard":       {RoleAdmin, RoleProfessor, RoleReviewer, RoleAuthor, RoleMember},
	"/articles":        {RoleAdmin, RoleProfessor, RoleReviewer, RoleAuthor, RoleMember},
	"/articles/submit": {RoleAdmin, RoleProfessor, RoleAuthor},
	"/reviews":         {RoleAdmin, RoleProfessor, RoleReviewer},
	"/documents":       {RoleAdmin, RoleProfessor, RoleAuthor},
	"/professor":       {RoleAdmin, RoleProfessor},
	"/analytics":       {RoleAdmin, RoleProfessor},
	"/admin":           {RoleAdmin},
	"/admin/users":     {RoleAdmin},
	"/admin/settings":  {RoleAdmin},
}

// routeOrder keeps AccessibleRoutes deterministic.
var routeOrder = []string{
	"/dashboard",
	"/articles",
	"/articles/submit",
	"/reviews",
	"/documents",
	"/professor",
	"/analytics",
	"/admin",
	"/admin/users",
	"/admin/settings",
}

// RouteAllowed reports whether the role may open the route. Unknown routes
// are allowed; the table only lists gated ones.
func RouteAllowed(role Role, route string) bool {
	allowed, ok := routeRoles[route]
	if !ok {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// RoutesForRole returns every gated route the role may open, in a stable
// order suitable for building navigation.
func RoutesForRole(role Role) []string {
	out := make([]string, 0, len(routeOrder))
	for _, route := range routeOrder {
		if RouteAllowed(role, route) {
			out = append(out, route)
		}
	}
	return out
}
