package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouteAllowed(t *testing.T) {
	cases := []struct {
		role  Role
		route string
		want  bool
	}{
		{RoleMember, "/dashboard", true},
		{RoleMember, "/articles", true},
		{RoleMember, "/articles/submit", false},
		{RoleMember, "/admin", false},

		{RoleAuthor, "/articles/submit", true},
		{RoleAuthor, "/documents", true},
		{RoleAuthor, "/reviews", false},

		{RoleReviewer, "/reviews", true},
		{RoleReviewer, "/documents", false},

		{RoleProfessor, "/professor", true},
		{RoleProfessor, "/analytics", true},
		{RoleProfessor, "/admin", false},

		{RoleAdmin, "/admin", true},
		{RoleAdmin, "/admin/users", true},
		{RoleAdmin, "/admin/settings", true},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, RouteAllowed(tc.role, tc.route),
			"%s %s", tc.role, tc.route)
	}
}

func TestRouteAllowedUnknownRoute(t *testing.T) {
	// Ungated routes are open to any signed-in role.
	require.True(t, RouteAllowed(RoleMember, "/about"))
	require.True(t, RouteAllowed(Role("nobody"), "/about"))
}

func TestRoutesForRole(t *testing.T) {
	require.Equal(t, []string{"/dashboard", "/articles"}, RoutesForRole(RoleMember))
	require.Equal(t,
		[]string{"/dashboard", "/articles", "/articles/submit", "/documents"},
		RoutesForRole(RoleAuthor))
	require.Equal(t,
		[]string{"/dashboard", "/articles", "/reviews"},
		RoutesForRole(RoleReviewer))
	require.Equal(t,
		[]string{"/dashboard", "/articles", "/articles/submit", "/reviews", "/documents", "/professor", "/analytics"},
		RoutesForRole(RoleProfessor))

	// Admins see every gated route.
	require.Len(t, RoutesForRole(RoleAdmin), len(routeOrder))
}

func TestRouteTableAndOrderAgree(t *testing.T) {
	require.Len(t, routeOrder, len(routeRoles))
	for _, route := range routeOrder {
		_, ok := routeRoles[route]
		require.True(t, ok, route)
	}
}
