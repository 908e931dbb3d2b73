package routing

import (
	"strings"

	sessiondomain "pratoJaEdge/internal/modules/session/domain"
)

// Route is one navigable page. Profile, when set, is the role the session
// must hold beyond being authenticated.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
	Profile      sessiondomain.Role
}

// NotFound is the catch-all page for unknown paths.
var NotFound = Route{Path: "", Name: "not-found"}

var routes = []Route{
	{Path: "/", Name: "storefront"},
	{Path: "/login", Name: "login"},
	{Path: "/register", Name: "register"},
	{Path: "/forgot-password", Name: "forgot-password"},
	{Path: "/reset-password", Name: "reset-password"},
	{Path: "/account", Name: "account", RequiresAuth: true},
	{Path: "/cart", Name: "cart", RequiresAuth: true},
	{Path: "/checkout", Name: "checkout", RequiresAuth: true},
	{Path: "/demands", Name: "demands", RequiresAuth: true},
	{Path: "/home", Name: "admin-home", RequiresAuth: true, Profile: sessiondomain.RoleAdmin},
	{Path: "/dishes/manage", Name: "dish-management", RequiresAuth: true, Profile: sessiondomain.RoleAdmin},
	{Path: "/not-authorized", Name: "not-authorized"},
	{Path: "/server-error", Name: "server-error"},
	{Path: "/network-error", Name: "network-error"},
}

// Table resolves paths to routes.
type Table struct {
	byPath map[string]Route
}

func NewTable() *Table {
	table := &Table{byPath: make(map[string]Route, len(routes))}
	for _, route := range routes {
		table.byPath[route.Path] = route
	}
	return table
}

// Routes returns every registered page in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Match resolves a path. Unknown paths come back as the catch-all NotFound
// route with ok=false.
func (t *Table) Match(path string) (Route, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed != "/" {
		trimmed = strings.TrimRight(trimmed, "/")
	}
	if route, ok := t.byPath[trimmed]; ok {
		return route, true
	}
	return NotFound, false
}
