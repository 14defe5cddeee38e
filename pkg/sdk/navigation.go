package sdk

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Path  string `json:"path"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

var (
	administratorNav = []NavItem{
		{Path: "/admin", Icon: "layout-dashboard", Label: "Dashboard"},
		{Path: "/admin/users", Icon: "users", Label: "Users"},
		{Path: "/admin/questionnaires", Icon: "clipboard-list", Label: "Questionnaires"},
		{Path: "/admin/reports", Icon: "bar-chart", Label: "Reports"},
	}

	clientNav = []NavItem{
		{Path: "/", Icon: "home", Label: "Home"},
		{Path: "/questionnaires", Icon: "clipboard-check", Label: "Questionnaires"},
		{Path: "/diagnostics", Icon: "activity", Label: "Diagnostics"},
		{Path: "/schedule", Icon: "calendar", Label: "Schedule"},
		{Path: "/profile", Icon: "user", Label: "Profile"},
	}

	adviserNav = []NavItem{
		{Path: "/adviser", Icon: "briefcase", Label: "Dashboard"},
		{Path: "/adviser/clients", Icon: "users", Label: "Clients"},
		{Path: "/adviser/schedule", Icon: "calendar-clock", Label: "Agenda"},
		{Path: "/adviser/recommendations", Icon: "lightbulb", Label: "Recommendations"},
	}
)

// NavigationFor returns the navigation entries visible to role, in display order.
// Unknown roles and RoleNone get an empty slice. The result is a fresh copy.
func NavigationFor(role Role) []NavItem {
	var items []NavItem
	switch role {
	case RoleAdministrator:
		items = administratorNav
	case RoleClient:
		items = clientNav
	case RoleAdviser:
		items = adviserNav
	default:
		return []NavItem{}
	}
	out := make([]NavItem, len(items))
	copy(out, items)
	return out
}
