package models

type NavItem struct {
	Name string
	URL  string
}

type Navigation struct {
	Items []NavItem
}

// Page carries the data every rendered view needs: title, nav chrome and
// the signed-in user (nil on public pages).
type Page struct {
	Title     string
	User      *User
	Nav       Navigation
	ActiveNav string
	Error     string
	Notice    string
}

// MainNav is the chrome shown inside the authenticated layout.
var MainNav = Navigation{
	Items: []NavItem{
		{Name: "Dashboard", URL: "/dashboard"},
		{Name: "Companies", URL: "/companies"},
		{Name: "Users", URL: "/users"},
		{Name: "Subscriptions", URL: "/subscriptions"},
		{Name: "Audit Logs", URL: "/audit"},
	},
}

// OfflineNav is the chrome for logged-out visitors.
var OfflineNav = Navigation{
	Items: []NavItem{
		{Name: "Home", URL: "/"},
		{Name: "Sign In", URL: "/login"},
		{Name: "Get Started", URL: "/register"},
	},
}
