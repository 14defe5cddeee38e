package sdk

// Decision is the outcome of a route guard check.
type Decision struct {
	Allow    bool
	Redirect string
	// Replace is set on redirects so the protected entry is dropped from history.
	Replace bool
}

// RouteGuard gates the authenticated region of the application.
// It only checks that a token is present; role-based filtering is advisory and
// the remote service enforces real authorization on every request.
type RouteGuard struct {
	session   *Session
	loginPath string
}

// NewRouteGuard creates a guard that redirects to LoginPath.
func NewRouteGuard(session *Session) *RouteGuard {
	return &RouteGuard{session: session, loginPath: LoginPath}
}

// LoginPath returns the redirect target for unauthenticated users.
func (g *RouteGuard) LoginPath() string {
	return g.loginPath
}

// Check evaluates the current session for path. It is not cached.
func (g *RouteGuard) Check(path string) Decision {
	if !g.session.Authenticated() {
		return Decision{Redirect: g.loginPath, Replace: true}
	}
	return Decision{Allow: true}
}

// Enforce checks the navigator's current location and applies a redirect if needed.
// It reports whether the location may be rendered.
func (g *RouteGuard) Enforce(nav Navigator) bool {
	d := g.Check(nav.Location())
	if d.Allow {
		return true
	}
	mode := Push
	if d.Replace {
		mode = Replace
	}
	nav.Navigate(d.Redirect, mode)
	return false
}
