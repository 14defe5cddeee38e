package web

import (
	"net/http"

	"github.com/terraconstructs/haroldo/pkg/sdk"
)

// RequireSession gates the protected region. The guard is evaluated on every
// request; unauthenticated requests are redirected to the login page with
// 303 See Other, and in the navigator the denied path's entry is replaced by the
// login page, so going back does not return to it.
func RequireSession(guard *sdk.RouteGuard, nav sdk.Navigator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := guard.Check(r.URL.Path)
			if !d.Allow {
				if nav != nil {
					mode := sdk.Push
					if d.Replace {
						// The denied path becomes the current entry so the redirect replaces it.
						if nav.Location() != r.URL.Path {
							nav.Navigate(r.URL.Path, sdk.Push)
						}
						mode = sdk.Replace
					}
					nav.Navigate(d.Redirect, mode)
				}
				w.Header().Set("Cache-Control", "no-store")
				http.Redirect(w, r, d.Redirect, http.StatusSeeOther)
				return
			}
			// Protected pages must not be served from cache after logout.
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}

// trackLocation records page views so the navigator reflects the page the user is on.
func trackLocation(nav sdk.Navigator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if nav != nil && r.Method == http.MethodGet && nav.Location() != r.URL.Path {
				nav.Navigate(r.URL.Path, sdk.Push)
			}
			next.ServeHTTP(w, r)
		})
	}
}
