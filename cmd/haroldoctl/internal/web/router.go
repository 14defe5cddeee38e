package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

// RouterOptions controls the construction of the local web shell.
type RouterOptions struct {
	Session   *sdk.Session
	Gateway   *sdk.Gateway
	Auth      *sdk.AuthClient
	Navigator sdk.Navigator
	Logger    *slog.Logger
	// CORSOptions enables CORS; nil disables it.
	CORSOptions *cors.Options
}

// DefaultCORSOptions allows the front-end dev servers to call the shell's JSON API.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

// NewRouter builds the web shell: public /login and /signup, and everything else
// behind RequireSession.
func NewRouter(opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	h := &handlers{
		session: opts.Session,
		gateway: opts.Gateway,
		auth:    opts.Auth,
		nav:     opts.Navigator,
		logger:  opts.Logger,
	}
	guard := sdk.NewRouteGuard(opts.Session)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if opts.CORSOptions != nil {
		r.Use(cors.Handler(*opts.CORSOptions))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Unauthenticated region
	r.Group(func(r chi.Router) {
		r.Use(trackLocation(opts.Navigator))
		r.Get(sdk.LoginPath, h.loginPage)
		r.Post(sdk.LoginPath, h.login)
		r.Get(sdk.SignupPath, h.signupPage)
		r.Post(sdk.SignupPath, h.signup)
	})

	// Authenticated region
	r.Group(func(r chi.Router) {
		r.Use(RequireSession(guard, opts.Navigator))

		r.Post("/logout", h.logout)

		r.Route("/api", func(r chi.Router) {
			r.Get("/session", h.sessionJSON)
			r.Get("/nav", h.navJSON)
		})

		r.Group(func(r chi.Router) {
			r.Use(trackLocation(opts.Navigator))
			r.Get("/questionnaires", h.questionnaires)
			r.Get("/*", h.page)
		})
	})

	return r
}
