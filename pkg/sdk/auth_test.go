package sdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

// fakeRemote mimics the consulting API: one valid account, one protected endpoint
// that accepts only the token it issued.
func fakeRemote(t *testing.T, issuedToken string, roleID int) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	registered := map[string]bool{"taken@example.com": true}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req sdk.LoginRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Empty(t, r.Header.Get("Authorization"), "login must not carry a token")
		if req.Email != "ana@example.com" || req.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(sdk.LoginResponse{Token: issuedToken, Role: sdk.RoleRef{ID: roleID}})
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in sdk.RegisterInput
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if registered[in.Email] {
			w.WriteHeader(http.StatusConflict)
			return
		}
		if in.Email == "broken@example.com" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		registered[in.Email] = true
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	mux.HandleFunc("GET /questionnaires/all", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+issuedToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	return mux
}

func TestAuthClient_LoginScenario(t *testing.T) {
	h := newHarness(t, fakeRemote(t, "abc", 2))
	h.history.Navigate(sdk.LoginPath, sdk.Replace)
	auth := sdk.NewAuthClient(h.gateway, h.session, h.history)
	guard := sdk.NewRouteGuard(h.session)
	ctx := context.Background()

	meta, err := auth.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, sdk.RoleClient, meta.Role)

	assert.Equal(t, sdk.Identity{Token: "abc", Role: sdk.RoleClient}, h.session.Current())
	assert.Equal(t, sdk.HomePath, h.history.Location())
	assert.True(t, guard.Enforce(h.history), "home renders without redirect")
	assert.Len(t, sdk.NavigationFor(h.session.Current().Role), 5)

	var questionnaires []any
	require.NoError(t, h.gateway.Get(ctx, "/questionnaires/all", &questionnaires))
}

func TestAuthClient_ExpiredTokenScenario(t *testing.T) {
	h := newHarness(t, fakeRemote(t, "fresh", 2))
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "stale", sdk.RoleClient))
	h.history.Navigate("/questionnaires", sdk.Push)

	err := h.gateway.Get(ctx, "/questionnaires/all", nil)
	assert.ErrorIs(t, err, sdk.ErrUnauthorized)

	assert.Equal(t, sdk.Identity{}, h.session.Current())
	assert.Equal(t, sdk.LoginPath, h.history.Location())
}

func TestAuthClient_LoginInvalidCredentials(t *testing.T) {
	h := newHarness(t, fakeRemote(t, "abc", 2))
	h.history.Navigate(sdk.LoginPath, sdk.Replace)
	h.navigations.Store(0)
	auth := sdk.NewAuthClient(h.gateway, h.session, h.history)

	_, err := auth.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, sdk.ErrInvalidCredentials)
	assert.Equal(t, "Invalid email or password.", sdk.UserMessage(err))
	assert.False(t, h.session.Authenticated())
	assert.Equal(t, int32(0), h.navigations.Load())

	_, err = auth.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, sdk.ErrInvalidCredentials)
}

func TestAuthClient_RejectedLoginKeepsExistingSession(t *testing.T) {
	h := newHarness(t, fakeRemote(t, "abc", 2))
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleClient))
	h.history.Navigate("/profile", sdk.Push)
	h.navigations.Store(0)
	auth := sdk.NewAuthClient(h.gateway, h.session, h.history)

	_, err := auth.Login(ctx, "ana@example.com", "wrong")
	require.ErrorIs(t, err, sdk.ErrInvalidCredentials)

	assert.Equal(t, sdk.Identity{Token: "abc", Role: sdk.RoleClient}, h.session.Current())
	assert.Equal(t, 2, h.storage.Len(), "stored token and role are kept")
	assert.Equal(t, "/profile", h.history.Location())
	assert.Equal(t, int32(0), h.navigations.Load())

	var questionnaires []any
	require.NoError(t, h.gateway.Get(ctx, "/questionnaires/all", &questionnaires), "token is still attached")
}

func TestAuthClient_RegisterUnauthorizedKeepsSession(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleAdviser))
	h.navigations.Store(0)
	auth := sdk.NewAuthClient(h.gateway, h.session, h.history)

	err := auth.Register(ctx, sdk.RegisterInput{Email: "new@example.com", Password: "pw"})
	require.ErrorIs(t, err, sdk.ErrRequestFailed)
	assert.True(t, h.session.Authenticated())
	assert.Equal(t, int32(0), h.navigations.Load())
}

func TestAuthClient_LoginUnknownRole(t *testing.T) {
	h := newHarness(t, fakeRemote(t, "abc", 99))
	auth := sdk.NewAuthClient(h.gateway, h.session, h.history)

	meta, err := auth.Login(context.Background(), "ana@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, sdk.RoleNone, meta.Role)
	assert.Equal(t, sdk.Identity{Token: "abc"}, h.session.Current())
	assert.Empty(t, sdk.NavigationFor(h.session.Current().Role))
}

func TestAuthClient_Register(t *testing.T) {
	h := newHarness(t, fakeRemote(t, "abc", 2))
	auth := sdk.NewAuthClient(h.gateway, h.session, h.history)
	ctx := context.Background()

	err := auth.Register(ctx, sdk.RegisterInput{
		Email:      "new@example.com",
		Password:   "pw",
		DocumentID: "12345678",
		LegalName:  "Nueva Persona",
	})
	require.NoError(t, err)
	assert.False(t, h.session.Authenticated(), "registration does not log in")

	err = auth.Register(ctx, sdk.RegisterInput{Email: "taken@example.com", Password: "pw"})
	assert.ErrorIs(t, err, sdk.ErrAlreadyRegistered)
	assert.Equal(t, "An account with this email is already registered.", sdk.UserMessage(err))

	err = auth.Register(ctx, sdk.RegisterInput{Email: "broken@example.com", Password: "pw"})
	assert.ErrorIs(t, err, sdk.ErrRequestFailed)
	assert.Equal(t, http.StatusInternalServerError, sdk.StatusCode(err))
	assert.Equal(t, "Something went wrong. Please try again later.", sdk.UserMessage(err))
}

func TestAuthClient_Logout(t *testing.T) {
	h := newHarness(t, fakeRemote(t, "abc", 2))
	auth := sdk.NewAuthClient(h.gateway, h.session, h.history)
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleClient))
	h.history.Navigate("/profile", sdk.Push)

	require.NoError(t, auth.Logout(ctx))
	assert.False(t, h.session.Authenticated())
	assert.Equal(t, sdk.LoginPath, h.history.Location())
	assert.NotContains(t, h.history.Entries(), "/profile")

	// Logging out twice is harmless.
	require.NoError(t, auth.Logout(ctx))
}
