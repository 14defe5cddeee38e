package sdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

type harness struct {
	server  *httptest.Server
	storage *sdk.MemoryStorage
	session *sdk.Session
	history *sdk.History
	gateway *sdk.Gateway

	navigations atomic.Int32
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()
	storage := sdk.NewMemoryStorage()
	h := &harness{
		server:  httptest.NewServer(handler),
		storage: storage,
		session: newSessionWithStorage(t, storage),
		history: sdk.NewHistory(sdk.HomePath),
	}
	h.history.OnNavigate(func(string, sdk.NavigateMode) { h.navigations.Add(1) })
	h.gateway = sdk.NewGateway(h.server.URL, h.session, h.history)
	t.Cleanup(func() {
		h.gateway.Close()
		h.server.Close()
	})
	return h
}

func TestGateway_AttachesCurrentToken(t *testing.T) {
	var gotAuth []string
	var mu sync.Mutex
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.WriteHeader(http.StatusNoContent)
	}))
	ctx := context.Background()

	require.NoError(t, h.gateway.Get(ctx, "/questionnaires/all", nil))

	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleClient))
	require.NoError(t, h.gateway.Get(ctx, "/questionnaires/all", nil))

	require.NoError(t, h.session.Authorize(ctx, "rotated", sdk.RoleClient))
	require.NoError(t, h.gateway.Get(ctx, "/questionnaires/all", nil))

	require.NoError(t, h.session.Deauthorize(ctx))
	require.NoError(t, h.gateway.Get(ctx, "/questionnaires/all", nil))

	assert.Equal(t, []string{"", "Bearer abc", "Bearer rotated", ""}, gotAuth)
}

func TestGateway_PicksUpSessionInitializedBeforeConstruction(t *testing.T) {
	ctx := context.Background()
	storage := sdk.NewMemoryStorage()
	require.NoError(t, storage.Set(ctx, sdk.TokenKey, "persisted"))
	require.NoError(t, storage.Set(ctx, sdk.RoleKey, "3"))
	session := newSessionWithStorage(t, storage)

	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer server.Close()

	gw := sdk.NewGateway(server.URL, session, nil)
	defer gw.Close()

	require.NoError(t, gw.Get(ctx, "/appointments", nil))
	assert.Equal(t, "Bearer persisted", got)
}

func TestGateway_AllVerbsFunnelThroughInterceptors(t *testing.T) {
	type seen struct{ method, auth, body string }
	var calls []seen
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		calls = append(calls, seen{r.Method, r.Header.Get("Authorization"), payload["name"]})
		_ = json.NewEncoder(w).Encode(map[string]string{"method": r.Method})
	}))
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleAdviser))

	var out map[string]string
	require.NoError(t, h.gateway.Get(ctx, "/appointments", &out))
	assert.Equal(t, "GET", out["method"])
	require.NoError(t, h.gateway.Post(ctx, "/appointments", map[string]string{"name": "intro"}, &out))
	assert.Equal(t, "POST", out["method"])
	require.NoError(t, h.gateway.Put(ctx, "/appointments/1", map[string]string{"name": "review"}, &out))
	assert.Equal(t, "PUT", out["method"])
	require.NoError(t, h.gateway.Delete(ctx, "/appointments/1", nil))

	require.Len(t, calls, 4)
	for _, c := range calls {
		assert.Equal(t, "Bearer abc", c.auth, c.method)
	}
	assert.Equal(t, "intro", calls[1].body)
	assert.Equal(t, "review", calls[2].body)
}

func TestGateway_UnauthorizedClearsSessionAndRedirects(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleClient))
	h.history.Navigate("/questionnaires", sdk.Push)
	h.navigations.Store(0)

	err := h.gateway.Get(ctx, "/questionnaires/all", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, sdk.ErrUnauthorized)

	assert.Equal(t, sdk.Identity{}, h.session.Current())
	assert.Equal(t, sdk.LoginPath, h.history.Location())
	assert.Equal(t, int32(1), h.navigations.Load())
	assert.Equal(t, []string{sdk.HomePath, sdk.LoginPath}, h.history.Entries(), "login replaces the protected entry")
}

func TestGateway_ConcurrentUnauthorizedNavigatesOnce(t *testing.T) {
	release := make(chan struct{})
	var arrived sync.WaitGroup
	const inflight = 8
	arrived.Add(inflight)

	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		arrived.Done()
		<-release
		w.WriteHeader(http.StatusUnauthorized)
	}))
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleClient))
	h.history.Navigate("/diagnostics", sdk.Push)
	h.navigations.Store(0)

	var wg sync.WaitGroup
	errs := make([]error, inflight)
	for i := 0; i < inflight; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = h.gateway.Get(ctx, "/diagnostics/latest", nil)
		}(i)
	}
	arrived.Wait()
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, sdk.ErrUnauthorized)
	}
	assert.False(t, h.session.Authenticated())
	assert.Equal(t, sdk.LoginPath, h.history.Location())
	assert.Equal(t, int32(1), h.navigations.Load())
}

func TestGateway_UnauthorizedOnLoginPageDoesNotNavigate(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	h.history.Navigate(sdk.LoginPath, sdk.Replace)
	h.navigations.Store(0)

	err := h.gateway.Post(context.Background(), sdk.LoginEndpoint, sdk.LoginRequest{Email: "a@b.c", Password: "x"}, nil)
	assert.ErrorIs(t, err, sdk.ErrUnauthorized)
	assert.Equal(t, int32(0), h.navigations.Load())
}

func TestGateway_OtherErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "forbidden", status: http.StatusForbidden},
		{name: "not found", status: http.StatusNotFound},
		{name: "conflict", status: http.StatusConflict},
		{name: "server error", status: http.StatusInternalServerError},
		{name: "bad gateway", status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			ctx := context.Background()
			require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleClient))
			h.navigations.Store(0)

			err := h.gateway.Get(ctx, "/reports", nil)
			require.Error(t, err)

			var se *sdk.StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Contains(t, string(se.Body), "nope")
			assert.False(t, errors.Is(err, sdk.ErrUnauthorized))

			assert.True(t, h.session.Authenticated(), "only 401 clears the session")
			assert.Equal(t, int32(0), h.navigations.Load())
		})
	}
}

func TestGateway_HTTPClientSharesInterceptors(t *testing.T) {
	var got string
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusUnauthorized)
	}))
	ctx := context.Background()
	require.NoError(t, h.session.Authorize(ctx, "abc", sdk.RoleClient))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.server.URL+"/raw", nil)
	require.NoError(t, err)
	resp, err := h.gateway.HTTPClient().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer abc", got)
	assert.False(t, h.session.Authenticated())
	assert.Equal(t, sdk.LoginPath, h.history.Location())
}

func TestGateway_TransportError(t *testing.T) {
	session := newSession(t)
	gw := sdk.NewGateway("http://127.0.0.1:1", session, nil)
	defer gw.Close()

	err := gw.Get(context.Background(), "/anything", nil)
	require.Error(t, err)
	assert.Equal(t, 0, sdk.StatusCode(err))
}
