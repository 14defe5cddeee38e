package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	defaultGatewayTimeout = 30 * time.Second
	requestIDHeader       = "X-Request-Id"
)

// Gateway is the single egress point to the remote service.
//
// It holds the current token as its own state, updated through a Session
// subscription, and attaches it as a bearer credential to every request. Every
// 401 response clears the session and sends the user to the login page, except on
// the login and registration calls made by AuthClient. Both
// behaviours live in the transport of the client returned by HTTPClient, so no
// caller can skip them.
type Gateway struct {
	baseURL string
	session *Session
	nav     Navigator
	logger  *slog.Logger
	client  *http.Client

	tokenMu sync.RWMutex
	token   string

	// unauthorizedMu serializes 401 handling so concurrent failures
	// navigate to the login page at most once.
	unauthorizedMu sync.Mutex

	unsubscribe func()
}

// GatewayOptions configures Gateway construction.
type GatewayOptions struct {
	BaseTransport http.RoundTripper
	Timeout       time.Duration
	Logger        *slog.Logger
}

// GatewayOption mutates GatewayOptions.
type GatewayOption func(*GatewayOptions)

// WithBaseTransport sets the transport that performs the actual round trips.
func WithBaseTransport(rt http.RoundTripper) GatewayOption {
	return func(opts *GatewayOptions) {
		opts.BaseTransport = rt
	}
}

// WithTimeout overrides the per-request timeout (default 30s).
func WithTimeout(d time.Duration) GatewayOption {
	return func(opts *GatewayOptions) {
		opts.Timeout = d
	}
}

// WithGatewayLogger sets the logger for request and authorization events.
func WithGatewayLogger(logger *slog.Logger) GatewayOption {
	return func(opts *GatewayOptions) {
		opts.Logger = logger
	}
}

// NewGateway creates the gateway for baseURL and subscribes it to session.
// nav may be nil, in which case 401 responses only clear the session.
func NewGateway(baseURL string, session *Session, nav Navigator, optFns ...GatewayOption) *Gateway {
	opts := GatewayOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.BaseTransport == nil {
		opts.BaseTransport = http.DefaultTransport
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultGatewayTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		nav:     nav,
		logger:  opts.Logger,
	}
	g.client = &http.Client{
		Transport: &authTransport{gateway: g, base: opts.BaseTransport},
		Timeout:   opts.Timeout,
	}
	g.unsubscribe = session.Subscribe(g.setToken)
	return g
}

// BaseURL returns the remote service address without a trailing slash.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// HTTPClient returns the client whose transport injects credentials and handles 401s.
// Hand it to other SDKs instead of building a separate client.
func (g *Gateway) HTTPClient() *http.Client {
	return g.client
}

// Close detaches the gateway from the session.
func (g *Gateway) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
}

// Get issues a GET and decodes a JSON response into out (when non-nil).
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON and decodes the response into out.
func (g *Gateway) Post(ctx context.Context, path string, in, out any) error {
	return g.Do(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (g *Gateway) Put(ctx context.Context, path string, in, out any) error {
	return g.Do(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE and decodes the response into out.
func (g *Gateway) Delete(ctx context.Context, path string, out any) error {
	return g.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs a request against the remote service. Non-2xx responses are returned as
// *StatusError without further interpretation; a 401 has already been handled by the
// transport when Do returns.
func (g *Gateway) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.url(path), body)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       data,
		}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (g *Gateway) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return g.baseURL + "/" + strings.TrimLeft(path, "/")
}

type credentialExchangeKey struct{}

// withCredentialExchange marks ctx as carrying a login or registration call. Such a
// call is sent without the session's token, and a 401 on it rejects the submitted
// credentials, so it does not clear the session.
func withCredentialExchange(ctx context.Context) context.Context {
	return context.WithValue(ctx, credentialExchangeKey{}, true)
}

func isCredentialExchange(ctx context.Context) bool {
	v, _ := ctx.Value(credentialExchangeKey{}).(bool)
	return v
}

func (g *Gateway) setToken(id Identity) {
	g.tokenMu.Lock()
	defer g.tokenMu.Unlock()
	g.token = id.Token
}

func (g *Gateway) currentToken() string {
	g.tokenMu.RLock()
	defer g.tokenMu.RUnlock()
	return g.token
}

// handleUnauthorized clears the session and, unless already there, replaces the
// current location with the login page.
func (g *Gateway) handleUnauthorized(ctx context.Context, req *http.Request) {
	g.unauthorizedMu.Lock()
	defer g.unauthorizedMu.Unlock()

	g.logger.Warn("remote rejected credentials", "method", req.Method, "path", req.URL.Path)

	if err := g.session.Deauthorize(context.WithoutCancel(ctx)); err != nil {
		g.logger.Error("failed to clear session after 401", "error", err)
	}
	if g.nav == nil {
		return
	}
	if g.nav.Location() != LoginPath {
		g.nav.Navigate(LoginPath, Replace)
	}
}

// authTransport carries both gateway interceptors.
type authTransport struct {
	gateway *Gateway
	base    http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "*/*")
	}
	if r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if r.Header.Get(requestIDHeader) == "" {
		r.Header.Set(requestIDHeader, uuid.NewString())
	}

	exchange := isCredentialExchange(r.Context())

	// Snapshot at dispatch time; a later session change does not affect this request.
	if token := t.gateway.currentToken(); token != "" && !exchange {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(r)
	} else {
		r.Header.Del("Authorization")
	}

	resp, err := t.base.RoundTrip(r)
	if err != nil {
		return nil, err
	}

	t.gateway.logger.Debug("remote call",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"request_id", r.Header.Get(requestIDHeader),
	)

	if resp.StatusCode == http.StatusUnauthorized && !exchange {
		t.gateway.handleUnauthorized(r.Context(), r)
	}
	return resp, nil
}
