package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/terraconstructs/haroldo/cmd/haroldoctl/internal/auth"
	"github.com/terraconstructs/haroldo/pkg/sdk"
)

// Options configures a Provider.
type Options struct {
	ServerURL string
	// Store is the credential storage kind: file, sqlite or memory.
	Store     string
	StorePath string
	Logger    *slog.Logger
	// Navigator receives login redirects; a History starting at "/" is used when nil.
	Navigator sdk.Navigator
	// Timeout bounds each remote call (default 30s).
	Timeout time.Duration
}

// Provider lazily builds the process-wide Session, Gateway and AuthClient.
// Each is constructed once and shared by every command of the process.
type Provider struct {
	opts        Options
	bearerToken string // ephemeral token that bypasses the credential store (for testing/CI)

	sessionOnce sync.Once
	session     *sdk.Session
	closer      io.Closer
	sessionErr  error

	gatewayOnce sync.Once
	gateway     *sdk.Gateway
	gatewayErr  error

	authOnce   sync.Once
	authClient *sdk.AuthClient
	authErr    error
}

// NewProvider constructs a Provider. Nothing is opened until first use.
func NewProvider(opts Options) *Provider {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Navigator == nil {
		opts.Navigator = sdk.NewHistory(sdk.HomePath)
	}
	return &Provider{opts: opts}
}

// SetBearerToken injects an ephemeral bearer token. The session then lives in
// memory only and the credential store is never touched.
func (p *Provider) SetBearerToken(token string) {
	p.bearerToken = token
}

// ServerURL returns the remote service address.
func (p *Provider) ServerURL() string {
	return p.opts.ServerURL
}

// Navigator returns the navigator shared by the gateway and the route guard.
func (p *Provider) Navigator() sdk.Navigator {
	return p.opts.Navigator
}

// Logger returns the provider's logger.
func (p *Provider) Logger() *slog.Logger {
	return p.opts.Logger
}

// Session returns the initialized session, reading storage on first call only.
func (p *Provider) Session(ctx context.Context) (*sdk.Session, error) {
	p.sessionOnce.Do(func() {
		// Priority 1: Ephemeral bearer token (for testing/CI)
		if p.bearerToken != "" {
			session := sdk.NewSession(sdk.NewCredentialStore(sdk.NewMemoryStorage()), sdk.WithSessionLogger(p.opts.Logger))
			if err := session.Initialize(ctx); err != nil {
				p.sessionErr = err
				return
			}
			if err := session.Authorize(ctx, p.bearerToken, sdk.RoleNone); err != nil {
				p.sessionErr = err
				return
			}
			p.session = session
			return
		}

		// Priority 2: Durable credential store
		storage, closer, err := auth.NewStorage(ctx, p.opts.Store, p.opts.StorePath)
		if err != nil {
			p.sessionErr = fmt.Errorf("failed to open credential store: %w", err)
			return
		}

		session := sdk.NewSession(sdk.NewCredentialStore(storage), sdk.WithSessionLogger(p.opts.Logger))
		if err := session.Initialize(ctx); err != nil {
			closer.Close()
			p.sessionErr = err
			return
		}
		p.session = session
		p.closer = closer
	})

	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	return p.session, nil
}

// Gateway returns the single authorized gateway bound to the session.
func (p *Provider) Gateway(ctx context.Context) (*sdk.Gateway, error) {
	p.gatewayOnce.Do(func() {
		session, err := p.Session(ctx)
		if err != nil {
			p.gatewayErr = err
			return
		}
		p.gateway = sdk.NewGateway(p.opts.ServerURL, session, p.opts.Navigator,
			sdk.WithTimeout(p.opts.Timeout),
			sdk.WithGatewayLogger(p.opts.Logger),
		)
	})

	if p.gatewayErr != nil {
		return nil, p.gatewayErr
	}
	return p.gateway, nil
}

// AuthClient returns the login/registration client backed by Gateway.
func (p *Provider) AuthClient(ctx context.Context) (*sdk.AuthClient, error) {
	p.authOnce.Do(func() {
		gateway, err := p.Gateway(ctx)
		if err != nil {
			p.authErr = err
			return
		}
		session, err := p.Session(ctx)
		if err != nil {
			p.authErr = err
			return
		}
		p.authClient = sdk.NewAuthClient(gateway, session, p.opts.Navigator)
	})

	if p.authErr != nil {
		return nil, p.authErr
	}
	return p.authClient, nil
}

// Close releases the gateway subscription and the credential storage.
func (p *Provider) Close() error {
	if p.gateway != nil {
		p.gateway.Close()
	}
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
