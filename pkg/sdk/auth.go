// pkg/sdk/auth.go
package sdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Remote endpoints that do not require a bearer token.
const (
	LoginEndpoint    = "/auth/login"
	RegisterEndpoint = "/auth/register"
)

// ClientType distinguishes individual from corporate customers at registration.
type ClientType string

const (
	ClientTypeIndividual ClientType = "individual"
	ClientTypeCompany    ClientType = "company"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string  `json:"token"`
	Role  RoleRef `json:"role"`
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	DocumentID string     `json:"documentId"`
	LegalName  string     `json:"legalName"`
	ClientType ClientType `json:"clientType"`
	Role       RoleRef    `json:"role"`
}

// LoginSuccessMetadata describes a completed login for display purposes.
type LoginSuccessMetadata struct {
	Email string
	Role  Role
}

// AuthClient runs the login, registration and logout flows on top of the Gateway.
type AuthClient struct {
	gateway *Gateway
	session *Session
	nav     Navigator
	logger  *slog.Logger
}

// NewAuthClient wires the auth flows to a gateway, the session it feeds and a navigator.
// nav may be nil when the caller handles navigation itself.
func NewAuthClient(gateway *Gateway, session *Session, nav Navigator) *AuthClient {
	return &AuthClient{
		gateway: gateway,
		session: session,
		nav:     nav,
		logger:  gateway.logger,
	}
}

// Login exchanges email and password for a token and authorizes the session with it.
//
// A 401 from the login endpoint is reported as ErrInvalidCredentials and leaves the
// session as it was. A role identifier outside the known set still logs the user in,
// without a role, so no navigation is offered.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*LoginSuccessMetadata, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidCredentials)
	}

	var resp LoginResponse
	err := c.gateway.Post(withCredentialExchange(ctx), LoginEndpoint, LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		if StatusCode(err) == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: login: %w", ErrRequestFailed, err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: login response did not include a token", ErrRequestFailed)
	}

	role, err := RoleFromID(resp.Role.ID)
	if err != nil {
		c.logger.Warn("login returned unrecognised role", "role_id", resp.Role.ID)
	}

	if err := c.session.Authorize(ctx, resp.Token, role); err != nil {
		return nil, err
	}
	if c.nav != nil {
		c.nav.Navigate(HomePath, Push)
	}

	return &LoginSuccessMetadata{Email: email, Role: role}, nil
}

// Register creates an account. The session is not changed; the user logs in afterwards.
// A 409 is reported as ErrAlreadyRegistered. Role defaults to client.
func (c *AuthClient) Register(ctx context.Context, input RegisterInput) error {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" {
		return errors.New("email and password are required")
	}
	if input.Role.ID == 0 {
		input.Role = RoleClient.Ref()
	}
	if input.ClientType == "" {
		input.ClientType = ClientTypeIndividual
	}

	if err := c.gateway.Post(withCredentialExchange(ctx), RegisterEndpoint, input, nil); err != nil {
		if StatusCode(err) == http.StatusConflict {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("%w: register: %w", ErrRequestFailed, err)
	}
	return nil
}

// Logout clears the session and replaces the current location with the login page.
func (c *AuthClient) Logout(ctx context.Context) error {
	err := c.session.Deauthorize(ctx)
	if c.nav != nil && c.nav.Location() != LoginPath {
		c.nav.Navigate(LoginPath, Replace)
	}
	return err
}
