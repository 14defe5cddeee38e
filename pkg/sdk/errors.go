package sdk

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches any 401 response. The Gateway has already cleared the
	// session and redirected to the login page by the time a caller sees it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by Login when the remote rejects the email/password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyRegistered is returned by Register on a 409 conflict.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrRequestFailed wraps every other transport or server failure.
	ErrRequestFailed = errors.New("request failed")

	// ErrUnknownRole is returned when a role identifier is outside the known set.
	ErrUnknownRole = errors.New("unknown role")
)

// StatusError is a non-2xx response from the remote service, passed through unchanged.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(string(e.Body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Status, msg)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// StatusCode extracts the HTTP status from err, or 0 if err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// UserMessage turns an error into text suitable for showing to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrAlreadyRegistered):
		return "An account with this email is already registered."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please log in again."
	default:
		return "Something went wrong. Please try again later."
	}
}
