package sdk

import (
	"fmt"
	"strconv"
	"strings"
)

// Role identifies the permission class of the logged-in user.
// The numeric values match the identifiers issued by the remote service.
type Role int

const (
	// RoleNone means no role is known (unauthenticated or unrecognised).
	RoleNone Role = 0
	// RoleAdministrator manages users and questionnaires.
	RoleAdministrator Role = 1
	// RoleClient is a consulting customer.
	RoleClient Role = 2
	// RoleAdviser is a financial adviser assigned to clients.
	RoleAdviser Role = 3
)

var roleNames = map[Role]string{
	RoleAdministrator: "administrator",
	RoleClient:        "client",
	RoleAdviser:       "adviser",
}

// Roles returns the known roles in identifier order.
func Roles() []Role {
	return []Role{RoleAdministrator, RoleClient, RoleAdviser}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// String returns the role name, "none" for RoleNone and "unknown(n)" otherwise.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	if r == RoleNone {
		return "none"
	}
	return fmt.Sprintf("unknown(%d)", int(r))
}

// Key returns the decimal form used by the credential storage layout.
// RoleNone has no stored form and yields "".
func (r Role) Key() string {
	if r == RoleNone {
		return ""
	}
	return strconv.Itoa(int(r))
}

// RoleFromID maps a remote role identifier to a Role.
// Unknown identifiers return RoleNone together with ErrUnknownRole.
func RoleFromID(id int) (Role, error) {
	r := Role(id)
	if r == RoleNone {
		return RoleNone, nil
	}
	if !r.Valid() {
		return RoleNone, fmt.Errorf("%w: %d", ErrUnknownRole, id)
	}
	return r, nil
}

// ParseRole accepts the stored decimal form ("2") or a role name ("client").
// An empty string is RoleNone with no error.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RoleNone, nil
	}
	if id, err := strconv.Atoi(s); err == nil {
		return RoleFromID(id)
	}
	for r, name := range roleNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// RoleRef is the wire representation of a role: {"id": 2}.
type RoleRef struct {
	ID int `json:"id"`
}

// Ref returns the wire representation of r.
func (r Role) Ref() RoleRef {
	return RoleRef{ID: int(r)}
}
