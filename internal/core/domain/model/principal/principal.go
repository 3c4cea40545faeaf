// Package principal models the caller of an operation: an identity plus a
// role. Identity verification itself is delegated to an external provider;
// the core only consumes the resolved Principal.
package principal

import (
	"fmt"
	"slices"
	"strings"

	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/pkg/errs"
)

// Role is the authorization class of a principal.
type Role int

const (
	// Anonymous is the zero role: no session is attached to the request.
	Anonymous Role = iota
	Consumer
	Carrier
	Admin
	// System is used by scheduled jobs. It is never issued to a session.
	System
)

var roleNames = map[Role]string{
	Anonymous: "anonymous",
	Consumer:  "consumer",
	Carrier:   "carrier",
	Admin:     "admin",
	System:    "system",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ParseRole accepts the roles a session may carry: consumer, carrier, admin.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "consumer":
		return Consumer, nil
	case "carrier":
		return Carrier, nil
	case "admin":
		return Admin, nil
	}
	return Anonymous, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a session role", s))
}

// Principal is an authenticated or anonymous actor.
type Principal struct {
	id   kernel.UUID
	role Role
}

// New builds an authenticated principal.
func New(id kernel.UUID, role Role) (Principal, error) {
	if err := id.Validate(); err != nil {
		return Principal{}, err
	}
	if role == Anonymous || roleNames[role] == "" {
		return Principal{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%s cannot be authenticated", role))
	}
	return Principal{id: id, role: role}, nil
}

// NewAnonymous returns the principal of a request without a valid session.
func NewAnonymous() Principal {
	return Principal{}
}

// NewSystem returns the principal used by scheduled jobs.
func NewSystem() Principal {
	return Principal{id: systemID, role: System}
}

var systemID = kernel.MustUUIDFromString("00000000-0000-4000-8000-000000000001")

func (p Principal) ID() kernel.UUID {
	return p.id
}

func (p Principal) Role() Role {
	return p.role
}

func (p Principal) IsAnonymous() bool {
	return p.role == Anonymous
}

// Is reports whether the principal has one of the given roles.
func (p Principal) Is(roles ...Role) bool {
	return slices.Contains(roles, p.role)
}

// IsPrivileged reports admin or system.
func (p Principal) IsPrivileged() bool {
	return p.Is(Admin, System)
}

// Require returns an UnauthorizedError naming action unless the principal has one of roles.
func (p Principal) Require(action string, roles ...Role) error {
	if p.Is(roles...) {
		return nil
	}
	return errs.NewUnauthorizedErrorWithCause(action, fmt.Errorf("role %s is not allowed", p.role))
}

func (p Principal) String() string {
	if p.IsAnonymous() {
		return "anonymous"
	}
	return fmt.Sprintf("%s:%s", p.role, p.id)
}
