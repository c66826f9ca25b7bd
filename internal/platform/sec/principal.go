// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"strings"
)

// ErrIdentityNotFound is returned by identity resolvers when no account matches a subject.
var ErrIdentityNotFound = errors.New("sec: identity not found")

// # Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// RoleUser is the default role for every registered student account.
	RoleUser Role = "USER"

	// RoleAdmin moderates listings and manages account status.
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a stored role string onto a known [Role].
// Unknown values fall back to [RoleUser], the least privileged role.
func ParseRole(value string) Role {
	if Role(strings.ToUpper(strings.TrimSpace(value))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

func (r Role) level() int {
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Account Status

// Status is the lifecycle state of an account. Only [StatusActive] may authenticate.
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusSuspended   Status = "SUSPENDED"
	StatusDeactivated Status = "DEACTIVATED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusDeactivated:
		return true
	}
	return false
}

// # Principal

// Principal is the authenticated identity attached to a single request.
//
// It is rebuilt from the live account record on every request and must never be
// cached or shared across requests.
type Principal struct {
	AccountID string
	Subject   string
	Role      Role
	Status    Status
}

// IsAdmin reports whether the principal carries the administrator role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// IsActive reports whether the principal's account may use the API.
func (p *Principal) IsActive() bool {
	return p != nil && p.Status == StatusActive
}

// NormalizeSubject canonicalizes an account email so token subjects and stored
// emails compare equal regardless of case or surrounding whitespace.
func NormalizeSubject(subject string) string {
	return strings.ToLower(strings.TrimSpace(subject))
}
