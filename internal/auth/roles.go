// Package auth verifies bearer credentials and decides whether a resolved
// role satisfies the capability a route requires.
package auth

import (
	"context"
	"fmt"
)

// Role is the organization role stored for an email.
type Role string

const (
	RoleGeneralMember Role = "general-member"
	RoleEBoard        Role = "e-board"
	RoleSponsor       Role = "sponsor"
)

// Capability is what a route requires from the caller.
type Capability string

const (
	CapabilityMember   Capability = "member"
	CapabilityElevated Capability = "elevated"
	CapabilitySponsor  Capability = "sponsor"
	// CapabilityAny admits every role holder, for routes shared across audiences.
	CapabilityAny Capability = "any"
)

// grants lists, per capability, the roles that satisfy it. e-board subsumes
// general-member.
var grants = map[Capability]map[Role]bool{
	CapabilityElevated: {RoleEBoard: true},
	CapabilityMember:   {RoleGeneralMember: true, RoleEBoard: true},
	CapabilitySponsor:  {RoleSponsor: true},
	CapabilityAny:      {RoleGeneralMember: true, RoleEBoard: true, RoleSponsor: true},
}

// Satisfies reports whether a caller holding actual may use a route that
// requires required.
func Satisfies(required Capability, actual Role) bool {
	return grants[required][actual]
}

// ParseRole validates a stored role value.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleGeneralMember, RoleEBoard, RoleSponsor:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RoleResolver maps a principal's email to its role. Implementations return
// ErrNoRoleAssigned when no record exists.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (Role, error)
}

// Authorize resolves the principal's role and checks it against required.
func Authorize(ctx context.Context, resolver RoleResolver, p Principal, required Capability) (Role, error) {
	role, err := resolver.ResolveRole(ctx, p.Email)
	if err != nil {
		return "", err
	}
	if !Satisfies(required, role) {
		return role, &ForbiddenError{Required: required, Actual: role}
	}
	return role, nil
}
