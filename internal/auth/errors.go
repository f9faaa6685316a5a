package auth

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential = errors.New("missing bearer credential")
	ErrInvalidSignature  = errors.New("token signature is invalid")
	ErrExpired           = errors.New("token has expired")
	ErrMalformed         = errors.New("token is malformed")
	ErrNoRoleAssigned    = errors.New("no role assigned")
	ErrForbidden         = errors.New("insufficient role")
)

// ForbiddenError carries the caller's actual role for diagnostics.
type ForbiddenError struct {
	Required Capability
	Actual   Role
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %q does not satisfy %q", e.Actual, e.Required)
}

func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// Reason returns the machine-checkable reason code for an auth error.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "unauthorized"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrExpired):
		return "token_expired"
	case errors.Is(err, ErrMalformed):
		return "malformed_token"
	case errors.Is(err, ErrNoRoleAssigned):
		return "no_role_assigned"
	case errors.Is(err, ErrForbidden):
		return "insufficient_role"
	}
	return ""
}

// IsAuthentication reports whether err means the caller is not logged in.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrMalformed)
}
