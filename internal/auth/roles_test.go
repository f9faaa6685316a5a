package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSatisfies(t *testing.T) {
	tests := []struct {
		required Capability
		actual   Role
		want     bool
	}{
		{CapabilityMember, RoleGeneralMember, true},
		{CapabilityMember, RoleEBoard, true},
		{CapabilityMember, RoleSponsor, false},
		{CapabilityElevated, RoleEBoard, true},
		{CapabilityElevated, RoleGeneralMember, false},
		{CapabilityElevated, RoleSponsor, false},
		{CapabilitySponsor, RoleSponsor, true},
		{CapabilitySponsor, RoleEBoard, false},
		{CapabilityAny, RoleGeneralMember, true},
		{CapabilityAny, RoleEBoard, true},
		{CapabilityAny, RoleSponsor, true},
		{CapabilityAny, Role("alumni"), false},
		{Capability("owner"), RoleEBoard, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.required)+"/"+string(tt.actual), func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfies(tt.required, tt.actual))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("e-board")
	require.NoError(t, err)
	assert.Equal(t, RoleEBoard, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

type staticResolver map[string]Role

func (s staticResolver) ResolveRole(_ context.Context, email string) (Role, error) {
	r, ok := s[email]
	if !ok {
		return "", ErrNoRoleAssigned
	}
	return r, nil
}

func TestAuthorize(t *testing.T) {
	resolver := staticResolver{
		"board@example.edu":  RoleEBoard,
		"member@example.edu": RoleGeneralMember,
	}
	ctx := context.Background()

	role, err := Authorize(ctx, resolver, Principal{Email: "board@example.edu"}, CapabilityMember)
	require.NoError(t, err)
	assert.Equal(t, RoleEBoard, role)

	_, err = Authorize(ctx, resolver, Principal{Email: "board@example.edu"}, CapabilityElevated)
	require.NoError(t, err)

	_, err = Authorize(ctx, resolver, Principal{Email: "member@example.edu"}, CapabilityMember)
	require.NoError(t, err)

	role, err = Authorize(ctx, resolver, Principal{Email: "member@example.edu"}, CapabilityElevated)
	require.ErrorIs(t, err, ErrForbidden)
	var fe *ForbiddenError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, RoleGeneralMember, fe.Actual)
	assert.Equal(t, RoleGeneralMember, role)
	assert.Equal(t, "insufficient_role", Reason(err))

	_, err = Authorize(ctx, resolver, Principal{Email: "nobody@example.edu"}, CapabilityAny)
	require.ErrorIs(t, err, ErrNoRoleAssigned)
	assert.False(t, IsAuthentication(err))
}
