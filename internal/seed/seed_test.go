package seed

import (
	"context"
	"testing"

	"github.com/Marga-Ghale/org-portal-backend/internal/logger"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedData_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	repos := db.Repositories()

	require.NoError(t, SeedData(ctx, repos, logger.Nop()))
	require.NoError(t, SeedData(ctx, repos, logger.Nop()))

	events, err := repos.EventRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	members, err := repos.MemberRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	role, err := repos.RoleRepo.FindRole(ctx, "president@example.edu")
	require.NoError(t, err)
	assert.Equal(t, "e-board", role)

	user, err := repos.UserRepo.FindByEmail(ctx, "sponsor@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "dev-sponsor-001", user.ID)
}
