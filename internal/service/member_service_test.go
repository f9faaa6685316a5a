package service

import (
	"context"
	"testing"

	"github.com/Marga-Ghale/org-portal-backend/internal/logger"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberService(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	repos := f.db.Repositories()
	svc := NewMemberService(repos.Store, repos.MemberRepo, logger.Nop())

	t.Run("get by email", func(t *testing.T) {
		m, err := svc.GetByEmail(ctx, "ana@example.edu")
		require.NoError(t, err)
		assert.Equal(t, f.member.ID, m.ID)

		_, err = svc.GetByEmail(ctx, "nobody@example.edu")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("adjust hours", func(t *testing.T) {
		m, err := svc.AdjustHours(ctx, f.member.ID, "service", decimal.RequireFromString("-0.5"))
		require.NoError(t, err)
		assert.Equal(t, "1.5", m.HoursFor(types.HoursService).String())
		assert.Equal(t, "1.5", f.db.Member(f.member.ID).HoursFor(types.HoursService).String())
	})

	t.Run("result cannot go negative", func(t *testing.T) {
		_, err := svc.AdjustHours(ctx, f.member.ID, "service", decimal.NewFromInt(-10))
		assert.ErrorIs(t, err, ErrNegativeHours)
		assert.Equal(t, "1.5", f.db.Member(f.member.ID).HoursFor(types.HoursService).String())
	})

	t.Run("unknown hours type", func(t *testing.T) {
		_, err := svc.AdjustHours(ctx, f.member.ID, "volunteering", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrInvalidHoursType)
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := svc.AdjustHours(ctx, 999, "service", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})

	t.Run("list", func(t *testing.T) {
		members, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, members, 1)
	})
}
