package service

import (
	"context"

	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ============================================
// Member Service
// ============================================

type MemberService interface {
	GetByEmail(ctx context.Context, email string) (*repository.Member, error)
	List(ctx context.Context) ([]*repository.Member, error)
	// AdjustHours applies an administrative edit to one counter. The result
	// must stay non-negative.
	AdjustHours(ctx context.Context, memberID int64, hoursType string, delta decimal.Decimal) (*repository.Member, error)
}

type memberService struct {
	store      repository.Store
	memberRepo repository.MemberRepository
	log        *zerolog.Logger
}

func NewMemberService(store repository.Store, memberRepo repository.MemberRepository, log *zerolog.Logger) MemberService {
	return &memberService{store: store, memberRepo: memberRepo, log: log}
}

func (s *memberService) GetByEmail(ctx context.Context, email string) (*repository.Member, error) {
	member, err := s.memberRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *memberService) List(ctx context.Context) ([]*repository.Member, error) {
	return s.memberRepo.List(ctx)
}

func (s *memberService) AdjustHours(ctx context.Context, memberID int64, hoursType string, delta decimal.Decimal) (*repository.Member, error) {
	h, ok := types.ParseHoursType(hoursType)
	if !ok {
		return nil, ErrInvalidHoursType
	}

	var member *repository.Member
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		member, err = tx.LockMemberByID(ctx, memberID)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrMemberNotFound
		}
		total := member.HoursFor(h).Add(delta)
		if total.IsNegative() {
			return ErrNegativeHours
		}
		member.SetHours(h, total)
		return tx.SaveMemberHours(ctx, member, h)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("member_id", memberID).
		Str("hours_type", string(h)).
		Str("delta", delta.String()).
		Msg("[Members] Hours adjusted")
	return member, nil
}
