package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type account struct {
	userID string
	email  string
	name   string
	role   string
	rank   string
}

// Development accounts. The user ids must match subjects issued by the
// identity provider used locally.
var accounts = []account{
	{"dev-eboard-0001", "president@example.edu", "Priya President", "e-board", types.RankActive},
	{"dev-member-0001", "member@example.edu", "Marco Member", "general-member", types.RankActive},
	{"dev-member-0002", "alumna@example.edu", "Alana Alumna", "general-member", types.RankAlumni},
	{"dev-sponsor-001", "sponsor@example.com", "Sam Sponsor", "sponsor", ""},
}

// SeedData creates development users, roles, members and sample events. It is
// safe to run repeatedly; events are only created when none exist.
func SeedData(ctx context.Context, repos *repository.Repositories, log *zerolog.Logger) error {
	log.Info().Msg("[Seed] Creating development data...")

	for _, a := range accounts {
		if err := repos.UserRepo.Upsert(ctx, &repository.User{ID: a.userID, Email: a.email}); err != nil {
			return fmt.Errorf("seed user %s: %w", a.email, err)
		}
		if err := repos.RoleRepo.SetRole(ctx, a.email, a.role); err != nil {
			return fmt.Errorf("seed role %s: %w", a.email, err)
		}
		if a.rank == "" {
			continue
		}
		if err := repos.MemberRepo.Upsert(ctx, &repository.Member{Email: a.email, Name: a.name, Rank: a.rank}); err != nil {
			return fmt.Errorf("seed member %s: %w", a.email, err)
		}
	}
	log.Info().Int("accounts", len(accounts)).Msg("[Seed] Accounts ready")

	existing, err := repos.EventRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Msg("[Seed] Events already exist, skipping...")
		return nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	events := []*repository.Event{
		{
			Name:        "General Body Meeting",
			Description: "Semester kickoff and officer introductions.",
			Location:    "Memorial Union 202",
			Date:        today,
			Time:        "6:00 PM",
			Latitude:    33.4255,
			Longitude:   -111.9400,
			Hours:       decimal.NewFromInt(1),
			HoursType:   string(types.HoursProfessional),
			CreatedBy:   accounts[0].userID,
		},
		{
			Name:        "Community Garden Cleanup",
			Description: "Bring gloves and water.",
			Location:    "Tempe Community Garden",
			Date:        today.AddDate(0, 0, 1),
			Time:        "9:00 AM",
			Latitude:    33.4148,
			Longitude:   -111.9093,
			Hours:       decimal.NewFromInt(3),
			HoursType:   string(types.HoursService),
			CreatedBy:   accounts[0].userID,
		},
	}
	for _, e := range events {
		if err := repos.EventRepo.Create(ctx, e); err != nil {
			return fmt.Errorf("seed event %q: %w", e.Name, err)
		}
	}

	log.Info().Int("events", len(events)).Msg("[Seed] Development data created")
	return nil
}
