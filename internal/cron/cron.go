package cron

import (
	"context"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ReminderSchedule runs event reminders every day at 9 AM.
const ReminderSchedule = "0 9 * * *"

const jobTimeout = 5 * time.Minute

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	notifier service.NotificationService
	now      func() time.Time
	log      *zerolog.Logger
}

// NewScheduler creates a new scheduler running in loc.
func NewScheduler(notifier service.NotificationService, loc *time.Location, log *zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		notifier: notifier,
		now:      func() time.Time { return time.Now().In(loc) },
		log:      log,
	}
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(ReminderSchedule, func() {
		s.log.Info().Msg("[Cron] Running event reminder job...")
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.SendReminders(ctx)
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("schedule", ReminderSchedule).Msg("[Cron] Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("[Cron] Scheduler stopped")
}

// SendReminders emails the RSVP list of every event held tomorrow.
func (s *Scheduler) SendReminders(ctx context.Context) {
	y, m, d := s.now().Date()
	tomorrow := time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)

	result, err := s.notifier.SendEventReminders(ctx, tomorrow)
	if err != nil {
		s.log.Error().Err(err).Msg("[Cron] Event reminders failed")
		return
	}
	s.log.Info().
		Str("date", tomorrow.Format(time.DateOnly)).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("[Cron] Event reminders sent")
}
