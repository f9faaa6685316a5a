package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/email"
	"github.com/Marga-Ghale/org-portal-backend/internal/metrics"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ============================================
// Notification Service
// ============================================

type BroadcastResult struct {
	Sent   int
	Failed int
}

type NotificationService interface {
	// Broadcast sends one message per recipient concurrently and waits for
	// all of them. Individual failures are logged and counted, never returned.
	Broadcast(ctx context.Context, recipients []string, subject, templateName string, data interface{}) BroadcastResult
	AnnounceEvent(ctx context.Context, event *repository.Event) (BroadcastResult, error)
	SendEventReminders(ctx context.Context, day time.Time) (BroadcastResult, error)
}

type notificationService struct {
	sender      email.Sender
	eventRepo   repository.EventRepository
	memberRepo  repository.MemberRepository
	userRepo    repository.UserRepository
	frontendURL string
	metrics     *metrics.Metrics
	log         *zerolog.Logger
}

// NewNotificationService creates the notifier. A nil sender disables email.
func NewNotificationService(
	sender email.Sender,
	eventRepo repository.EventRepository,
	memberRepo repository.MemberRepository,
	userRepo repository.UserRepository,
	frontendURL string,
	m *metrics.Metrics,
	log *zerolog.Logger,
) NotificationService {
	return &notificationService{
		sender:      sender,
		eventRepo:   eventRepo,
		memberRepo:  memberRepo,
		userRepo:    userRepo,
		frontendURL: frontendURL,
		metrics:     m,
		log:         log,
	}
}

func (s *notificationService) Broadcast(ctx context.Context, recipients []string, subject, templateName string, data interface{}) BroadcastResult {
	if s.sender == nil {
		s.log.Debug().Int("recipients", len(recipients)).Msg("[Notify] Email disabled, skipping broadcast")
		return BroadcastResult{}
	}

	var sent, failed atomic.Int64
	var g errgroup.Group
	for _, to := range recipients {
		g.Go(func() error {
			if err := s.sender.SendWithTemplate([]string{to}, subject, templateName, data); err != nil {
				failed.Add(1)
				s.metrics.Email("failed")
				s.log.Warn().Err(err).Str("to", to).Str("template", templateName).Msg("[Notify] Email delivery failed")
				return nil
			}
			sent.Add(1)
			s.metrics.Email("sent")
			return nil
		})
	}
	_ = g.Wait()

	result := BroadcastResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
	s.log.Info().
		Str("template", templateName).
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Msg("[Notify] Broadcast finished")
	return result
}

func (s *notificationService) AnnounceEvent(ctx context.Context, event *repository.Event) (BroadcastResult, error) {
	recipients, err := s.memberRepo.ListEmails(ctx)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("list member emails: %w", err)
	}
	return s.Broadcast(ctx, recipients, "New event: "+event.Name, email.TemplateEventAnnouncement, s.eventData(event)), nil
}

// SendEventReminders emails the RSVP list of every event held on day.
func (s *notificationService) SendEventReminders(ctx context.Context, day time.Time) (BroadcastResult, error) {
	events, err := s.eventRepo.FindByDate(ctx, day)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("find events by date: %w", err)
	}

	var total BroadcastResult
	for _, event := range events {
		if len(event.Rsvped) == 0 {
			continue
		}
		recipients, err := s.userRepo.FindEmails(ctx, event.Rsvped)
		if err != nil {
			s.log.Error().Err(err).Int64("event_id", event.ID).Msg("[Notify] Failed to resolve RSVP emails")
			continue
		}
		r := s.Broadcast(ctx, recipients, "Reminder: "+event.Name+" is tomorrow", email.TemplateEventReminder, s.eventData(event))
		total.Sent += r.Sent
		total.Failed += r.Failed
	}
	return total, nil
}

func (s *notificationService) eventData(event *repository.Event) email.EventEmailData {
	return email.EventEmailData{
		EventName:   event.Name,
		Description: event.Description,
		Location:    event.Location,
		Date:        event.Date.Format(time.DateOnly),
		Time:        event.Time,
		Hours:       event.Hours.String(),
		HoursType:   event.HoursType,
		EventURL:    fmt.Sprintf("%s/events/%d", s.frontendURL, event.ID),
	}
}
