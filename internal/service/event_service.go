package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/Marga-Ghale/org-portal-backend/internal/validator"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ============================================
// Event Service
// ============================================

type CreateEventInput struct {
	Name        string          `validate:"required,max=200"`
	Description string          `validate:"max=5000"`
	Location    string          `validate:"max=200"`
	Date        string          `validate:"required,isodate"`
	Time        string          `validate:"max=20"`
	Latitude    float64         `validate:"gte=-90,lte=90"`
	Longitude   float64         `validate:"gte=-180,lte=180"`
	Hours       decimal.Decimal `validate:"-"`
	HoursType   string          `validate:"required,hourstype"`
}

type EventService interface {
	Create(ctx context.Context, input CreateEventInput, createdBy string) (*repository.Event, error)
	GetByID(ctx context.Context, id int64) (*repository.Event, error)
	List(ctx context.Context) ([]*repository.Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventPublisher receives event lifecycle changes.
type EventPublisher interface {
	EventCreated(event *repository.Event)
	EventDeleted(eventID int64)
}

type eventService struct {
	eventRepo repository.EventRepository
	notifier  NotificationService
	publisher EventPublisher
	log       *zerolog.Logger
}

// NewEventService creates the event service. notifier and publisher may be nil.
func NewEventService(eventRepo repository.EventRepository, notifier NotificationService, publisher EventPublisher, log *zerolog.Logger) EventService {
	return &eventService{eventRepo: eventRepo, notifier: notifier, publisher: publisher, log: log}
}

func (s *eventService) Create(ctx context.Context, input CreateEventInput, createdBy string) (*repository.Event, error) {
	if err := validator.Validate(ctx, input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.Hours.IsNegative() {
		return nil, ErrNegativeHours
	}
	date, err := time.Parse(time.DateOnly, input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hoursType, ok := types.ParseHoursType(input.HoursType)
	if !ok {
		return nil, ErrInvalidHoursType
	}

	event := &repository.Event{
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Date:        date,
		Time:        input.Time,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Hours:       input.Hours,
		HoursType:   string(hoursType),
		CreatedBy:   createdBy,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.log.Info().Int64("event_id", event.ID).Str("created_by", createdBy).Msg("[Events] Event created")
	if s.publisher != nil {
		s.publisher.EventCreated(event)
	}

	if s.notifier != nil {
		announced := event.Clone()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := s.notifier.AnnounceEvent(ctx, announced); err != nil {
				s.log.Error().Err(err).Int64("event_id", announced.ID).Msg("[Events] Announcement failed")
			}
		}()
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*repository.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]*repository.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	err := s.eventRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return err
	}
	s.log.Info().Int64("event_id", id).Msg("[Events] Event deleted")
	if s.publisher != nil {
		s.publisher.EventDeleted(id)
	}
	return nil
}
