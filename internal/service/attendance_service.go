package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/Marga-Ghale/org-portal-backend/internal/geo"
	"github.com/Marga-Ghale/org-portal-backend/internal/metrics"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ============================================
// Attendance Service
// ============================================

// CheckInRequest is a self-service check-in at the reported coordinates.
type CheckInRequest struct {
	EventID   int64
	UserID    string
	Latitude  float64
	Longitude float64
}

type CheckInResult struct {
	EventID       int64
	HoursType     types.HoursType
	HoursCredited decimal.Decimal
	NewTotal      decimal.Decimal
	Distance      float64
}

type AttendanceSets struct {
	EventID   int64
	Rsvped    []string
	Attending []string
}

// AttendancePublisher receives attendance changes after they commit.
type AttendancePublisher interface {
	AttendanceUpdated(eventID int64, action, userID string, rsvpCount, attendingCount int)
}

type AttendanceService interface {
	Rsvp(ctx context.Context, eventID int64, userID string) error
	UnRsvp(ctx context.Context, eventID int64, userID string) error
	CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error)
	AddMemberAttending(ctx context.Context, eventID int64, email string) error
	RemoveMemberAttending(ctx context.Context, eventID int64, email string) error
	Attendance(ctx context.Context, eventID int64) (*AttendanceSets, error)
	ResolveUserID(ctx context.Context, email string) (string, error)
}

type attendanceService struct {
	store       repository.Store
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
	maxDistance float64
	publisher   AttendancePublisher
	metrics     *metrics.Metrics
	log         *zerolog.Logger
}

func NewAttendanceService(
	store repository.Store,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	maxDistance float64,
	publisher AttendancePublisher,
	m *metrics.Metrics,
	log *zerolog.Logger,
) AttendanceService {
	if maxDistance <= 0 {
		maxDistance = geo.MaxCheckInDistance
	}
	return &attendanceService{
		store:       store,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		maxDistance: maxDistance,
		publisher:   publisher,
		metrics:     m,
		log:         log,
	}
}

func (s *attendanceService) Rsvp(ctx context.Context, eventID int64, userID string) error {
	var event *repository.Event
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if event, err = lockEvent(ctx, tx, eventID); err != nil {
			return err
		}
		if event.HasRsvp(userID) {
			return ErrAlreadyRsvped
		}
		event.Rsvped = append(event.Rsvped, userID)
		return tx.SaveEventSets(ctx, event)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("event_id", eventID).Str("user_id", userID).Msg("[Attendance] RSVP recorded")
	s.committed(event, "rsvp", userID)
	return nil
}

func (s *attendanceService) UnRsvp(ctx context.Context, eventID int64, userID string) error {
	var event *repository.Event
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if event, err = lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		user, err := tx.FindUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrMemberNotFound
		}
		member, err := tx.FindMemberByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrMemberNotFound
		}

		// Attendance is final; withdrawing would leave attending outside rsvped
		if event.IsAttending(userID) {
			return ErrAlreadyCheckedIn
		}
		if !event.HasRsvp(userID) {
			return ErrNotRsvped
		}
		event.Rsvped = remove(event.Rsvped, userID)
		return tx.SaveEventSets(ctx, event)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("event_id", eventID).Str("user_id", userID).Msg("[Attendance] RSVP withdrawn")
	s.committed(event, "unrsvp", userID)
	return nil
}

// CheckIn records attendance and credits the member's hours ledger in one
// transaction. Any failure leaves both the attendance set and the ledger
// untouched.
func (s *attendanceService) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	var (
		event  *repository.Event
		result *CheckInResult
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if event, err = lockEvent(ctx, tx, req.EventID); err != nil {
			return err
		}

		// RSVP is a prerequisite only for events that track RSVPs
		if len(event.Rsvped) > 0 && !event.HasRsvp(req.UserID) {
			return ErrNotRsvped
		}

		distance, err := geo.Distance(
			geo.Point{Latitude: req.Latitude, Longitude: req.Longitude},
			geo.Point{Latitude: event.Latitude, Longitude: event.Longitude},
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDistanceComputation, err)
		}
		s.metrics.CheckInDistance(distance)
		if distance > s.maxDistance {
			return &TooFarError{Distance: distance, Max: s.maxDistance}
		}

		if event.IsAttending(req.UserID) {
			return ErrAlreadyCheckedIn
		}
		event.Attending = append(event.Attending, req.UserID)
		if err := tx.SaveEventSets(ctx, event); err != nil {
			return err
		}

		user, err := tx.FindUserByID(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUserEmailNotFound, err)
		}
		if user == nil || user.Email == "" {
			return ErrUserEmailNotFound
		}

		member, err := tx.LockMemberByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if member == nil {
			return ErrMemberNotFound
		}

		hoursType, ok := types.ParseHoursType(event.HoursType)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidHoursType, event.HoursType)
		}

		total := member.HoursFor(hoursType).Add(event.Hours)
		member.SetHours(hoursType, total)
		if err := tx.SaveMemberHours(ctx, member, hoursType); err != nil {
			return err
		}

		result = &CheckInResult{
			EventID:       event.ID,
			HoursType:     hoursType,
			HoursCredited: event.Hours,
			NewTotal:      total,
			Distance:      distance,
		}
		return nil
	})
	if err != nil {
		s.metrics.CheckIn(string(KindOf(err)))
		return nil, err
	}

	s.log.Info().
		Int64("event_id", req.EventID).
		Str("user_id", req.UserID).
		Float64("distance_m", result.Distance).
		Str("hours_type", string(result.HoursType)).
		Str("hours", result.HoursCredited.String()).
		Msg("[Attendance] Checked in")
	s.metrics.CheckIn("ok")
	s.committed(event, "checkin", req.UserID)
	return result, nil
}

// AddMemberAttending marks a member present without a geofence test or hours
// credit. When the event tracks RSVPs the member is added to the RSVP list
// too, keeping attending a subset of rsvped.
func (s *attendanceService) AddMemberAttending(ctx context.Context, eventID int64, email string) error {
	var (
		event  *repository.Event
		userID string
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if event, err = lockEvent(ctx, tx, eventID); err != nil {
			return err
		}
		if userID, err = userIDForEmail(ctx, tx, email); err != nil {
			return err
		}
		if event.IsAttending(userID) {
			return ErrAlreadyAttending
		}
		if len(event.Rsvped) > 0 && !event.HasRsvp(userID) {
			event.Rsvped = append(event.Rsvped, userID)
		}
		event.Attending = append(event.Attending, userID)
		return tx.SaveEventSets(ctx, event)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("event_id", eventID).Str("email", email).Msg("[Attendance] Member added to attendance")
	s.committed(event, "add_attending", userID)
	return nil
}

func (s *attendanceService) RemoveMemberAttending(ctx context.Context, eventID int64, email string) error {
	var (
		event  *repository.Event
		userID string
	)
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if event, err = lockEvent(ctx, tx, eventID); err != nil {
			return err
		}
		if userID, err = userIDForEmail(ctx, tx, email); err != nil {
			return err
		}
		if !event.IsAttending(userID) {
			return ErrNotAttending
		}
		event.Attending = remove(event.Attending, userID)
		return tx.SaveEventSets(ctx, event)
	})
	if err != nil {
		return err
	}

	s.log.Info().Int64("event_id", eventID).Str("email", email).Msg("[Attendance] Member removed from attendance")
	s.committed(event, "remove_attending", userID)
	return nil
}

func (s *attendanceService) Attendance(ctx context.Context, eventID int64) (*AttendanceSets, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return &AttendanceSets{
		EventID:   event.ID,
		Rsvped:    slices.Clone(event.Rsvped),
		Attending: slices.Clone(event.Attending),
	}, nil
}

func (s *attendanceService) ResolveUserID(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return user.ID, nil
}

func (s *attendanceService) committed(event *repository.Event, action, userID string) {
	if action == "rsvp" || action == "unrsvp" {
		s.metrics.RsvpChange(action)
	}
	if s.publisher != nil {
		s.publisher.AttendanceUpdated(event.ID, action, userID, len(event.Rsvped), len(event.Attending))
	}
}

func lockEvent(ctx context.Context, tx repository.Tx, eventID int64) (*repository.Event, error) {
	event, err := tx.LockEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func userIDForEmail(ctx context.Context, tx repository.Tx, email string) (string, error) {
	user, err := tx.FindUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	return user.ID, nil
}

func remove(set []string, v string) []string {
	return slices.DeleteFunc(set, func(s string) bool { return s == v })
}
