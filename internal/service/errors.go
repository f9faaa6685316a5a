package service

import (
	"errors"
	"fmt"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserEmailNotFound   = errors.New("user email not found")
	ErrAlreadyRsvped       = errors.New("you have already RSVP'd for this event")
	ErrNotRsvped           = errors.New("you have not RSVP'd for this event")
	ErrAlreadyCheckedIn    = errors.New("you have already checked in to this event")
	ErrAlreadyAttending    = errors.New("member is already attending this event")
	ErrNotAttending        = errors.New("member is not attending this event")
	ErrTooFar              = errors.New("too far from the event")
	ErrDistanceComputation = errors.New("failed to compute distance to the event")
	ErrInvalidHoursType    = errors.New("invalid hours type")
	ErrNegativeHours       = errors.New("hours cannot be negative")
	ErrInvalidInput        = errors.New("invalid input")
)

// TooFarError carries the measured distance for display.
type TooFarError struct {
	Distance float64
	Max      float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("You are too far from the event (%.0fm away, maximum distance is %.0fm)", e.Distance, e.Max)
}

func (e *TooFarError) Is(target error) bool {
	return target == ErrTooFar
}

// Kind classifies errors for status mapping and metrics.
type Kind string

const (
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindValidation     Kind = "validation"
	KindGeofence       Kind = "geofence"
	KindIntegration    Kind = "integration"
	KindInternal       Kind = "internal"
)

func KindOf(err error) Kind {
	switch {
	case auth.IsAuthentication(err):
		return KindAuthentication
	case errors.Is(err, auth.ErrForbidden), errors.Is(err, auth.ErrNoRoleAssigned):
		return KindAuthorization
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrUserNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyRsvped), errors.Is(err, ErrAlreadyCheckedIn), errors.Is(err, ErrAlreadyAttending):
		return KindConflict
	case errors.Is(err, ErrNotRsvped), errors.Is(err, ErrNotAttending), errors.Is(err, ErrInvalidHoursType),
		errors.Is(err, ErrNegativeHours), errors.Is(err, ErrInvalidInput):
		return KindValidation
	case errors.Is(err, ErrTooFar):
		return KindGeofence
	case errors.Is(err, ErrUserEmailNotFound):
		return KindIntegration
	}
	return KindInternal
}
