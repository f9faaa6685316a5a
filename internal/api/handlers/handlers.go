package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/models"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Event      *EventHandler
	Attendance *AttendanceHandler
	Member     *MemberHandler
}

// NewHandlers creates all handlers. production hides internal error details.
func NewHandlers(services *service.Services, production bool, log *zerolog.Logger) *Handlers {
	errs := &errorResponder{production: production, log: log}
	return &Handlers{
		Event:      &EventHandler{eventService: services.Events, errs: errs},
		Attendance: &AttendanceHandler{attendanceService: services.Attendance, errs: errs, log: log},
		Member:     &MemberHandler{memberService: services.Members, roleService: services.Roles, errs: errs},
	}
}

// ============================================
// Error Mapping
// ============================================

type errorResponder struct {
	production bool
	log        *zerolog.Logger
}

func statusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindGeofence:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// checkInStatusFor surfaces only the geofence, duplicate, missing event and
// missing RSVP outcomes. Anything else is a server failure.
func checkInStatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrTooFar):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return http.StatusConflict
	case errors.Is(err, service.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotRsvped):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respond writes err with its mapped status. Client errors carry their own
// message; everything else gets fallback, with details outside production.
func (r *errorResponder) respond(c *gin.Context, err error, fallback string) {
	r.write(c, err, statusFor(err), fallback)
}

func (r *errorResponder) respondCheckIn(c *gin.Context, err error) {
	r.write(c, err, checkInStatusFor(err), "Failed to check in")
}

func (r *errorResponder) write(c *gin.Context, err error, status int, fallback string) {
	body := models.ErrorResponse{Error: err.Error()}

	var tooFar *service.TooFarError
	if errors.As(err, &tooFar) {
		d := tooFar.Distance
		body.Distance = &d
	}
	if reason := auth.Reason(err); reason != "" {
		body.Reason = reason
	}

	if status == http.StatusInternalServerError {
		r.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("[API] " + fallback)
		body.Error = fallback
		if !r.production {
			body.Details = err.Error()
		}
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// ============================================
// Response Mappers
// ============================================

func toEventResponse(e *repository.Event) models.EventResponse {
	return models.EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		Date:        e.Date.Format(time.DateOnly),
		Time:        e.Time,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		Hours:       e.Hours.String(),
		HoursType:   e.HoursType,
		RsvpCount:   len(e.Rsvped),
		Attending:   len(e.Attending),
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toMemberResponse(m *repository.Member) models.MemberResponse {
	return models.MemberResponse{
		ID:                m.ID,
		Email:             m.Email,
		Name:              m.Name,
		Rank:              m.Rank,
		DevelopmentHours:  m.HoursFor(types.HoursDevelopment).String(),
		ProfessionalHours: m.HoursFor(types.HoursProfessional).String(),
		ServiceHours:      m.HoursFor(types.HoursService).String(),
		SocialHours:       m.HoursFor(types.HoursSocial).String(),
	}
}

// Helper to ensure nil slices become empty slices
func safeStringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
