package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Marga-Ghale/org-portal-backend/internal/api/middleware"
	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/models"
	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Reported GPS accuracy above this many meters is logged but accepted.
const lowAccuracyThreshold = 100.0

type AttendanceHandler struct {
	attendanceService service.AttendanceService
	errs              *errorResponder
	log               *zerolog.Logger
}

// Rsvp records the caller's RSVP. An elevated caller may pass an email to
// RSVP on someone else's behalf.
func (h *AttendanceHandler) Rsvp(c *gin.Context) {
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	var req models.RsvpRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	userID := principal.Subject
	if req.Email != "" {
		role := middleware.GetRole(c)
		if !auth.Satisfies(auth.CapabilityElevated, role) {
			h.errs.respond(c, &auth.ForbiddenError{Required: auth.CapabilityElevated, Actual: role}, "")
			return
		}
		id, err := h.attendanceService.ResolveUserID(c.Request.Context(), req.Email)
		if err != nil {
			h.errs.respond(c, err, "Failed to resolve user")
			return
		}
		userID = id
	}

	if err := h.attendanceService.Rsvp(c.Request.Context(), eventID, userID); err != nil {
		h.errs.respond(c, err, "Failed to RSVP")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "RSVP successful"})
}

func (h *AttendanceHandler) UnRsvp(c *gin.Context) {
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	if err := h.attendanceService.UnRsvp(c.Request.Context(), eventID, principal.Subject); err != nil {
		h.errs.respond(c, err, "Failed to remove RSVP")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "RSVP removed"})
}

func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipal(c)

	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "latitude and longitude are required")
		return
	}
	if req.Accuracy != nil && *req.Accuracy > lowAccuracyThreshold {
		h.log.Warn().
			Int64("event_id", eventID).
			Str("user_id", principal.Subject).
			Float64("accuracy_m", *req.Accuracy).
			Msg("[Attendance] Low location accuracy on check-in")
	}

	result, err := h.attendanceService.CheckIn(c.Request.Context(), service.CheckInRequest{
		EventID:   eventID,
		UserID:    principal.Subject,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		h.errs.respondCheckIn(c, err)
		return
	}

	c.JSON(http.StatusOK, models.CheckInResponse{
		Message:       "Checked in successfully",
		EventID:       result.EventID,
		HoursType:     string(result.HoursType),
		HoursCredited: result.HoursCredited.String(),
		NewTotal:      result.NewTotal.String(),
		Distance:      result.Distance,
	})
}

func (h *AttendanceHandler) AddMemberAttending(c *gin.Context) {
	var req models.MemberAttendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.attendanceService.AddMemberAttending(c.Request.Context(), req.EventID, req.UserEmail); err != nil {
		h.errs.respond(c, err, "Failed to add member")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Member marked as attending"})
}

func (h *AttendanceHandler) RemoveMemberAttending(c *gin.Context) {
	var req models.MemberAttendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.attendanceService.RemoveMemberAttending(c.Request.Context(), req.EventID, req.UserEmail); err != nil {
		h.errs.respond(c, err, "Failed to remove member")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Member removed from attendance"})
}

func (h *AttendanceHandler) Attendance(c *gin.Context) {
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	sets, err := h.attendanceService.Attendance(c.Request.Context(), eventID)
	if err != nil {
		h.errs.respond(c, err, "Failed to fetch attendance")
		return
	}
	c.JSON(http.StatusOK, models.AttendanceResponse{
		EventID:   sets.EventID,
		Rsvped:    safeStringSlice(sets.Rsvped),
		Attending: safeStringSlice(sets.Attending),
	})
}
