package handlers

import (
	"net/http"

	"github.com/Marga-Ghale/org-portal-backend/internal/api/middleware"
	"github.com/Marga-Ghale/org-portal-backend/internal/models"
	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService service.EventService
	errs         *errorResponder
}

// List returns all events, newest first
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.eventService.List(c.Request.Context())
	if err != nil {
		h.errs.respond(c, err, "Failed to fetch events")
		return
	}

	response := make([]models.EventResponse, len(events))
	for i, e := range events {
		response[i] = toEventResponse(e)
	}
	c.JSON(http.StatusOK, response)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.errs.respond(c, err, "Failed to fetch event")
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *EventHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), service.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Hours:       req.Hours,
		HoursType:   req.HoursType,
	}, principal.Subject)
	if err != nil {
		h.errs.respond(c, err, "Failed to create event")
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(event))
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.errs.respond(c, err, "Failed to delete event")
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Event deleted"})
}
