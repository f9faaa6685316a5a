package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/logger"
	"github.com/Marga-Ghale/org-portal-backend/internal/models"
	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&service.TooFarError{Distance: 56, Max: 50}, http.StatusUnprocessableEntity},
		{service.ErrAlreadyCheckedIn, http.StatusConflict},
		{service.ErrEventNotFound, http.StatusNotFound},
		{service.ErrNotRsvped, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", service.ErrMemberNotFound), http.StatusNotFound},
		{auth.ErrExpired, http.StatusUnauthorized},
		{&auth.ForbiddenError{Required: auth.CapabilityElevated, Actual: auth.RoleGeneralMember}, http.StatusForbidden},
		{service.ErrUserEmailNotFound, http.StatusInternalServerError},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestCheckInStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&service.TooFarError{Distance: 56, Max: 50}, http.StatusUnprocessableEntity},
		{service.ErrAlreadyCheckedIn, http.StatusConflict},
		{service.ErrEventNotFound, http.StatusNotFound},
		{service.ErrNotRsvped, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", service.ErrInvalidHoursType, "volunteering"), http.StatusInternalServerError},
		{service.ErrMemberNotFound, http.StatusInternalServerError},
		{service.ErrUserEmailNotFound, http.StatusInternalServerError},
		{service.ErrDistanceComputation, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, checkInStatusFor(tt.err))
		})
	}
}

func respondWith(production bool, err error) (int, models.ErrorResponse) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/events/checkin/1", nil)

	(&errorResponder{production: production, log: logger.Nop()}).respond(c, err, "Failed to check in")

	var body models.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w.Code, body
}

func TestRespond(t *testing.T) {
	t.Run("too far carries distance", func(t *testing.T) {
		code, body := respondWith(true, &service.TooFarError{Distance: 55.6, Max: 50})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		require.NotNil(t, body.Distance)
		assert.InDelta(t, 55.6, *body.Distance, 0.001)
		assert.Equal(t, "You are too far from the event (56m away, maximum distance is 50m)", body.Error)
	})

	t.Run("internal details outside production", func(t *testing.T) {
		code, body := respondWith(false, errors.New("pq: relation missing"))
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Failed to check in", body.Error)
		assert.Equal(t, "pq: relation missing", body.Details)
	})

	t.Run("internal details hidden in production", func(t *testing.T) {
		_, body := respondWith(true, errors.New("pq: relation missing"))
		assert.Equal(t, "Failed to check in", body.Error)
		assert.Empty(t, body.Details)
	})
}
