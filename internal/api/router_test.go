package api

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/api/handlers"
	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/config"
	"github.com/Marga-Ghale/org-portal-backend/internal/logger"
	"github.com/Marga-Ghale/org-portal-backend/internal/metrics"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository/memory"
	"github.com/Marga-Ghale/org-portal-backend/internal/service"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	key    *ecdsa.PrivateKey
	db     *memory.DB
	router *gin.Engine
	event  *repository.Event
	member *repository.Member
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	db := memory.New()
	db.PutUser("u-board", "board@example.edu")
	db.PutUser("u-ana", "ana@example.edu")
	db.PutUser("u-ben", "ben@example.edu")
	db.PutRole("board@example.edu", string(auth.RoleEBoard))
	db.PutRole("ana@example.edu", string(auth.RoleGeneralMember))
	db.PutRole("ben@example.edu", string(auth.RoleGeneralMember))
	member := db.PutMember(&repository.Member{
		Email: "ana@example.edu",
		Name:  "Ana",
		Rank:  types.RankActive,
		Hours: map[types.HoursType]decimal.Decimal{types.HoursService: decimal.NewFromInt(2)},
	})
	db.PutMember(&repository.Member{Email: "ben@example.edu", Name: "Ben", Rank: types.RankActive})
	event := db.PutEvent(&repository.Event{
		Name:      "Park cleanup",
		Date:      time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		Latitude:  33.4255,
		Longitude: -111.9400,
		Hours:     decimal.NewFromInt(3),
		HoursType: string(types.HoursService),
	})

	log := logger.Nop()
	reg := prometheus.NewRegistry()
	services := service.NewServices(&service.ServiceDeps{
		Config:  &config.Config{CheckInMaxDistance: 50, Environment: "development"},
		Repos:   db.Repositories(),
		Metrics: metrics.New(reg),
		Log:     log,
	})

	router := NewRouter(RouterDeps{
		Handlers: handlers.NewHandlers(services, false, log),
		Verifier: auth.NewVerifierWithKey(&key.PublicKey),
		Roles:    services.Roles,
		Gatherer: reg,
		Log:      log,
	})
	return &testServer{t: t, key: key, db: db, router: router, event: event, member: member}
}

func (s *testServer) token(sub, email string) string {
	s.t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(s.key)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func checkinPath(id int64) string {
	return "/api/events/checkin/" + itoa(id)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestCheckInScenario(t *testing.T) {
	s := newTestServer(t)
	ana := s.token("u-ana", "ana@example.edu")
	ben := s.token("u-ben", "ben@example.edu")

	// ~56 m away
	w, body := s.do(http.MethodPost, checkinPath(s.event.ID), ben, map[string]any{"latitude": 33.4260, "longitude": -111.9400})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.InDelta(t, 56, body["distance"], 1)
	assert.Contains(t, body["error"], "maximum distance is 50m")

	// ~46 m away, poor accuracy is accepted
	w, body = s.do(http.MethodPost, checkinPath(s.event.ID), ana, map[string]any{"latitude": 33.42591, "longitude": -111.9400, "accuracy": 150})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "5", body["newTotal"])
	assert.Equal(t, "service", body["hoursType"])

	w, _ = s.do(http.MethodPost, checkinPath(s.event.ID), ana, map[string]any{"latitude": 33.4255, "longitude": -111.9400})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, checkinPath(999), ana, map[string]any{"latitude": 33.4255, "longitude": -111.9400})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, checkinPath(s.event.ID), ana, map[string]any{"latitude": 33.4255})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(http.MethodGet, "/api/members/me", ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", body["serviceHours"])
	assert.Equal(t, "general-member", body["role"])

	assert.Equal(t, []string{"u-ana"}, s.db.Event(s.event.ID).Attending)
}

func TestCheckInServerFailures(t *testing.T) {
	s := newTestServer(t)
	ana := s.token("u-ana", "ana@example.edu")
	board := s.token("u-board", "board@example.edu")
	here := map[string]any{"latitude": 33.4255, "longitude": -111.9400}

	misconfigured := s.db.PutEvent(&repository.Event{
		Name:      "Food drive",
		Date:      time.Date(2025, 4, 19, 0, 0, 0, 0, time.UTC),
		Latitude:  33.4255,
		Longitude: -111.9400,
		Hours:     decimal.NewFromInt(2),
		HoursType: "volunteering",
	})
	w, body := s.do(http.MethodPost, checkinPath(misconfigured.ID), ana, here)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to check in", body["error"])
	assert.Contains(t, body["details"], "volunteering")
	assert.Empty(t, s.db.Event(misconfigured.ID).Attending)

	// e-board account has no member row
	w, body = s.do(http.MethodPost, checkinPath(s.event.ID), board, here)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to check in", body["error"])
	assert.Empty(t, s.db.Event(s.event.ID).Attending)
}

func TestUnRsvpAfterCheckIn(t *testing.T) {
	s := newTestServer(t)
	ana := s.token("u-ana", "ana@example.edu")

	w, _ := s.do(http.MethodPost, "/api/events/rsvp/"+itoa(s.event.ID), ana, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, checkinPath(s.event.ID), ana, map[string]any{"latitude": 33.4255, "longitude": -111.9405})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/api/events/unrsvp/"+itoa(s.event.ID), ana, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, []string{"u-ana"}, s.db.Event(s.event.ID).Rsvped)
}

func TestRsvpRoutes(t *testing.T) {
	s := newTestServer(t)
	ana := s.token("u-ana", "ana@example.edu")
	board := s.token("u-board", "board@example.edu")
	rsvp := "/api/events/rsvp/" + itoa(s.event.ID)
	unrsvp := "/api/events/unrsvp/" + itoa(s.event.ID)

	w, _ := s.do(http.MethodPost, unrsvp, ana, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, rsvp, ana, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, rsvp, ana, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// RSVP on behalf of someone else needs e-board
	w, body := s.do(http.MethodPost, rsvp, ana, map[string]any{"email": "ben@example.edu"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "insufficient_role", body["reason"])
	w, _ = s.do(http.MethodPost, rsvp, board, map[string]any{"email": "ben@example.edu"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Event now tracks RSVPs, so a member without one cannot check in
	w, _ = s.do(http.MethodPost, checkinPath(s.event.ID), board, map[string]any{"latitude": 33.4255, "longitude": -111.9400})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = s.do(http.MethodGet, "/api/events/"+itoa(s.event.ID)+"/attendance", board, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t, []any{"u-ana", "u-ben"}, body["rsvped"])

	w, _ = s.do(http.MethodPost, unrsvp, ana, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	ana := s.token("u-ana", "ana@example.edu")
	board := s.token("u-board", "board@example.edu")
	req := map[string]any{"eventId": s.event.ID, "userEmail": "ana@example.edu"}

	w, _ := s.do(http.MethodPost, "/api/events/add-member-attending", "", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(http.MethodPost, "/api/events/add-member-attending", ana, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "general-member", body["role"])

	w, _ = s.do(http.MethodPost, "/api/events/add-member-attending", board, req)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/events/add-member-attending", board, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(http.MethodPost, "/api/events/delete-member-attending", board, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.db.Event(s.event.ID).Attending)

	w, body = s.do(http.MethodPatch, "/api/members/"+itoa(s.member.ID)+"/hours", board, map[string]any{"hoursType": "service", "delta": "-3"})
	assert.Equal(t, http.StatusBadRequest, w.Code, body)

	w, body = s.do(http.MethodPatch, "/api/members/"+itoa(s.member.ID)+"/hours", board, map[string]any{"hoursType": "social", "delta": "1.5"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.5", body["socialHours"])
}

func TestRoleRoutes(t *testing.T) {
	s := newTestServer(t)
	ana := s.token("u-ana", "ana@example.edu")
	ben := s.token("u-ben", "ben@example.edu")
	board := s.token("u-board", "board@example.edu")
	promote := map[string]any{"email": "ben@example.edu", "role": "e-board"}

	w, _ := s.do(http.MethodPut, "/api/roles", ana, promote)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodGet, "/api/members", ben, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPut, "/api/roles", board, promote)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(http.MethodGet, "/api/members", ben, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPut, "/api/roles", board, map[string]any{"email": "ben@example.edu", "role": "president"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(http.MethodPut, "/api/roles", board, map[string]any{"role": "sponsor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventRoutes(t *testing.T) {
	s := newTestServer(t)
	ana := s.token("u-ana", "ana@example.edu")
	board := s.token("u-board", "board@example.edu")
	create := map[string]any{
		"name":      "Resume workshop",
		"date":      "2025-05-01",
		"latitude":  33.42,
		"longitude": -111.93,
		"hours":     2,
		"hoursType": "professional",
	}

	w, _ := s.do(http.MethodPost, "/api/events", ana, create)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := s.do(http.MethodPost, "/api/events", board, create)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "2025-05-01", body["date"])
	assert.Equal(t, "u-board", body["createdBy"])
	id := int64(body["id"].(float64))

	create["hoursType"] = "volunteering"
	w, _ = s.do(http.MethodPost, "/api/events", board, create)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/events/"+itoa(id), ana, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Bearer "+ana)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w, _ = s.do(http.MethodDelete, "/api/events/"+itoa(id), board, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/api/events/"+itoa(id), ana, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodGet, "/api/events/abc", ana, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])

	ana := s.token("u-ana", "ana@example.edu")
	s.do(http.MethodPost, checkinPath(s.event.ID), ana, map[string]any{"latitude": 33.4255, "longitude": -111.9400})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `org_portal_checkins_total{result="ok"} 1`)
}

func TestHealthReportsDegradedDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	log := logger.Nop()
	services := service.NewServices(&service.ServiceDeps{
		Config:  &config.Config{CheckInMaxDistance: 50},
		Repos:   memory.New().Repositories(),
		Metrics: metrics.New(prometheus.NewRegistry()),
		Log:     log,
	})
	router := NewRouter(RouterDeps{
		Handlers: handlers.NewHandlers(services, false, log),
		Verifier: auth.NewVerifierWithKey(&key.PublicKey),
		Roles:    services.Roles,
		Health: func(context.Context) gin.H {
			return gin.H{"database": "disconnected", "status": "degraded"}
		},
		Log: log,
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "disconnected", body["database"])
}
