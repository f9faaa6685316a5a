package service

import (
	"sync"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/logger"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/repository/memory"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/shopspring/decimal"
)

const (
	eventLat = 33.4255
	eventLon = -111.9400
	// ~46 m north of the event.
	nearLat = 33.42591
	// ~56 m north of the event.
	farLat = 33.4260
	// ~46.4 m west of the event.
	nearLon = -111.9405
)

type publishedUpdate struct {
	EventID   int64
	Action    string
	UserID    string
	Rsvps     int
	Attending int
}

type recordingPublisher struct {
	mu      sync.Mutex
	updates []publishedUpdate
}

func (p *recordingPublisher) AttendanceUpdated(eventID int64, action, userID string, rsvpCount, attendingCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, publishedUpdate{eventID, action, userID, rsvpCount, attendingCount})
}

func (p *recordingPublisher) Updates() []publishedUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedUpdate(nil), p.updates...)
}

type fixture struct {
	db        *memory.DB
	publisher *recordingPublisher
	svc       AttendanceService
	event     *repository.Event
	member    *repository.Member
}

// newFixture seeds one service event worth 3 hours and one member, linked to
// user u-1, who already holds 2 service hours.
func newFixture() *fixture {
	db := memory.New()
	repos := db.Repositories()
	publisher := &recordingPublisher{}

	event := db.PutEvent(&repository.Event{
		Name:      "Park cleanup",
		Date:      time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		Latitude:  eventLat,
		Longitude: eventLon,
		Hours:     decimal.NewFromInt(3),
		HoursType: string(types.HoursService),
		Rsvped:    []string{},
		Attending: []string{},
	})
	member := db.PutMember(&repository.Member{
		Email: "ana@example.edu",
		Name:  "Ana",
		Rank:  types.RankActive,
		Hours: map[types.HoursType]decimal.Decimal{types.HoursService: decimal.NewFromInt(2)},
	})
	db.PutUser("u-1", "ana@example.edu")

	svc := NewAttendanceService(repos.Store, repos.EventRepo, repos.UserRepo, 50, publisher, nil, logger.Nop())
	return &fixture{db: db, publisher: publisher, svc: svc, event: event, member: member}
}
