package repository

import (
	"slices"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/types"
	"github.com/shopspring/decimal"
)

// ============================================
// Models / Entities
// ============================================

type Event struct {
	ID          int64
	Name        string
	Description string
	Location    string
	Date        time.Time
	Time        string
	Latitude    float64
	Longitude   float64
	Hours       decimal.Decimal
	HoursType   string
	Rsvped      []string
	Attending   []string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (e *Event) HasRsvp(userID string) bool {
	return slices.Contains(e.Rsvped, userID)
}

func (e *Event) IsAttending(userID string) bool {
	return slices.Contains(e.Attending, userID)
}

// Clone returns a copy that does not share the set slices.
func (e *Event) Clone() *Event {
	c := *e
	c.Rsvped = slices.Clone(e.Rsvped)
	c.Attending = slices.Clone(e.Attending)
	return &c
}

type Member struct {
	ID        int64
	Email     string
	Name      string
	Rank      string
	Hours     map[types.HoursType]decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HoursFor returns the counter for h, zero when unset.
func (m *Member) HoursFor(h types.HoursType) decimal.Decimal {
	if m.Hours == nil {
		return decimal.Zero
	}
	return m.Hours[h]
}

func (m *Member) SetHours(h types.HoursType, v decimal.Decimal) {
	if m.Hours == nil {
		m.Hours = make(map[types.HoursType]decimal.Decimal, len(types.ValidHoursTypes))
	}
	m.Hours[h] = v
}

func (m *Member) Clone() *Member {
	c := *m
	c.Hours = make(map[types.HoursType]decimal.Decimal, len(m.Hours))
	for k, v := range m.Hours {
		c.Hours[k] = v
	}
	return &c
}

// User is an identity-provider account, used to map subject ids to emails.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
