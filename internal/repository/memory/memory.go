// Package memory is an in-process implementation of the repository
// interfaces. WithTx holds a single lock for the whole transaction and
// restores a snapshot when fn fails, matching the rollback behavior of the
// Postgres store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Marga-Ghale/org-portal-backend/internal/repository"
	"github.com/Marga-Ghale/org-portal-backend/internal/types"
)

type DB struct {
	mu      sync.Mutex
	nextID  int64
	events  map[int64]*repository.Event
	members map[int64]*repository.Member
	users   map[string]*repository.User
	roles   map[string]string
}

func New() *DB {
	return &DB{
		events:  make(map[int64]*repository.Event),
		members: make(map[int64]*repository.Member),
		users:   make(map[string]*repository.User),
		roles:   make(map[string]string),
	}
}

// Repositories wires every repository to this DB.
func (db *DB) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Store:      db,
		EventRepo:  eventRepo{db},
		MemberRepo: memberRepo{db},
		RoleRepo:   roleRepo{db},
		UserRepo:   userRepo{db},
	}
}

// ============================================
// Seeding helpers
// ============================================

func (db *DB) PutEvent(e *repository.Event) *repository.Event {
	db.mu.Lock()
	defer db.mu.Unlock()
	if e.ID == 0 {
		db.nextID++
		e.ID = db.nextID
	}
	db.events[e.ID] = e.Clone()
	return e
}

func (db *DB) PutMember(m *repository.Member) *repository.Member {
	db.mu.Lock()
	defer db.mu.Unlock()
	if m.ID == 0 {
		db.nextID++
		m.ID = db.nextID
	}
	db.members[m.ID] = m.Clone()
	return m
}

func (db *DB) PutUser(id, email string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[id] = &repository.User{ID: id, Email: email, CreatedAt: time.Now()}
}

func (db *DB) PutRole(email, role string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.roles[email] = role
}

// Event returns a copy of the stored event, nil when absent.
func (db *DB) Event(id int64) *repository.Event {
	db.mu.Lock()
	defer db.mu.Unlock()
	if e, ok := db.events[id]; ok {
		return e.Clone()
	}
	return nil
}

// Member returns a copy of the stored member, nil when absent.
func (db *DB) Member(id int64) *repository.Member {
	db.mu.Lock()
	defer db.mu.Unlock()
	if m, ok := db.members[id]; ok {
		return m.Clone()
	}
	return nil
}

// ============================================
// Store
// ============================================

func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	events := make(map[int64]*repository.Event, len(db.events))
	for id, e := range db.events {
		events[id] = e.Clone()
	}
	members := make(map[int64]*repository.Member, len(db.members))
	for id, m := range db.members {
		members[id] = m.Clone()
	}

	if err := fn(ctx, &tx{db: db}); err != nil {
		db.events = events
		db.members = members
		return err
	}
	return nil
}

// tx runs with db.mu already held.
type tx struct {
	db *DB
}

func (t *tx) LockEvent(_ context.Context, id int64) (*repository.Event, error) {
	if e, ok := t.db.events[id]; ok {
		return e.Clone(), nil
	}
	return nil, nil
}

func (t *tx) SaveEventSets(_ context.Context, e *repository.Event) error {
	stored, ok := t.db.events[e.ID]
	if !ok {
		return repository.ErrNoRows
	}
	updated := stored.Clone()
	updated.Rsvped = append([]string{}, e.Rsvped...)
	updated.Attending = append([]string{}, e.Attending...)
	updated.UpdatedAt = time.Now()
	t.db.events[e.ID] = updated
	e.UpdatedAt = updated.UpdatedAt
	return nil
}

func (t *tx) LockMemberByEmail(_ context.Context, email string) (*repository.Member, error) {
	return t.db.memberByEmail(email), nil
}

func (t *tx) LockMemberByID(_ context.Context, id int64) (*repository.Member, error) {
	if m, ok := t.db.members[id]; ok {
		return m.Clone(), nil
	}
	return nil, nil
}

func (t *tx) FindMemberByEmail(_ context.Context, email string) (*repository.Member, error) {
	return t.db.memberByEmail(email), nil
}

func (t *tx) SaveMemberHours(_ context.Context, m *repository.Member, h types.HoursType) error {
	stored, ok := t.db.members[m.ID]
	if !ok {
		return repository.ErrNoRows
	}
	updated := stored.Clone()
	updated.SetHours(h, m.HoursFor(h))
	updated.UpdatedAt = time.Now()
	t.db.members[m.ID] = updated
	m.UpdatedAt = updated.UpdatedAt
	return nil
}

func (t *tx) FindUserByID(_ context.Context, id string) (*repository.User, error) {
	return t.db.userByID(id), nil
}

func (t *tx) FindUserByEmail(_ context.Context, email string) (*repository.User, error) {
	return t.db.userByEmail(email), nil
}

// ============================================
// Lookups (callers hold db.mu)
// ============================================

func (db *DB) memberByEmail(email string) *repository.Member {
	for _, m := range db.members {
		if m.Email == email {
			return m.Clone()
		}
	}
	return nil
}

func (db *DB) userByID(id string) *repository.User {
	if u, ok := db.users[id]; ok {
		c := *u
		return &c
	}
	return nil
}

func (db *DB) userByEmail(email string) *repository.User {
	for _, u := range db.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c
		}
	}
	return nil
}

// ============================================
// Repositories
// ============================================

type eventRepo struct{ db *DB }

func (r eventRepo) Create(_ context.Context, e *repository.Event) error {
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.Rsvped == nil {
		e.Rsvped = []string{}
	}
	if e.Attending == nil {
		e.Attending = []string{}
	}
	r.db.PutEvent(e)
	return nil
}

func (r eventRepo) FindByID(_ context.Context, id int64) (*repository.Event, error) {
	return r.db.Event(id), nil
}

func (r eventRepo) List(_ context.Context) ([]*repository.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	events := make([]*repository.Event, 0, len(r.db.events))
	for _, e := range r.db.events {
		events = append(events, e.Clone())
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Date.Equal(events[j].Date) {
			return events[i].Date.After(events[j].Date)
		}
		return events[i].ID > events[j].ID
	})
	return events, nil
}

func (r eventRepo) FindByDate(_ context.Context, date time.Time) ([]*repository.Event, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	y, m, d := date.Date()
	var events []*repository.Event
	for _, e := range r.db.events {
		ey, em, ed := e.Date.Date()
		if ey == y && em == m && ed == d {
			events = append(events, e.Clone())
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r eventRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.events[id]; !ok {
		return repository.ErrNoRows
	}
	delete(r.db.events, id)
	return nil
}

type memberRepo struct{ db *DB }

func (r memberRepo) FindByID(_ context.Context, id int64) (*repository.Member, error) {
	return r.db.Member(id), nil
}

func (r memberRepo) FindByEmail(_ context.Context, email string) (*repository.Member, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.memberByEmail(email), nil
}

func (r memberRepo) List(_ context.Context) ([]*repository.Member, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	members := make([]*repository.Member, 0, len(r.db.members))
	for _, m := range r.db.members {
		members = append(members, m.Clone())
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (r memberRepo) ListEmails(_ context.Context) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var emails []string
	for _, m := range r.db.members {
		if m.Rank == types.RankActive {
			emails = append(emails, m.Email)
		}
	}
	sort.Strings(emails)
	return emails, nil
}

func (r memberRepo) Upsert(_ context.Context, m *repository.Member) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	if existing := r.db.memberByEmail(m.Email); existing != nil {
		existing.Name, existing.Rank, existing.UpdatedAt = m.Name, m.Rank, now
		r.db.members[existing.ID] = existing
		m.ID, m.CreatedAt, m.UpdatedAt = existing.ID, existing.CreatedAt, now
		return nil
	}
	r.db.nextID++
	m.ID, m.CreatedAt, m.UpdatedAt = r.db.nextID, now, now
	stored := m.Clone()
	stored.Hours = nil
	r.db.members[m.ID] = stored
	return nil
}

type roleRepo struct{ db *DB }

func (r roleRepo) FindRole(_ context.Context, email string) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.roles[email], nil
}

func (r roleRepo) SetRole(_ context.Context, email, role string) error {
	r.db.PutRole(email, role)
	return nil
}

type userRepo struct{ db *DB }

func (r userRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.userByID(id), nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.userByEmail(email), nil
}

func (r userRepo) Upsert(_ context.Context, u *repository.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if existing, ok := r.db.users[u.ID]; ok {
		u.CreatedAt = existing.CreatedAt
	} else {
		u.CreatedAt = time.Now()
	}
	c := *u
	r.db.users[u.ID] = &c
	return nil
}

func (r userRepo) FindEmails(_ context.Context, ids []string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var emails []string
	for _, id := range ids {
		if u, ok := r.db.users[id]; ok {
			emails = append(emails, u.Email)
		}
	}
	sort.Strings(emails)
	return emails, nil
}
