package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdg-garage/career-fair-api/internal/form"
	"github.com/gdg-garage/career-fair-api/internal/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron"
)

// Session is one browser's registration form.
type Session struct {
	ID      string
	Form    *form.Form
	Notices *Notices

	lastSeen time.Time
}

// Manager holds the live form sessions in memory. Idle sessions are dropped
// by Purge, which Start schedules.
type Manager struct {
	catalog *form.Catalog
	store   form.Store
	log     logger.Logger
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	cron     *cron.Cron
}

func NewManager(catalog *form.Catalog, store form.Store, log logger.Logger, ttl time.Duration) *Manager {
	return &Manager{
		catalog:  catalog,
		store:    store,
		log:      log,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Create() *Session {
	notices := &Notices{}
	s := &Session{
		ID:       uuid.NewString(),
		Notices:  notices,
		lastSeen: m.now(),
	}
	s.Form = form.New(m.catalog, m.store, notices, m.log.WithFields(map[string]interface{}{"session": s.ID}))

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Debugf("form session %s created", s.ID)
	return s
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Purge drops sessions idle for longer than the ttl. Sessions with a
// submission in flight are kept.
func (m *Manager) Purge() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	purged := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) && !s.Form.Busy() {
			delete(m.sessions, id)
			purged++
		}
	}
	return purged
}

// Start runs Purge on the given cron schedule, e.g. "@every 10m".
func (m *Manager) Start(schedule string) error {
	c := cron.New()
	err := c.AddFunc(schedule, func() {
		if n := m.Purge(); n > 0 {
			m.log.Infof("purged %d idle form sessions", n)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	c.Start()

	m.mu.Lock()
	m.cron = c
	m.mu.Unlock()
	return nil
}

func (m *Manager) Stop() {
	m.mu.Lock()
	c := m.cron
	m.cron = nil
	m.mu.Unlock()
	if c != nil {
		c.Stop()
	}
}
