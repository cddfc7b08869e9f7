package growthmap

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/nazmulcodes/deshcart-backend/pkg/errors"
	"github.com/nazmulcodes/deshcart-backend/pkg/logger"
	"github.com/nazmulcodes/deshcart-backend/pkg/metrics"
	"github.com/google/uuid"
)

// Session pairs a playback controller with the filter it was created for.
// Every access through the manager refreshes the idle deadline.
type Session struct {
	ID              uuid.UUID
	TimeframeMonths int
	Division        string
	CreatedAt       time.Time

	controller *PlaybackController
	lastUsed   time.Time
}

// Controller exposes the playback state machine behind the session.
func (s *Session) Controller() *PlaybackController {
	return s.controller
}

// SessionManager owns every playback session in the process. Sessions are
// reaped after the idle TTL so abandoned dashboards do not leak tickers.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	idleTTL  time.Duration
	logg     *logger.Logger
	stats    *metrics.GrowthMetrics
	now      func() time.Time
}

func NewSessionManager(idleTTL time.Duration, logg *logger.Logger, stats *metrics.GrowthMetrics) *SessionManager {
	if idleTTL <= 0 {
		idleTTL = 15 * time.Minute
	}
	return &SessionManager{
		sessions: make(map[uuid.UUID]*Session),
		idleTTL:  idleTTL,
		logg:     logg,
		stats:    stats,
		now:      time.Now,
	}
}

// Create registers a new session with the frames already loaded.
func (m *SessionManager) Create(ctx context.Context, frames []AnimationFrame, timeframeMonths int, division string, speed time.Duration) *Session {
	controller := NewPlaybackController(speed)
	controller.Load(frames)

	now := m.now()
	session := &Session{
		ID:              uuid.New(),
		TimeframeMonths: timeframeMonths,
		Division:        division,
		CreatedAt:       now,
		controller:      controller,
		lastUsed:        now,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	count := len(m.sessions)
	m.mu.Unlock()

	m.stats.SetActiveSessions(count)
	if m.logg != nil {
		m.logg.Info(m.logg.WithSessionID(ctx, session.ID.String()), "playback session created")
	}
	return session
}

// Get returns the session and refreshes its idle deadline.
func (m *SessionManager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "playback session not found")
	}
	session.lastUsed = m.now()
	return session, nil
}

// Delete closes the session's controller and drops it.
func (m *SessionManager) Delete(id uuid.UUID) {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if ok {
		session.controller.Close()
		m.stats.SetActiveSessions(count)
	}
}

// ReapIdle closes and removes sessions unused for longer than the idle TTL.
// It returns how many were reaped.
func (m *SessionManager) ReapIdle(ctx context.Context) int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	var expired []*Session
	for id, session := range m.sessions {
		if session.lastUsed.Before(cutoff) {
			expired = append(expired, session)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	for _, session := range expired {
		session.controller.Close()
		if m.logg != nil {
			m.logg.Info(m.logg.WithSessionID(ctx, session.ID.String()), "idle playback session reaped")
		}
	}
	if len(expired) > 0 {
		m.stats.SetActiveSessions(count)
	}
	return len(expired)
}

// Run reaps idle sessions on an interval until the context is canceled.
func (m *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ReapIdle(ctx)
		}
	}
}

// CloseAll tears down every session. Called on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, session := range m.sessions {
		sessions = append(sessions, session)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, session := range sessions {
		session.controller.Close()
	}
	m.stats.SetActiveSessions(0)
}
