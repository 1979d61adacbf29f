package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "cadferias",
	Subsystem: "session",
	Name:      "active",
	Help:      "Sessions currently held in memory.",
})

type StoreOptions struct {
	IdleTTL time.Duration
	Logger  *logrus.Logger
	Now     func() time.Time
}

type Store struct {
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(opts StoreOptions) *Store {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Store{
		ttl:      opts.IdleTTL,
		logger:   opts.Logger,
		now:      opts.Now,
		sessions: map[string]*Session{},
	}
}

func (s *Store) Create() *Session {
	sess := newSession(uuid.NewString(), s.now())
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	activeSessions.Set(float64(n))
	return sess
}

// Get returns a live session and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(sess.idleSince()) > s.ttl {
		s.Delete(id)
		return nil, false
	}
	sess.touch(now)
	return sess, true
}

// Lookup returns the session without touching it.
func (s *Store) Lookup(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	if ok {
		sess.Close()
		activeSessions.Set(float64(n))
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep closes every session idle for longer than the TTL and returns how
// many were removed.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	expired := make([]*Session, 0)
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Close()
	}
	activeSessions.Set(float64(n))
	return len(expired)
}

// Run sweeps on every tick until ctx is done, then closes all sessions.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.WithField("expired", n).Info("sessions swept")
			}
		}
	}
}

func (s *Store) closeAll() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = map[string]*Session{}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
	activeSessions.Set(0)
}
