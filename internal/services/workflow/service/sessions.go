package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	perr "zkcommit/internal/platform/errors"
	"zkcommit/internal/platform/logger"
	dom "zkcommit/internal/services/workflow/domain"
)

// DefaultSessionTTL is how long an untouched session survives
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Sessions is an in-memory registry of controllers keyed by uuid. Nothing is persisted.
type Sessions struct {
	mu     sync.Mutex
	items  map[string]*session
	fetch  dom.CommitFetcher
	proofs dom.ProofService
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions builds a registry whose controllers share the given ports
func NewSessions(fetch dom.CommitFetcher, proofs dom.ProofService, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		items:  make(map[string]*session),
		fetch:  fetch,
		proofs: proofs,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create starts a new workflow, optionally seeded with a commit url
func (s *Sessions) Create(commitURL string) *Controller {
	id := uuid.NewString()
	c := NewController(s.fetch, s.proofs, WithID(id), WithCommitURL(commitURL))

	s.mu.Lock()
	s.items[id] = &session{ctrl: c, lastSeen: s.now()}
	s.mu.Unlock()
	return c
}

// Get returns the controller for id and refreshes its idle clock
func (s *Sessions) Get(id string) (*Controller, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, perr.NotFoundf("workflow %q not found", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, perr.NotFoundf("workflow %q not found", id)
	}
	it.lastSeen = s.now()
	return it.ctrl, nil
}

// Delete drops the session; false when it did not exist
func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes sessions idle longer than the ttl and returns how many went.
// Sessions with a call in flight are kept until it completes.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, it := range s.items {
		if it.lastSeen.Before(cutoff) && !it.ctrl.InFlight() {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// Run sweeps on an interval until ctx is done
func (s *Sessions) Run(ctx context.Context) error {
	log := logger.Named("sessions")
	every := max(s.ttl/4, time.Second)
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Int("live", s.Len()).Msg("sessions swept")
			}
		}
	}
}
