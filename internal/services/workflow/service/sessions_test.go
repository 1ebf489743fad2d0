package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "zkcommit/internal/platform/errors"
)

func TestSessionsLifecycle(t *testing.T) {
	fetch, prover := newFakes()
	s := NewSessions(fetch, prover, 0)
	assert.Equal(t, DefaultSessionTTL, s.ttl)

	c := s.Create(testURL)
	_, err := uuid.Parse(c.ID())
	require.NoError(t, err)
	assert.Equal(t, testURL, c.CommitURL())
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)

	other := s.Create("")
	assert.NotEqual(t, c.ID(), other.ID())
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Delete(c.ID()))
	assert.False(t, s.Delete(c.ID()))
	_, err = s.Get(c.ID())
	assert.Equal(t, perr.ErrorCodeNotFound, perr.CodeOf(err))
}

func TestSessionsGetRejectsMalformedID(t *testing.T) {
	fetch, prover := newFakes()
	s := NewSessions(fetch, prover, time.Minute)
	_, err := s.Get("../etc")
	assert.Equal(t, perr.ErrorCodeNotFound, perr.CodeOf(err))
}

func TestSessionsSweepExpiresIdle(t *testing.T) {
	fetch, prover := newFakes()
	s := NewSessions(fetch, prover, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	old := s.Create("")
	now = now.Add(45 * time.Second)
	fresh := s.Create("")
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, s.Sweep())
	_, err := s.Get(old.ID())
	assert.Error(t, err)
	_, err = s.Get(fresh.ID())
	assert.NoError(t, err)

	// Get refreshed fresh, so it survives another partial interval
	now = now.Add(50 * time.Second)
	assert.Zero(t, s.Sweep())
}

func TestSessionsRunStopsOnCancel(t *testing.T) {
	fetch, prover := newFakes()
	s := NewSessions(fetch, prover, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}
