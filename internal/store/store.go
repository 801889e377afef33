package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"BreakoutScope/internal/model"
)

// Producer computes a fresh result set.
type Producer func(ctx context.Context) (*model.ResultSet, error)

// Store holds the latest complete result set. Readers never block and never
// observe a partial result; a single writer swaps in complete results only.
type Store struct {
	current atomic.Pointer[model.ResultSet]

	mu       sync.Mutex // serializes refreshes and guards status
	status   model.RefreshStatus
	filePath string
	log      zerolog.Logger
	now      func() time.Time
}

// New creates a Store. When filePath is non-empty the last-good result is
// loaded from it and every successful refresh is persisted back.
func New(filePath string, log zerolog.Logger) (*Store, error) {
	s := &Store{filePath: filePath, log: log, now: time.Now}
	if filePath == "" {
		return s, nil
	}
	rs, err := LoadSnapshot(filePath)
	if err != nil {
		return nil, err
	}
	if rs != nil {
		s.current.Store(rs)
		s.status.LastSuccess = rs.ComputedAt
		log.Info().
			Str("path", filePath).
			Time("computed_at", rs.ComputedAt).
			Int("signals", rs.SignalCount()).
			Msg("snapshot loaded")
	}
	return s, nil
}

// Current returns the visible result set, or nil before the first success.
func (s *Store) Current() *model.ResultSet {
	return s.current.Load()
}

// Status returns a copy of the refresh status.
func (s *Store) Status() model.RefreshStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Refresh runs produce and, on success, replaces the visible result. On
// failure the previous result stays visible and the failure is recorded in
// the status. Concurrent calls are serialized.
func (s *Store) Refresh(ctx context.Context, produce Producer) (*model.ResultSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rs, err := produce(ctx)
	if err == nil && rs == nil {
		err = errors.New("producer returned no result")
	}
	if err != nil {
		s.status.LastFailure = s.now()
		s.status.LastError = err.Error()
		s.status.Failures++
		return nil, err
	}

	s.current.Store(rs)
	s.status.LastSuccess = s.now()
	s.status.LastError = ""
	s.status.Failures = 0

	if s.filePath != "" {
		if err := SaveSnapshot(s.filePath, rs); err != nil {
			s.log.Error().Err(err).Str("path", s.filePath).Msg("failed to save snapshot")
		}
	}
	return rs, nil
}
