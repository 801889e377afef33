package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"BreakoutScope/internal/analysis"
	"BreakoutScope/internal/collector"
	"BreakoutScope/internal/model"
	"BreakoutScope/internal/notifier"
	"BreakoutScope/internal/recorder"
	"BreakoutScope/internal/store"
)

// Refresh stages reported on failure.
const (
	StageCollect   = "collect"
	StageRecompute = "recompute"
	StageTimeout   = "timeout"
)

// Scheduler owns the periodic refresh: collect, recompute, swap, record, notify.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Store     *store.Store
	Notifier  notifier.Sender
	Recorder  recorder.Recorder
	Params    model.Params
	Timeout   time.Duration
	Ctx       context.Context

	log zerolog.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler whose cron entries fire in loc.
func NewScheduler(ctx context.Context, col *collector.Collector, st *store.Store, sender notifier.Sender,
	rec recorder.Recorder, params model.Params, loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	cronLog := log.With().Str("component", "cron").Logger()
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(&cronLog))),
		),
		Collector: col,
		Store:     st,
		Notifier:  sender,
		Recorder:  rec,
		Params:    params,
		Ctx:       ctx,
		log:       log,
		now:       time.Now,
	}
}

// Register schedules the refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RefreshNow runs one refresh cycle. On success the new result is visible
// and recorded; on failure the last-good result stays visible and the
// failure is recorded.
func (s *Scheduler) RefreshNow(ctx context.Context) (*model.ResultSet, error) {
	start := s.now()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	stage := StageCollect
	rs, err := s.Store.Refresh(ctx, func(ctx context.Context) (*model.ResultSet, error) {
		pair, err := s.Collector.Collect(ctx)
		if err != nil {
			return nil, err
		}
		stage = StageRecompute
		rs, err := analysis.Recompute(pair, s.Params, s.now())
		if err != nil {
			return nil, err
		}
		// a result finished after the deadline is discarded
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return rs, nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			stage = StageTimeout
		}
		s.log.Error().Err(err).Str("stage", stage).Msg("refresh failed, keeping last result")
		if rerr := s.Recorder.RecordFailure(&recorder.FailureEvent{
			Timestamp:  s.now(),
			Instrument: s.Collector.Instrument,
			Benchmark:  s.Collector.Benchmark,
			Stage:      stage,
			Message:    err.Error(),
		}); rerr != nil {
			s.log.Error().Err(rerr).Msg("record failure")
		}
		return nil, &RefreshError{Stage: stage, Err: err}
	}

	elapsed := s.now().Sub(start)
	if rs.Insufficient {
		s.log.Warn().Err(analysis.ErrInsufficientHistory).
			Int("days", len(rs.Series)).
			Int("required", s.Params.Window+s.Params.Horizon).
			Msg("no signals detected")
	}
	for _, hs := range rs.Statistics {
		if hs.Error != "" {
			s.log.Warn().Str("checkpoint", hs.Checkpoint.Label).Str("error", hs.Error).Msg("checkpoint has no statistics")
		}
	}
	s.log.Info().
		Int("days", len(rs.Series)).
		Int("signals", rs.SignalCount()).
		Dur("elapsed", elapsed).
		Msg("refresh complete")

	if err := s.Recorder.RecordRun(&recorder.RunRecord{
		Timestamp: rs.ComputedAt,
		Source:    s.Collector.Fetcher.Name(),
		Duration:  elapsed,
		Result:    rs,
	}); err != nil {
		s.log.Error().Err(err).Msg("record run")
	}
	return rs, nil
}

// RefreshError tags a refresh failure with the stage that failed.
type RefreshError struct {
	Stage string
	Err   error
}

func (e *RefreshError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *RefreshError) Unwrap() error { return e.Err }

func (s *Scheduler) refreshTask() {
	s.log.Info().Msg("running scheduled refresh")
	rs, err := s.RefreshNow(s.Ctx)
	if err != nil {
		s.trySend(s.failureMessage(err))
		return
	}
	s.trySend(notifier.FormatSummary(rs))
}

func (s *Scheduler) failureMessage(err error) string {
	var re *RefreshError
	if errors.As(err, &re) {
		return notifier.FormatFailure(re.Stage, re.Err, s.Store.Current())
	}
	return notifier.FormatFailure("refresh", err, s.Store.Current())
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	// "/summary@SomeBot" is how Telegram addresses commands in groups
	cmd, _, _ := strings.Cut(strings.TrimSpace(command), "@")
	switch strings.ToLower(cmd) {
	case "/summary":
		rs := s.Store.Current()
		if rs == nil {
			return notifier.FormatStatus(nil, s.Store.Status())
		}
		return notifier.FormatSummary(rs)
	case "/signals":
		rs := s.Store.Current()
		if rs == nil {
			return notifier.FormatStatus(nil, s.Store.Status())
		}
		return notifier.FormatSignals(rs, 20)
	case "/status":
		return notifier.FormatStatus(s.Store.Current(), s.Store.Status())
	case "/refresh":
		rs, err := s.RefreshNow(ctx)
		if err != nil {
			return s.failureMessage(err)
		}
		return notifier.FormatSummary(rs)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
