package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/Norgate-AV/wcc/internal/build"
	"github.com/Norgate-AV/wcc/internal/logfields"
	"github.com/Norgate-AV/wcc/internal/metrics"
)

// DefaultInterval is the poll tick between pending-flag checks
const DefaultInterval = 200 * time.Millisecond

// stopTimeout bounds how long gocron waits for the poll job on shutdown;
// Run still waits for a running cycle after that
const stopTimeout = time.Minute

// State is the scheduler's observable state
type State int

const (
	StateIdle State = iota
	StatePendingChange
	StateBuilding
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingChange:
		return "pending"
	case StateBuilding:
		return "building"
	default:
		return "unknown"
	}
}

// Builder runs one build cycle
type Builder interface {
	Cycle(ctx context.Context) *build.Result
}

// Matcher decides whether a changed path is watched
type Matcher interface {
	Matches(path string) bool
}

// Scheduler is a single-flight rebuild loop. pending and inProgress are the
// only state shared between event delivery and the poll tick; every
// transition is a single atomic operation.
type Scheduler struct {
	builder  Builder
	matcher  Matcher
	interval time.Duration
	logger   *slog.Logger
	recorder metrics.Recorder

	pending    atomic.Bool
	inProgress atomic.Bool
	cycles     atomic.Int64
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithInterval sets the poll tick
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Scheduler) {
		s.recorder = r
	}
}

// NewScheduler creates a Scheduler. The pending flag starts set so the first
// tick performs an initial build.
func NewScheduler(builder Builder, matcher Matcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		builder:  builder,
		matcher:  matcher,
		interval: DefaultInterval,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}

	for _, opt := range opts {
		opt(s)
	}

	s.pending.Store(true)

	return s
}

// Interval returns the poll tick
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Cycles returns how many build cycles have been started
func (s *Scheduler) Cycles() int64 {
	return s.cycles.Load()
}

// State reports the current state
func (s *Scheduler) State() State {
	switch {
	case s.inProgress.Load():
		return StateBuilding
	case s.pending.Load():
		return StatePendingChange
	default:
		return StateIdle
	}
}

// Notify records a file-system event. It returns true when the path matched
// the watch pattern and a build is now pending.
func (s *Scheduler) Notify(ev Event) bool {
	if !s.matcher.Matches(ev.Path) {
		s.logger.Debug("ignoring unwatched path", logfields.Path(ev.Path), logfields.Op(string(ev.Op)))
		return false
	}

	s.logger.Info("file is "+ev.Op.verb(), logfields.Path(ev.Path))
	s.MarkChanged()

	return true
}

// MarkChanged sets the pending flag
func (s *Scheduler) MarkChanged() {
	s.pending.Store(true)
}

// Poll is one tick of the loop. It starts a build cycle when a change is
// pending and no cycle is running, and blocks until that cycle completes.
// It returns true when a cycle ran.
func (s *Scheduler) Poll(ctx context.Context) bool {
	// idle ticks never enter Building
	if !s.pending.Load() {
		return false
	}

	if !s.inProgress.CompareAndSwap(false, true) {
		return false
	}
	defer s.inProgress.Store(false)

	// cleared before the build so events during the build re-arm it
	if !s.pending.CompareAndSwap(true, false) {
		return false
	}

	s.cycles.Add(1)
	s.recorder.IncTrigger()
	s.runCycle(ctx)

	return true
}

func (s *Scheduler) runCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("build error", slog.Any("panic", r))
		}
	}()

	result := s.builder.Cycle(ctx)
	if result == nil {
		return
	}

	if err := result.Failure(); err != nil {
		s.logger.Debug("build cycle failed", logfields.Error(err))
	}
}

// Run polls on the configured interval and feeds events into the scheduler
// until ctx is canceled or events is closed. A cycle that is running at that
// point is waited for before Run returns.
func (s *Scheduler) Run(ctx context.Context, events <-chan Event) error {
	cron, err := gocron.NewScheduler(gocron.WithStopTimeout(stopTimeout))
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	_, err = cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Poll(ctx) }),
		gocron.WithName("wcc-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = cron.Shutdown()
		return fmt.Errorf("failed to create poll job: %w", err)
	}

	s.logger.Info("watching for changes", slog.Duration("interval", s.interval))
	cron.Start()

	defer func() {
		if err := cron.Shutdown(); err != nil {
			s.logger.Warn("scheduler shutdown", logfields.Error(err))
		}

		s.waitIdle()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}

			s.Notify(ev)
		}
	}
}

// waitIdle blocks until no build cycle is running
func (s *Scheduler) waitIdle() {
	if !s.inProgress.Load() {
		return
	}

	s.logger.Info("waiting for running build to finish")

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for s.inProgress.Load() {
		<-ticker.C
	}
}
