package build

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Norgate-AV/wcc/internal/cache"
	"github.com/Norgate-AV/wcc/internal/codes"
	"github.com/Norgate-AV/wcc/internal/compiler"
	"github.com/Norgate-AV/wcc/internal/config"
	"github.com/Norgate-AV/wcc/internal/logfields"
	"github.com/Norgate-AV/wcc/internal/metrics"
)

// Builder runs build cycles for one configuration
type Builder struct {
	cfg      *config.Config
	cache    *cache.Cache
	commands *compiler.CommandBuilder
	logger   *slog.Logger
	recorder metrics.Recorder

	// mu serializes cycles; the build directory has a single writer
	mu sync.Mutex
}

// Option configures a Builder
type Option func(*Builder)

// WithCommandBuilder sets the toolchain runner
func WithCommandBuilder(cb *compiler.CommandBuilder) Option {
	return func(b *Builder) {
		b.commands = cb
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		b.recorder = r
	}
}

// New creates a Builder for cfg
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		cache:    cache.New(cfg.BuildDir, cfg.Output),
		commands: compiler.NewCommandBuilder(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Cycle runs one build cycle to completion. Toolchain processes are never
// interrupted; ctx is only checked before the cycle starts. Failures are
// reported through the Result, never by panicking or aborting the caller.
func (b *Builder) Cycle(ctx context.Context) *Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	result := &Result{ID: uuid.NewString()}
	log := b.logger.With(logfields.Cycle(result.ID))

	defer func() {
		b.recorder.ObserveCycleDuration(time.Since(start))
		b.recorder.IncCycleOutcome(outcome(result))
	}()

	if err := ctx.Err(); err != nil {
		result.Unexpected = err
		return result
	}

	if err := b.cache.EnsureDir(); err != nil {
		b.buildError(log, result, err)
		return result
	}

	outputExists := b.cache.OutputExists()

	b.compile(log, result)

	result.Decision = Gate(result.Failed, result.Changed, outputExists)

	switch result.Decision {
	case DecisionSkipFailed:
		log.Warn("link skipped: compile errors",
			slog.Int("failed", result.Failed),
			slog.Int("units", len(result.Units)))

	case DecisionSkipNoop:
		log.Info("binary not affected", logfields.Output(b.cache.OutputPath()))

	case DecisionLink:
		b.link(log, result)
	}

	return result
}

// compile fans out one compiler process per source and waits for all of them
func (b *Builder) compile(log *slog.Logger, result *Result) {
	start := time.Now()
	units := make([]Unit, len(b.cfg.Sources))

	var wg sync.WaitGroup
	for i, source := range b.cfg.Sources {
		wg.Go(func() {
			units[i] = b.compileUnit(log, source)
		})
	}
	wg.Wait()

	result.Units = units
	result.CompileDuration = time.Since(start)

	for i := range units {
		u := &units[i]

		switch {
		case u.Failed():
			result.Failed++
			b.recorder.IncUnitResult(metrics.UnitFailed)
		case u.Changed:
			b.recorder.IncUnitResult(metrics.UnitChanged)
		default:
			b.recorder.IncUnitResult(metrics.UnitUnchanged)
		}

		if u.Changed {
			result.Changed = true
		}
	}

	b.recorder.ObserveStageDuration(metrics.StageCompile, result.CompileDuration)
	log.Info("all files compiled",
		logfields.DurationMS(result.CompileDuration.Milliseconds()),
		slog.Int("units", len(units)),
		slog.Int("failed", result.Failed),
		slog.Bool("changed", result.Changed))
}

func (b *Builder) compileUnit(log *slog.Logger, source string) Unit {
	u := Unit{
		Source: source,
		Object: b.cache.ObjectPath(source),
	}

	prior, err := cache.Probe(u.Object)
	if err != nil {
		log.Warn("previous object unreadable, treating unit as changed",
			logfields.Source(source), logfields.Error(err))
	}

	u.Prior = prior

	sc := compiler.GetCompileCommand(b.cfg, source, u.Object)
	if b.cfg.Verbose {
		log.Info("command", logfields.Stage(metrics.StageCompile), logfields.Source(source), slog.String("command", sc.String()))
	}

	u.ExitCode, u.Err = b.commands.ExecuteCommand(sc)

	switch {
	case u.Err != nil:
		log.Error("compiler could not be started",
			logfields.Source(source), logfields.Error(u.Err))
	case !codes.IsSuccess(u.ExitCode):
		log.Error("compile failed",
			logfields.Source(source),
			logfields.ExitCode(u.ExitCode),
			slog.String("reason", codes.GetErrorMessage(u.ExitCode)))
	}

	fresh, err := cache.Probe(u.Object)
	if err != nil {
		log.Error("compiled object unreadable",
			logfields.Object(u.Object), logfields.Error(err))
	} else if fresh == nil {
		log.Error("expected output not found",
			logfields.Source(source), logfields.Object(u.Object))
	}

	u.Fresh = fresh
	u.Changed = cache.Changed(prior, fresh)

	if u.Changed && prior != nil && fresh != nil {
		log.Debug("object changed",
			logfields.Object(u.Object),
			slog.String("from", prior.Digest()),
			slog.String("to", fresh.Digest()))
	}

	return u
}

// link runs the linker over every object of this cycle, in source order
func (b *Builder) link(log *slog.Logger, result *Result) {
	start := time.Now()

	sc := compiler.GetLinkCommand(b.cfg, result.Objects())
	if b.cfg.Verbose {
		log.Info("command", logfields.Stage(metrics.StageLink), slog.String("command", sc.String()))
	}

	code, err := b.commands.ExecuteCommand(sc)
	result.LinkExitCode = &code
	result.LinkDuration = time.Since(start)
	b.recorder.ObserveStageDuration(metrics.StageLink, result.LinkDuration)

	switch {
	case err != nil:
		log.Error("linker could not be started", logfields.Error(err))
	case !codes.IsSuccess(code):
		log.Error("link failed",
			logfields.Output(b.cache.OutputPath()),
			logfields.ExitCode(code),
			slog.String("reason", codes.GetErrorMessage(code)))
	default:
		log.Info("binary linked",
			logfields.Output(b.cache.OutputPath()),
			logfields.DurationMS(result.LinkDuration.Milliseconds()))
	}
}

func (b *Builder) buildError(log *slog.Logger, result *Result, err error) {
	result.Unexpected = fmt.Errorf("prepare build directory: %w", err)
	log.Error("build error", logfields.Error(result.Unexpected))
}

func outcome(r *Result) metrics.Outcome {
	switch {
	case r.Unexpected != nil:
		return metrics.OutcomeError
	case r.Failed > 0:
		return metrics.OutcomeCompileFailed
	case r.LinkExitCode == nil:
		return metrics.OutcomeNoop
	case r.Linked():
		return metrics.OutcomeLinked
	default:
		return metrics.OutcomeLinkFailed
	}
}
