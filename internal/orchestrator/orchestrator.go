// Package orchestrator drives the planning, execution, and reflection
// state machine over a single session. It owns the session for the
// lifetime of one Process call, enforces the iteration bound, and notifies
// observers of lifecycle transitions.
package orchestrator

import (
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/ponder-agent/ponder/internal/complexity"
	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/events"
	"github.com/ponder-agent/ponder/internal/guardrail"
	"github.com/ponder-agent/ponder/internal/pacing"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/reflection"
	"github.com/ponder-agent/ponder/internal/session"
)

// Orchestrator coordinates the analyzer, generator, validator, and
// reflection engine through the thinking → executing → reflecting state
// machine. Sessions are created per Process call and never shared; the
// only state shared across calls is the active configuration, guarded by
// a read-write mutex with last-write-wins update semantics.
type Orchestrator struct {
	analyzer  *complexity.Analyzer
	generator *plan.Generator
	validator *guardrail.Validator
	reflector *reflection.Engine
	finalizer *Finalizer
	bus       events.EventBus
	logger    *slog.Logger
	tracer    trace.Tracer

	mu  sync.RWMutex
	cfg config.Config
}

// Option is a functional option for configuring the Orchestrator.
type Option func(*Orchestrator)

// WithConfig sets the initial active configuration.
func WithConfig(cfg config.Config) Option {
	return func(o *Orchestrator) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger for orchestration operations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer sets the OpenTelemetry tracer for process spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithEventBus sets the bus lifecycle notifications are published to.
func WithEventBus(bus events.EventBus) Option {
	return func(o *Orchestrator) {
		if bus != nil {
			o.bus = bus
		}
	}
}

// WithPacer sets the pacer used for thinking-time delays in planning and
// reflection. Tests pass pacing.Zero() for deterministic runs.
func WithPacer(p pacing.Pacer) Option {
	return func(o *Orchestrator) {
		if p == nil {
			return
		}
		o.generator = plan.NewGenerator(plan.WithPacer(p), plan.WithLogger(o.logger))
		o.reflector = reflection.NewEngine(reflection.WithPacer(p), reflection.WithLogger(o.logger))
	}
}

// New creates an Orchestrator with the default medium-effort configuration.
// Options are applied in order, so WithLogger should precede WithPacer when
// both are used.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		analyzer:  complexity.NewAnalyzer(),
		validator: guardrail.NewValidator(),
		logger:    slog.Default(),
		tracer:    noop.NewTracerProvider().Tracer("orchestrator"),
		cfg:       config.Default(),
	}

	for _, opt := range options {
		opt(o)
	}

	if o.generator == nil {
		o.generator = plan.NewGenerator(plan.WithLogger(o.logger))
	}
	if o.reflector == nil {
		o.reflector = reflection.NewEngine(reflection.WithLogger(o.logger))
	}
	o.finalizer = NewFinalizer()

	return o
}

// UpdateConfig applies a partial reconfiguration to the active
// configuration. Only recognized keys take effect and unknown effort names
// are ignored silently. The change is visible to sessions started after the
// update returns; in-flight sessions keep their snapshot.
func (o *Orchestrator) UpdateConfig(p config.Partial) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cfg = o.cfg.Apply(p)
}

// StatusSnapshot is a point-in-time view of the active configuration.
type StatusSnapshot struct {
	Effort           config.Effort `json:"effort"`
	MaxIterations    int           `json:"max_iterations"`
	EnableReflection bool          `json:"enable_reflection"`
	EnablePlanning   bool          `json:"enable_planning"`
	CurrentConfig    config.Config `json:"current_config"`
}

// Status returns a snapshot of the active configuration. No side effects.
func (o *Orchestrator) Status() StatusSnapshot {
	cfg := o.snapshotConfig()
	return StatusSnapshot{
		Effort:           cfg.Effort,
		MaxIterations:    cfg.MaxIterations,
		EnableReflection: cfg.EnableReflection,
		EnablePlanning:   cfg.EnablePlanning,
		CurrentConfig:    cfg,
	}
}

// snapshotConfig returns the active configuration by value.
func (o *Orchestrator) snapshotConfig() config.Config {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.cfg
}

// shouldReflect decides whether the reflection phase runs: reflection must
// be enabled and the session must show errors, a large action list, or
// elevated complexity.
func shouldReflect(cfg config.Config, s *session.Session) bool {
	if !cfg.EnableReflection {
		return false
	}
	if s.HasErrors() {
		return true
	}
	if len(s.Actions) > 5 {
		return true
	}
	return s.Complexity != nil && s.Complexity.Level.IsElevated()
}
