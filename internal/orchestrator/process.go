package orchestrator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ponder-agent/ponder/internal/complexity"
	"github.com/ponder-agent/ponder/internal/config"
	"github.com/ponder-agent/ponder/internal/events"
	"github.com/ponder-agent/ponder/internal/plan"
	"github.com/ponder-agent/ponder/internal/session"
	"github.com/ponder-agent/ponder/internal/types"
)

// Request carries one process invocation: the instruction, optional
// caller context, and optional per-call configuration overrides.
type Request struct {
	Input   string
	Context *session.Context
	Config  *config.Partial
}

// Process runs the full state machine for one instruction and returns the
// finalized result. It fails by returning an error: no partial result is
// produced, and observers receive a failure notification with the elapsed
// duration.
//
// Phases run strictly sequentially:
//
//  1. thinking   – complexity analysis, then plan generation when planning
//     is enabled
//  2. executing  – validate candidate actions onto the session, bounded by
//     the configured iteration cap
//  3. reflecting – conditional self-assessment that may adjust the action
//     list, still within the iteration cap
//  4. finalize   – derive confidence and token metrics and assemble the
//     terminal result record
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()

	if req.Input == "" {
		return nil, types.NewError(types.SESSION_INVALID, "input is required")
	}

	cfg := o.snapshotConfig()
	if req.Config != nil {
		cfg = cfg.Apply(*req.Config)
	}

	s := session.New(req.Input, req.Context)

	ctx, span := o.tracer.Start(ctx, "orchestrator.Process")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", s.ID.String()),
		attribute.String("effort", cfg.Effort.String()),
		attribute.Int("max_iterations", cfg.MaxIterations),
	)

	o.publish(ctx, events.Event{
		Type:      events.EventProcessStarted,
		Timestamp: time.Now(),
		SessionID: s.ID,
		Payload: events.ProcessStartedPayload{
			SessionID: s.ID,
			Input:     s.Input,
		},
	})

	o.logger.Info("process starting",
		"session_id", s.ID,
		"effort", cfg.Effort,
		"max_iterations", cfg.MaxIterations,
		"planning", cfg.EnablePlanning,
		"reflection", cfg.EnableReflection,
	)

	candidates, err := o.thinkingPhase(ctx, s, cfg)
	if err != nil {
		return nil, o.fail(ctx, s, span, err, startTime)
	}

	if err := o.executingPhase(ctx, s, cfg, candidates); err != nil {
		return nil, o.fail(ctx, s, span, err, startTime)
	}

	if err := o.reflectingPhase(ctx, s, cfg); err != nil {
		return nil, o.fail(ctx, s, span, err, startTime)
	}

	if s.HasErrors() {
		s.Status = session.StatusCompletedWithErrors
	} else {
		s.Status = session.StatusCompleted
	}

	result := o.finalizer.Finalize(s, cfg, time.Since(startTime))

	o.publish(ctx, events.Event{
		Type:      events.EventProcessCompleted,
		Timestamp: time.Now(),
		SessionID: s.ID,
		Payload: events.ProcessCompletedPayload{
			SessionID:  s.ID,
			Status:     result.Status.String(),
			Confidence: result.Confidence,
			Duration:   result.Duration,
			Result:     result,
		},
	})

	o.logger.Info("process complete",
		"session_id", s.ID,
		"status", result.Status,
		"actions", len(result.Actions),
		"iterations", result.Iterations,
		"confidence", result.Confidence,
		"duration_ms", result.Duration.Milliseconds(),
	)

	span.SetStatus(codes.Ok, "")
	return result, nil
}

// thinkingPhase scores the input and generates the plan when planning is
// enabled. It returns the candidate actions for the executing phase.
func (o *Orchestrator) thinkingPhase(ctx context.Context, s *session.Session, cfg config.Config) ([]plan.Action, error) {
	ctx, span := o.tracer.Start(ctx, "orchestrator.thinking")
	defer span.End()

	s.Status = session.StatusThinking
	o.publishPhase(ctx, s)

	cr := o.analyzer.Analyze(s.Input, complexity.ContextInfo{
		FileCount: s.Context.FileCount(),
	})
	s.Complexity = &cr

	o.logger.Debug("complexity analyzed",
		"session_id", s.ID,
		"score", cr.Score,
		"level", cr.Level,
		"factors", cr.Factors,
	)

	if !cfg.EnablePlanning {
		return plan.DirectActions(s.Input), nil
	}

	p, err := o.generator.Generate(ctx, s.Input, cr, cfg.ThinkingTimeCeiling)
	if err != nil {
		return nil, err
	}
	s.Plan = p

	return p.Actions, nil
}

// executingPhase validates candidate actions onto the session. Invalid
// actions are recorded and skipped; valid ones are accepted with a fresh
// ID at the current iteration. The loop stops quietly once the iteration
// bound is reached, and checks cancellation at the top of each pass.
func (o *Orchestrator) executingPhase(ctx context.Context, s *session.Session, cfg config.Config, candidates []plan.Action) error {
	ctx, span := o.tracer.Start(ctx, "orchestrator.executing")
	defer span.End()

	s.Status = session.StatusExecuting
	o.publishPhase(ctx, s)

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return types.WrapError(types.PROCESS_CANCELLED, "execution interrupted", err)
		}
		if s.Iteration >= cfg.MaxIterations {
			o.logger.Debug("iteration bound reached",
				"session_id", s.ID,
				"bound", cfg.MaxIterations,
			)
			break
		}

		candidate := candidates[i]
		verdict := o.validator.Validate(&candidate)

		for _, warning := range verdict.Warnings {
			o.logger.Warn("action warning",
				"session_id", s.ID,
				"action_type", candidate.Type,
				"warning", warning,
			)
		}

		if !verdict.Valid {
			s.RecordValidationFailure(candidate.Type, verdict.Errors)
			o.publish(ctx, events.Event{
				Type:      events.EventActionRejected,
				Timestamp: time.Now(),
				SessionID: s.ID,
				Payload: events.ActionPayload{
					SessionID:  s.ID,
					ActionType: candidate.Type,
					Tool:       candidate.Tool,
					Iteration:  s.Iteration,
					Errors:     verdict.Errors,
				},
			})
			continue
		}

		o.acceptAction(ctx, s, candidate, plan.SourcePlan)
	}

	return nil
}

// acceptAction appends a validated action to the session with a fresh ID,
// timestamp, and the current iteration, then consumes one iteration slot.
func (o *Orchestrator) acceptAction(ctx context.Context, s *session.Session, candidate plan.Action, source plan.ActionSource) {
	candidate.ID = types.NewID()
	candidate.Timestamp = time.Now()
	candidate.Iteration = s.Iteration
	candidate.Status = plan.ActionStatusPlanned
	candidate.Source = source

	s.Actions = append(s.Actions, candidate)
	s.Iteration++

	o.publish(ctx, events.Event{
		Type:      events.EventActionQueued,
		Timestamp: time.Now(),
		SessionID: s.ID,
		Payload: events.ActionPayload{
			SessionID:  s.ID,
			ActionType: candidate.Type,
			Tool:       candidate.Tool,
			Iteration:  candidate.Iteration,
		},
	})
}

// reflectingPhase runs the conditional self-assessment and applies any
// proposed adjustments in emission order.
func (o *Orchestrator) reflectingPhase(ctx context.Context, s *session.Session, cfg config.Config) error {
	if !shouldReflect(cfg, s) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return types.WrapError(types.PROCESS_CANCELLED, "reflection interrupted", err)
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.reflecting")
	defer span.End()

	s.Status = session.StatusReflecting
	o.publishPhase(ctx, s)

	r, err := o.reflector.Reflect(ctx, s, cfg.ThinkingTimeCeiling)
	if err != nil {
		return err
	}
	s.Reflections = append(s.Reflections, r)

	o.publish(ctx, events.Event{
		Type:      events.EventReflectionLogged,
		Timestamp: time.Now(),
		SessionID: s.ID,
		Attrs: map[string]any{
			"assessment":       string(r.Assessment),
			"confidence":       r.Confidence,
			"needs_adjustment": r.NeedsAdjustment,
		},
	})

	if !r.NeedsAdjustment {
		return nil
	}

	for _, adj := range o.reflector.ProposeAdjustments(s, r) {
		o.applyAdjustment(ctx, s, cfg, adj)
	}

	return nil
}

// applyAdjustment applies one adjustment to the session. Added actions
// consume an iteration slot and are skipped once the bound is reached;
// modify and remove are no-ops when the target ID is unknown.
func (o *Orchestrator) applyAdjustment(ctx context.Context, s *session.Session, cfg config.Config, adj session.Adjustment) {
	switch adj.Kind {
	case session.AdjustAddAction:
		if adj.Action == nil {
			return
		}
		if s.Iteration >= cfg.MaxIterations {
			o.logger.Debug("adjustment dropped at iteration bound",
				"session_id", s.ID,
				"action_type", adj.Action.Type,
			)
			return
		}
		o.acceptAction(ctx, s, *adj.Action, plan.SourceReflection)

	case session.AdjustModifyAction:
		s.PatchAction(adj.ActionID, adj.Patch)

	case session.AdjustRemoveAction:
		s.RemoveAction(adj.ActionID)
	}
}

// fail marks the session failed, notifies observers with the elapsed
// duration, and wraps the error for the caller.
func (o *Orchestrator) fail(ctx context.Context, s *session.Session, span trace.Span, err error, startTime time.Time) error {
	s.Status = session.StatusFailed
	elapsed := time.Since(startTime)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	// The failure event must still reach subscribers when the cause is
	// cancellation of the request context.
	o.publish(context.WithoutCancel(ctx), events.Event{
		Type:      events.EventProcessFailed,
		Timestamp: time.Now(),
		SessionID: s.ID,
		Payload: events.ProcessFailedPayload{
			SessionID: s.ID,
			Error:     err.Error(),
			Duration:  elapsed,
		},
	})

	o.logger.Error("process failed",
		"session_id", s.ID,
		"error", err,
		"duration_ms", elapsed.Milliseconds(),
	)

	if types.CodeOf(err) != "" {
		return err
	}
	return types.WrapError(types.PROCESS_FAILED, "process aborted", err)
}

// publish sends an event when a bus is configured.
func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if o.bus == nil {
		return
	}
	if err := o.bus.Publish(ctx, event); err != nil {
		o.logger.Warn("event publish failed", "event_type", event.Type, "error", err)
	}
}

// publishPhase emits a phase-changed event for the session's current status.
func (o *Orchestrator) publishPhase(ctx context.Context, s *session.Session) {
	o.publish(ctx, events.Event{
		Type:      events.EventPhaseChanged,
		Timestamp: time.Now(),
		SessionID: s.ID,
		Payload: events.PhaseChangedPayload{
			SessionID: s.ID,
			Phase:     s.Status.String(),
			Iteration: s.Iteration,
		},
	})
}
