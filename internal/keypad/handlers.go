package keypad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"keypad-calculator/internal/calculator"
	"keypad-calculator/internal/handlers"
	"keypad-calculator/internal/observability"
	"keypad-calculator/internal/session"
)

// tracer is the keypad's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("keypad")

// Handler serves the keypad API on top of a session store.
type Handler struct {
	sessions *session.Store
}

// NewHandler returns a Handler backed by sessions.
func NewHandler(sessions *session.Store) *Handler {
	return &Handler{sessions: sessions}
}

// ---------------------------------------------------------------------------
// Handlers — sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "keypad.session.create")
	defer span.End()

	id, st := h.sessions.Create(ctx)
	span.SetAttributes(attribute.String("session.id", id))

	observability.LoggerWithTrace(ctx).Info("calculator session started",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, newSessionResponse(id, st))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "keypad.session.get")
	defer span.End()

	id := chi.URLParam(r, "id")
	st, err := h.sessions.Get(ctx, id)
	if err != nil {
		h.sessionError(ctx, w, span, "get", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, newSessionResponse(id, st))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "keypad.session.delete")
	defer span.End()

	h.sessions.Delete(ctx, chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys — applies every key
// in order. Either all keys are applied or, on an unknown key, none.
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "keypad.session.keys",
		trace.WithAttributes(attribute.String("session.id", id)),
	)
	defer span.End()

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "no keys provided", errors.New("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	events, err := ParseKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	start := time.Now()
	st, err := h.sessions.Dispatch(ctx, id, events...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	if err != nil {
		h.sessionError(ctx, w, span, "keys", err)
		return
	}

	recordKeys(ctx, events, elapsed, st)

	view := calculator.Display(st)
	span.SetAttributes(
		attribute.Int("keypad.keys", len(events)),
		attribute.String("calculator.display", view.Display),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("keys applied",
		zap.String("session_id", id),
		zap.Strings("keys", req.Keys),
		zap.String("display", view.Display),
		zap.String("expression", view.Expression),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, newSessionResponse(id, st))
}

// ---------------------------------------------------------------------------
// Handlers — stateless
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate — applies one operator to two
// operand strings with the keypad's rounding and error rules.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "keypad.evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	ev, err := ParseKey(req.Op)
	if err == nil && ev.Kind != calculator.EventOperator {
		err = fmt.Errorf("%w: %q is not an operator", ErrUnknownKey, req.Op)
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid operator", err, http.StatusBadRequest, w)
		return
	}

	result := calculator.Evaluate(req.A, req.B, ev.Operator)

	span.SetAttributes(
		attribute.String("calculator.operation", ev.Operator.String()),
		attribute.String("calculator.operand.a", req.A),
		attribute.String("calculator.operand.b", req.B),
		attribute.String("calculator.result", result),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", ev.Operator.String()),
		zap.String("a", req.A),
		zap.String("b", req.B),
		zap.String("result", result),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		A:         req.A,
		B:         req.B,
		Operation: ev.Operator.String(),
		Result:    result,
	})
}

// Replay handles POST /calculator/replay — runs a key sequence against a fresh
// state, creating a child span for every key.
func (h *Handler) Replay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "keypad.replay")
	defer span.End()

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", "no keys provided", errors.New("keys array is empty"), http.StatusBadRequest, w)
		return
	}

	events, err := ParseKeys(req.Keys)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "replay", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("replay.keys_count", len(events)))

	st := calculator.NewState()
	steps := make([]ReplayStep, 0, len(events))

	for i, ev := range events {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("keypad.replay.key.%d.%s", i, ev.Kind),
			trace.WithAttributes(
				attribute.Int("replay.key.index", i),
				attribute.String("replay.key.label", ev.Label()),
				attribute.String("replay.key.input", st.Current),
			),
		)

		st = calculator.Reduce(st, ev)
		v := calculator.Display(st)

		stepSpan.SetAttributes(attribute.String("replay.key.display", v.Display))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		logger.Debug("replay key applied",
			zap.Int("step", i),
			zap.String("key", ev.Label()),
			zap.String("display", v.Display),
			zap.String("expression", v.Expression),
		)

		steps = append(steps, ReplayStep{Key: ev.Label(), Display: v.Display, Expression: v.Expression})
	}

	recordKeys(ctx, events, 0, st)

	final := calculator.Display(st)
	span.AddEvent("replay.complete", trace.WithAttributes(
		attribute.String("display", final.Display),
		attribute.Int("total_keys", len(events)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("replay completed",
		zap.Int("keys", len(events)),
		zap.String("display", final.Display),
	)

	handlers.WriteJSON(w, http.StatusOK, ReplayResponse{
		Steps:      steps,
		Display:    final.Display,
		Expression: final.Expression,
	})
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (h *Handler) sessionError(ctx context.Context, w http.ResponseWriter, span trace.Span, opName string, err error) {
	logger := observability.LoggerWithTrace(ctx)

	if errors.Is(err, session.ErrNotFound) {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "session not found", err, http.StatusNotFound, w)
		return
	}
	observability.RecordError(ctx, span, logger, errorCounter, opName, "session failure", err, http.StatusInternalServerError, w)
}

// recordKeys updates the keypad metrics after events were applied and st is
// the resulting state. A zero elapsed skips the duration histogram.
func recordKeys(ctx context.Context, events []calculator.Event, elapsed float64, st calculator.State) {
	for _, ev := range events {
		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", ev.Kind.String())))
	}

	if elapsed > 0 {
		dispatchHistogram.Record(ctx, elapsed)
	}

	if st.JustEvaluated {
		if v, err := strconv.ParseFloat(st.Current, 64); err == nil {
			resultGauge.Record(ctx, v)
		}
	}
}
