package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
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

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator endpoints backed by a session store.
type Handler struct {
	sessions *session.Store
}

func NewHandler(sessions *session.Store) *Handler {
	return &Handler{sessions: sessions}
}

// call carries the per-request observability state shared by every handler.
type call struct {
	ctx       context.Context
	span      trace.Span
	logger    *zap.Logger
	requestID string
	opName    string
	start     time.Time
}

func startCall(r *http.Request, opName string, attrs ...attribute.KeyValue) *call {
	ctx := r.Context()
	requestID := observability.RequestIDFromContext(ctx)

	attrs = append(attrs,
		attribute.String("calculator.operation", opName),
		attribute.String("request.id", requestID),
	)
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName), trace.WithAttributes(attrs...))

	return &call{
		ctx:       ctx,
		span:      span,
		logger:    observability.LoggerWithTrace(ctx),
		requestID: requestID,
		opName:    opName,
		start:     time.Now(),
	}
}

func (c *call) fail(w http.ResponseWriter, status int, msg string, err error) {
	observability.RecordError(c.ctx, c.span, c.logger, errorCounter, c.opName, msg, err, status, w)
}

// elapsed returns the time since the call started, in milliseconds.
func (c *call) elapsed() float64 {
	return float64(time.Since(c.start).Microseconds()) / 1000.0
}

// record updates metrics and the span for a completed operation that
// produced result.
func (c *call) record(result float64) {
	elapsed := c.elapsed()
	attrs := metric.WithAttributes(attribute.String("operation", c.opName))

	opsCounter.Add(c.ctx, 1, attrs)
	opsHistogram.Record(c.ctx, elapsed, attrs)
	resultGauge.Record(c.ctx, result, attrs)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		nonFiniteCounter.Add(c.ctx, 1, attrs)
	}

	c.span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	c.span.SetStatus(codes.Ok, "")
}

// session resolves the {id} URL parameter, writing the error response when
// the session does not exist.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, c *call) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	c.span.SetAttributes(attribute.String("calculator.session.id", id))

	sess, err := h.sessions.Get(id)
	if err != nil {
		c.fail(w, http.StatusNotFound, "session not found", err)
		return nil, false
	}
	return sess, true
}

func (c *call) respond(w http.ResponseWriter, status int, snap session.Snapshot) {
	c.record(snap.Accumulator)
	c.span.SetAttributes(
		attribute.String("calculator.history", snap.History),
		attribute.String("calculator.display", snap.Display),
	)

	c.logger.Info("calculator operation completed",
		zap.String("operation", c.opName),
		zap.String("session_id", snap.ID),
		zap.String("display", snap.Display),
		zap.String("history", snap.History),
		zap.Float64("accumulator", snap.Accumulator),
		zap.String("request_id", c.requestID),
		zap.Float64("duration_ms", c.elapsed()),
	)

	handlers.WriteJSON(w, status, newSessionResponse(snap))
}

// ---------------------------------------------------------------------------
// Handlers: sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "create_session")
	defer c.span.End()

	sess, err := h.sessions.Create()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrTooManySessions) {
			status = http.StatusServiceUnavailable
		}
		c.fail(w, status, "could not create session", err)
		return
	}

	w.Header().Set("Location", "/calculator/sessions/"+sess.ID)
	c.respond(w, http.StatusCreated, sess.Snapshot())
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "get_session")
	defer c.span.End()

	sess, ok := h.session(w, r, c)
	if !ok {
		return
	}
	c.respond(w, http.StatusOK, sess.Snapshot())
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "delete_session")
	defer c.span.End()

	id := chi.URLParam(r, "id")
	if err := h.sessions.Delete(id); err != nil {
		c.fail(w, http.StatusNotFound, "session not found", err)
		return
	}

	c.span.SetStatus(codes.Ok, "")
	c.logger.Info("session deleted",
		zap.String("session_id", id),
		zap.String("request_id", c.requestID),
	)
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /calculator/sessions/{id}/keys
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "press_keys")
	defer c.span.End()

	sess, ok := h.session(w, r, c)
	if !ok {
		return
	}

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.fail(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Keys) == 0 {
		c.fail(w, http.StatusBadRequest, "no keys provided", fmt.Errorf("keys array is empty"))
		return
	}

	c.span.SetAttributes(
		attribute.StringSlice("calculator.keys", req.Keys),
		attribute.Int("calculator.keys_count", len(req.Keys)),
	)

	snap, err := sess.PressAll(req.Keys, h.sessions.Now())
	if err != nil {
		c.fail(w, http.StatusBadRequest, err.Error(), err)
		return
	}
	c.respond(w, http.StatusOK, snap)
}

// Undo handles POST /calculator/sessions/{id}/undo
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "undo")
	defer c.span.End()

	sess, ok := h.session(w, r, c)
	if !ok {
		return
	}
	c.respond(w, http.StatusOK, sess.Undo(h.sessions.Now()))
}

// ---------------------------------------------------------------------------
// Handlers: variables
// ---------------------------------------------------------------------------

// ListVariables handles GET /calculator/sessions/{id}/variables
func (h *Handler) ListVariables(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "list_variables")
	defer c.span.End()

	sess, ok := h.session(w, r, c)
	if !ok {
		return
	}

	vars := numbers(sess.Variables())
	c.span.SetAttributes(attribute.Int("calculator.variables_count", len(vars)))
	c.span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, VariablesResponse{Variables: vars})
}

// PutVariable handles PUT /calculator/sessions/{id}/variables/{name}
func (h *Handler) PutVariable(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "set_variable")
	defer c.span.End()

	sess, ok := h.session(w, r, c)
	if !ok {
		return
	}
	name, ok := variableName(w, r, c)
	if !ok {
		return
	}

	var req VariableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		c.fail(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	now := h.sessions.Now()
	var snap session.Snapshot
	if req.Value != nil {
		snap = sess.SetVariable(name, float64(*req.Value), now)
	} else {
		snap = sess.StoreVariable(name, now)
	}
	c.respond(w, http.StatusOK, snap)
}

// RecallVariable handles POST /calculator/sessions/{id}/variables/{name}/recall
func (h *Handler) RecallVariable(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "recall_variable")
	defer c.span.End()

	sess, ok := h.session(w, r, c)
	if !ok {
		return
	}
	name, ok := variableName(w, r, c)
	if !ok {
		return
	}
	c.respond(w, http.StatusOK, sess.RecallVariable(name, h.sessions.Now()))
}

// variableName reads the {name} URL parameter. Names that read as numbers
// are rejected because the display could not tell them apart.
func variableName(w http.ResponseWriter, r *http.Request, c *call) (string, bool) {
	name := chi.URLParam(r, "name")
	c.span.SetAttributes(attribute.String("calculator.variable", name))

	if _, err := strconv.ParseFloat(name, 64); err == nil {
		c.fail(w, http.StatusBadRequest, "variable name must not be a number", fmt.Errorf("variable name %q", name))
		return "", false
	}
	return name, true
}
