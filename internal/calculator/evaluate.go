package calculator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/handlers"
)

// operand converts the step's operand fields into an engine operand.
func (s EvaluateStep) operand() (engine.Operand, error) {
	switch {
	case s.Value != nil && s.Variable != "":
		return engine.Operand{}, fmt.Errorf("step has both value and variable")
	case s.Variable != "":
		return engine.Variable(s.Variable), nil
	case s.Value != nil:
		return engine.Number(float64(*s.Value)), nil
	default:
		return engine.Number(0), nil
	}
}

// Evaluate handles POST /calculator/evaluate. It presses a sequence of
// buttons on a fresh engine, creating a child span for every step.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	c := startCall(r, "evaluate")
	defer c.span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.fail(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(req.Steps) == 0 {
		c.fail(w, http.StatusBadRequest, "no steps provided", fmt.Errorf("steps array is empty"))
		return
	}

	operands := make([]engine.Operand, len(req.Steps))
	for i, step := range req.Steps {
		op, err := step.operand()
		if err != nil {
			c.fail(w, http.StatusBadRequest, fmt.Sprintf("step %d: %v", i, err), err)
			return
		}
		operands[i] = op
	}

	c.span.SetAttributes(
		attribute.Int("evaluate.steps_count", len(req.Steps)),
		attribute.StringSlice("evaluate.variables", sortedNames(req.Variables)),
	)

	c.logger.Info("starting evaluation",
		zap.Int("steps", len(req.Steps)),
		zap.Strings("variables", sortedNames(req.Variables)),
		zap.String("request_id", c.requestID),
	)

	e := engine.New()
	for name, v := range req.Variables {
		e.SetVariable(name, float64(v))
	}

	var result float64
	results := make([]EvaluateResult, 0, len(req.Steps))

	for i, step := range req.Steps {
		// --- Child span per step ---
		_, stepSpan := tracer.Start(c.ctx,
			fmt.Sprintf("calculator.evaluate.step.%d", i),
			trace.WithAttributes(
				attribute.Int("evaluate.step.index", i),
				attribute.String("evaluate.step.button", step.Button),
				attribute.String("evaluate.step.operand", operands[i].String()),
				attribute.Float64("evaluate.step.accumulator", e.Accumulator()),
			),
		)

		stepStart := time.Now()
		result = e.Apply(step.Button, operands[i])
		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0

		_, known := engine.Lookup(step.Button)
		opName := step.Button
		if !known {
			opName = "unknown"
		}

		// Record step metrics
		attrs := metric.WithAttributes(attribute.String("operation", opName))
		opsCounter.Add(c.ctx, 1, attrs)
		opsHistogram.Record(c.ctx, stepElapsed, attrs)

		stepSpan.AddEvent("step.complete", trace.WithAttributes(
			attribute.Float64("result", result),
			attribute.Bool("known_button", known),
		))
		stepSpan.SetAttributes(attribute.Float64("evaluate.step.result", result))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		history := e.Render()
		c.logger.Debug("evaluation step completed",
			zap.Int("step", i),
			zap.String("button", step.Button),
			zap.Bool("known_button", known),
			zap.String("operand", operands[i].String()),
			zap.Float64("result", result),
			zap.String("history", history),
			zap.Float64("duration_ms", stepElapsed),
		)

		results = append(results, EvaluateResult{
			Button:  step.Button,
			Operand: operands[i].String(),
			Result:  Number(result),
			History: history,
		})
	}

	c.record(result)
	history := e.Render()
	c.span.SetAttributes(
		attribute.Float64("evaluate.result", result),
		attribute.String("calculator.history", history),
	)

	c.logger.Info("evaluation completed",
		zap.Float64("result", result),
		zap.String("history", history),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", c.requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Steps:     results,
		Result:    Number(result),
		History:   history,
		Variables: numbers(e.Variables()),
	})
}
