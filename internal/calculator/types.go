package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/session"
)

// Number is a float64 that survives JSON when it is NaN or infinite: those
// values are written as the strings "NaN", "+Inf" and "-Inf".
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return json.Marshal(engine.FormatNumber(f))
	}
	return json.Marshal(f)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("number must be a JSON number or string: %w", err)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*n = Number(f)
	return nil
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// VariableRequest is the JSON body for PUT /calculator/sessions/{id}/variables/{name}.
// Without a value the display's current value is stored.
type VariableRequest struct {
	Value *Number `json:"value"`
}

// CommandView is one command-stack entry as exposed over HTTP.
type CommandView struct {
	Button   string  `json:"button"`
	Kind     string  `json:"kind"`
	Previous string  `json:"previous"`
	Operand  *string `json:"operand,omitempty"`
	Pending  bool    `json:"pending"`
}

// SessionResponse is the JSON response for every session endpoint.
type SessionResponse struct {
	ID          string            `json:"id"`
	Display     string            `json:"display"`
	History     string            `json:"history"`
	Accumulator Number            `json:"accumulator"`
	Typing      bool              `json:"typing"`
	Memory      Number            `json:"memory"`
	Variables   map[string]Number `json:"variables"`
	Commands    []CommandView     `json:"commands"`
	LastUsed    time.Time         `json:"last_used"`
}

// VariablesResponse is the JSON response for GET /calculator/sessions/{id}/variables.
type VariablesResponse struct {
	Variables map[string]Number `json:"variables"`
}

// EvaluateStep is one button press in a stateless evaluation. The operand is
// Value, Variable, or 0 when neither is given.
type EvaluateStep struct {
	Button   string  `json:"button"`
	Value    *Number `json:"value,omitempty"`
	Variable string  `json:"variable,omitempty"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Variables map[string]Number `json:"variables,omitempty"`
	Steps     []EvaluateStep    `json:"steps"`
}

// EvaluateResult records one executed step.
type EvaluateResult struct {
	Button  string `json:"button"`
	Operand string `json:"operand"`
	Result  Number `json:"result"`
	History string `json:"history"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Steps     []EvaluateResult  `json:"steps"`
	Result    Number            `json:"result"`
	History   string            `json:"history"`
	Variables map[string]Number `json:"variables"`
}

func newSessionResponse(snap session.Snapshot) SessionResponse {
	return SessionResponse{
		ID:          snap.ID,
		Display:     snap.Display,
		History:     snap.History,
		Accumulator: Number(snap.Accumulator),
		Typing:      snap.Typing,
		Memory:      Number(snap.Memory),
		Variables:   numbers(snap.Variables),
		Commands:    commandViews(snap.Commands),
		LastUsed:    snap.LastUsed,
	}
}

func numbers(vars map[string]float64) map[string]Number {
	out := make(map[string]Number, len(vars))
	for k, v := range vars {
		out[k] = Number(v)
	}
	return out
}

func commandViews(cmds []engine.Command) []CommandView {
	out := make([]CommandView, 0, len(cmds))
	for _, c := range cmds {
		view := CommandView{
			Button:   c.Button,
			Kind:     c.Operator.Kind.String(),
			Previous: c.Previous.String(),
			Pending:  c.IsPending(),
		}
		if c.HasOperand {
			operand := c.Operand.String()
			view.Operand = &operand
		}
		out = append(out, view)
	}
	return out
}

// sortedNames returns the keys of vars in a stable order, for logging.
func sortedNames(vars map[string]Number) []string {
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
