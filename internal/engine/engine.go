// Package engine implements the button-driven evaluation core: an
// accumulator, a command stack recording every applied or pending
// operation, and a table of named variables.
//
// An Engine is not safe for concurrent use; callers serialize access.
package engine

// Option configures an Engine.
type Option func(*Engine)

// WithResetClearsVariables makes Reset also empty the variable table.
func WithResetClearsVariables(clear bool) Option {
	return func(e *Engine) {
		e.resetClearsVariables = clear
	}
}

// Engine is the calculator state machine.
type Engine struct {
	acc   float64
	stack Stack
	vars  VariableTable

	resetClearsVariables bool
}

// New returns an engine with a zero accumulator, an empty stack and no variables.
func New(opts ...Option) *Engine {
	e := &Engine{vars: VariableTable{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Accumulator returns the running result.
func (e *Engine) Accumulator() float64 { return e.acc }

// Commands returns a copy of the command stack, oldest first.
func (e *Engine) Commands() []Command { return e.stack.Commands() }

// Reset clears the accumulator and the command stack.
func (e *Engine) Reset() {
	e.acc = 0
	e.stack.Clear()
	if e.resetClearsVariables {
		e.vars = VariableTable{}
	}
}

// SetVariable assigns value to name.
func (e *Engine) SetVariable(name string, value float64) {
	e.vars[name] = value
}

// Variable returns the value of name without creating it.
func (e *Engine) Variable(name string) (float64, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Variables returns a copy of the variable table.
func (e *Engine) Variables() map[string]float64 {
	out := make(map[string]float64, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}

// Resolve returns the numeric value of op, creating unknown variables as 0.
func (e *Engine) Resolve(op Operand) float64 {
	return e.vars.Resolve(op)
}

// Apply presses button with raw as the displayed operand and returns the new
// display value. Unknown buttons return the resolved operand unchanged.
func (e *Engine) Apply(button string, raw Operand) float64 {
	input := e.vars.Resolve(raw)

	op, ok := Lookup(button)
	if !ok {
		return input
	}

	switch op.Kind {
	case KindBinary:
		wasEmpty := e.stack.Empty()
		e.settle(raw, input)

		previous := Number(e.acc)
		if wasEmpty {
			previous = raw
		}
		e.stack.Push(Command{Previous: previous, Button: button, Operator: op})

	case KindUnary:
		wasEmpty := e.stack.Empty()
		e.settle(raw, input)

		previous := Number(e.acc)
		if wasEmpty {
			previous = raw
		}
		cmd := Command{Previous: previous, Button: button, Operator: op}
		e.stack.Push(cmd)
		e.acc = cmd.execute(e.acc, e.vars)

	case KindConstant:
		return op.Value

	case KindEquals:
		e.equals(button, op, raw, input)
	}

	return e.acc
}

// settle prepares the stack for a new binary or unary command: it completes
// a pending binary, closes an expression ended by equals, and drops a stack
// whose unary result was edited on the display.
func (e *Engine) settle(raw Operand, input float64) {
	top, ok := e.stack.Top()
	switch {
	case !ok:
		e.acc = input

	case top.IsPending():
		top = top.WithOperand(raw)
		e.stack.ReplaceTop(top)
		e.acc = top.execute(e.acc, e.vars)

	case top.IsEquals():
		e.stack.Pop()
		if e.vars.Resolve(top.Previous) != input {
			e.acc = input
		}
		e.stack.Clear()

	case top.IsUnary() && e.acc != input:
		e.acc = input
		e.stack.Clear()
	}
}

func (e *Engine) equals(button string, op Operator, raw Operand, input float64) {
	top, ok := e.stack.Top()
	switch {
	case !ok:
		e.acc = input
		e.stack.Push(Command{Previous: raw, Button: button, Operator: op})

	case top.IsPending():
		top = top.WithOperand(raw)
		e.stack.ReplaceTop(top)
		e.acc = top.execute(e.acc, e.vars)
		e.stack.Push(Command{Previous: Number(e.acc), Button: button, Operator: op})

	case top.IsEquals():
		eq, _ := e.stack.Pop()
		if last, ok := e.stack.Top(); ok {
			e.repeat(last)
		} else {
			e.acc = input
		}
		e.stack.Push(eq.WithPrevious(Number(e.acc)))

	default:
		e.repeat(top)
	}
}

// repeat re-applies cmd, with its original operand, to the current accumulator.
func (e *Engine) repeat(cmd Command) {
	cmd = cmd.WithPrevious(Number(e.acc))
	e.stack.Push(cmd)
	e.acc = cmd.execute(e.acc, e.vars)
}
