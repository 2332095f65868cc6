package engine

// Undo removes the most recent user-visible action and recomputes the
// accumulator. It returns the value the display should show and whether the
// user is back to typing that value.
func (e *Engine) Undo() (Operand, bool) {
	undone, ok := e.stack.Pop()
	if !ok {
		return Number(0), false
	}

	top, ok := e.stack.Top()
	if !ok {
		e.acc = e.vars.Resolve(undone.Previous)
		return undone.Previous, true
	}

	switch {
	case top.IsBinary():
		surfaced := Number(e.acc)
		if top.HasOperand {
			surfaced = top.Operand
		}
		e.stack.ReplaceTop(top.WithoutOperand())
		e.acc = e.vars.Resolve(top.Previous)
		return surfaced, true

	case top.IsUnary():
		e.acc = e.vars.Resolve(undone.Previous)
		return Number(e.acc), false

	default:
		return Number(e.acc), false
	}
}
