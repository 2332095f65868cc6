package engine

// Command is one entry of the command stack.
type Command struct {
	// Previous is the accumulator, or the raw first input, before the command ran.
	Previous Operand
	Button   string
	Operator Operator

	// Operand is the second operand of a binary command. It is only set
	// when HasOperand is true.
	Operand    Operand
	HasOperand bool
}

// IsPending reports whether c is a binary command still waiting for its
// second operand.
func (c Command) IsPending() bool {
	return c.Operator.Kind == KindBinary && !c.HasOperand
}

func (c Command) IsBinary() bool { return c.Operator.Kind == KindBinary }

func (c Command) IsUnary() bool { return c.Operator.Kind == KindUnary }

func (c Command) IsEquals() bool { return c.Button == ButtonEquals }

// WithOperand returns a copy of c with its second operand set.
func (c Command) WithOperand(op Operand) Command {
	c.Operand = op
	c.HasOperand = true
	return c
}

// WithoutOperand returns a copy of c that is pending again.
func (c Command) WithoutOperand() Command {
	c.Operand = Operand{}
	c.HasOperand = false
	return c
}

// WithPrevious returns a copy of c recorded against a different previous value.
func (c Command) WithPrevious(op Operand) Command {
	c.Previous = op
	return c
}

// execute runs c against the accumulator value on.
func (c Command) execute(on float64, vars VariableTable) float64 {
	switch c.Operator.Kind {
	case KindBinary:
		if !c.HasOperand {
			return on
		}
		return c.Operator.binary(on, vars.Resolve(c.Operand))
	case KindUnary:
		return c.Operator.unary(on)
	case KindConstant:
		return c.Operator.Value
	default:
		return on
	}
}

// Stack is the chronological command history. The zero value is empty.
type Stack struct {
	cmds []Command
}

func (s *Stack) Len() int { return len(s.cmds) }

func (s *Stack) Empty() bool { return len(s.cmds) == 0 }

// Top returns the most recent command.
func (s *Stack) Top() (Command, bool) {
	if len(s.cmds) == 0 {
		return Command{}, false
	}
	return s.cmds[len(s.cmds)-1], true
}

func (s *Stack) Push(c Command) {
	s.cmds = append(s.cmds, c)
}

// Pop removes and returns the most recent command.
func (s *Stack) Pop() (Command, bool) {
	if len(s.cmds) == 0 {
		return Command{}, false
	}
	c := s.cmds[len(s.cmds)-1]
	s.cmds = s.cmds[:len(s.cmds)-1]
	return c, true
}

// ReplaceTop pops the top command and pushes c in its place.
func (s *Stack) ReplaceTop(c Command) {
	s.Pop()
	s.Push(c)
}

func (s *Stack) Clear() {
	s.cmds = nil
}

// Commands returns a copy of the stack, oldest first.
func (s *Stack) Commands() []Command {
	out := make([]Command, len(s.cmds))
	copy(out, s.cmds)
	return out
}
