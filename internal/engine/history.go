package engine

import "strings"

// Render folds the command stack into a left-to-right transcript such as
// "3 + 4 =" or "√(9)". An empty stack renders as "0".
func (e *Engine) Render() string {
	cmds := e.stack.cmds
	if len(cmds) == 0 {
		return "0"
	}

	text := cmds[0].Previous.String()
	for _, c := range cmds {
		text = c.describe(text)
	}
	return text
}

// describe wraps the transcript so far with c.
func (c Command) describe(text string) string {
	switch c.Operator.Kind {
	case KindBinary:
		var b strings.Builder
		b.WriteString(text)
		b.WriteString(" ")
		b.WriteString(c.Button)
		b.WriteString(" ")
		if c.HasOperand {
			b.WriteString(c.Operand.String())
		}
		return b.String()
	case KindUnary:
		if c.Button == ButtonSquare {
			return "(" + text + ")²"
		}
		return c.Button + "(" + text + ")"
	case KindEquals:
		return text + " ="
	default:
		return text
	}
}
