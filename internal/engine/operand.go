package engine

import "strconv"

type operandKind uint8

const (
	numberOperand operandKind = iota
	variableOperand
)

// Operand is either a literal number or a reference to a named variable.
// The zero value is Number(0).
type Operand struct {
	kind  operandKind
	value float64
	name  string
}

// Number returns a literal operand.
func Number(v float64) Operand {
	return Operand{kind: numberOperand, value: v}
}

// Variable returns an operand referring to the variable name.
func Variable(name string) Operand {
	return Operand{kind: variableOperand, name: name}
}

// IsVariable reports whether o refers to a variable.
func (o Operand) IsVariable() bool { return o.kind == variableOperand }

// Value returns the literal value of a number operand, 0 for variables.
func (o Operand) Value() float64 { return o.value }

// Name returns the variable name, "" for number operands.
func (o Operand) Name() string { return o.name }

// String renders a number in its shortest round-trip form and a variable by name.
func (o Operand) String() string {
	if o.IsVariable() {
		return o.name
	}
	return FormatNumber(o.value)
}

// FormatNumber formats v the way it appears in history and on the display.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// VariableTable maps variable names to values.
type VariableTable map[string]float64

// Resolve returns the numeric value of op. An unknown variable is created
// with value 0.
func (t VariableTable) Resolve(op Operand) float64 {
	if !op.IsVariable() {
		return op.value
	}
	v, ok := t[op.name]
	if !ok {
		t[op.name] = 0
	}
	return v
}
