package engine

import "math"

// Kind classifies an operator button.
type Kind uint8

const (
	KindConstant Kind = iota
	KindUnary
	KindBinary
	KindEquals
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	case KindEquals:
		return "equals"
	default:
		return "unknown"
	}
}

// FuncID identifies one of the fixed numeric functions behind an operator.
type FuncID uint8

const (
	FuncNone FuncID = iota
	FuncAdd
	FuncSubtract
	FuncMultiply
	FuncDivide
	FuncSin
	FuncCos
	FuncTan
	FuncSqrt
	FuncSquare
	FuncNegate
)

var unaryFuncs = map[FuncID]func(float64) float64{
	FuncSin:    math.Sin,
	FuncCos:    math.Cos,
	FuncTan:    math.Tan,
	FuncSqrt:   math.Sqrt,
	FuncSquare: func(x float64) float64 { return x * x },
	FuncNegate: func(x float64) float64 { return -x },
}

var binaryFuncs = map[FuncID]func(float64, float64) float64{
	FuncAdd:      func(a, b float64) float64 { return a + b },
	FuncSubtract: func(a, b float64) float64 { return a - b },
	FuncMultiply: func(a, b float64) float64 { return a * b },
	FuncDivide:   func(a, b float64) float64 { return a / b },
}

// Operator describes what a button does. Value is only meaningful for
// constants and Func only for unary and binary operators.
type Operator struct {
	Kind  Kind
	Func  FuncID
	Value float64
}

func (o Operator) unary(x float64) float64 {
	return unaryFuncs[o.Func](x)
}

func (o Operator) binary(a, b float64) float64 {
	return binaryFuncs[o.Func](a, b)
}

// Button identifiers with special meaning outside the operator table lookup.
const (
	ButtonEquals = "="
	ButtonSquare = "x²"
)

var operators = map[string]Operator{
	"+":          {Kind: KindBinary, Func: FuncAdd},
	"-":          {Kind: KindBinary, Func: FuncSubtract},
	"×":          {Kind: KindBinary, Func: FuncMultiply},
	"÷":          {Kind: KindBinary, Func: FuncDivide},
	"sin":        {Kind: KindUnary, Func: FuncSin},
	"cos":        {Kind: KindUnary, Func: FuncCos},
	"tan":        {Kind: KindUnary, Func: FuncTan},
	"√":          {Kind: KindUnary, Func: FuncSqrt},
	ButtonSquare: {Kind: KindUnary, Func: FuncSquare},
	"±":          {Kind: KindUnary, Func: FuncNegate},
	"π":          {Kind: KindConstant, Value: math.Pi},
	"e":          {Kind: KindConstant, Value: math.E},
	ButtonEquals: {Kind: KindEquals},
}

// Lookup returns the operator bound to button.
func Lookup(button string) (Operator, bool) {
	op, ok := operators[button]
	return op, ok
}

// Buttons returns every recognised operator button.
func Buttons() []string {
	buttons := make([]string, 0, len(operators))
	for b := range operators {
		buttons = append(buttons, b)
	}
	return buttons
}
