package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBinaryChain(t *testing.T) {
	e := New()

	assert.Equal(t, 3.0, e.Apply("+", Number(3)))
	assert.Equal(t, 7.0, e.Apply("+", Number(4)))
	assert.Equal(t, 7.0, e.Apply("=", Number(0)))

	assert.Equal(t, 7.0, e.Accumulator())
	assert.Equal(t, "3 + 4 + 0 =", e.Render())
}

func TestApplyBinaryThenEquals(t *testing.T) {
	e := New()

	e.Apply("+", Number(3))
	assert.Equal(t, 7.0, e.Apply("=", Number(4)))
	assert.Equal(t, "3 + 4 =", e.Render())
}

func TestApplyLeftToRight(t *testing.T) {
	e := New()

	e.Apply("+", Number(2))
	e.Apply("×", Number(3))
	assert.Equal(t, 20.0, e.Apply("=", Number(4)))
	assert.Equal(t, "2 + 3 × 4 =", e.Render())
}

func TestApplyEqualsRepeat(t *testing.T) {
	e := New()

	e.Apply("+", Number(5))
	require.Equal(t, 7.0, e.Apply("=", Number(2)))

	assert.Equal(t, 9.0, e.Apply("=", Number(123)))
	assert.Equal(t, 11.0, e.Apply("=", Number(-4)))
	assert.Equal(t, "5 + 2 + 2 + 2 =", e.Render())

	top := e.Commands()[e.stack.Len()-1]
	assert.True(t, top.IsEquals())
	assert.Equal(t, Number(11), top.Previous)
}

func TestApplyEqualsOnEmptyStack(t *testing.T) {
	e := New()

	assert.Equal(t, 5.0, e.Apply("=", Number(5)))
	assert.Equal(t, "5 =", e.Render())

	// Nothing to repeat: the new input replaces the accumulator.
	assert.Equal(t, 8.0, e.Apply("=", Number(8)))
	assert.Equal(t, "8 =", e.Render())
	assert.Equal(t, 1, e.stack.Len())
}

func TestApplyEqualsRepeatsUnary(t *testing.T) {
	e := New()

	require.Equal(t, 4.0, e.Apply("√", Number(16)))
	assert.Equal(t, 2.0, e.Apply("=", Number(4)))
	assert.Equal(t, "√(√(16))", e.Render())

	top, _ := e.stack.Top()
	assert.False(t, top.IsEquals(), "repeating a unary does not push equals")
}

func TestApplyUnary(t *testing.T) {
	tests := []struct {
		button string
		input  float64
		want   float64
		render string
	}{
		{button: "√", input: 9, want: 3, render: "√(9)"},
		{button: "x²", input: 3, want: 9, render: "(3)²"},
		{button: "±", input: 3, want: -3, render: "±(3)"},
		{button: "sin", input: 0, want: 0, render: "sin(0)"},
		{button: "cos", input: 0, want: 1, render: "cos(0)"},
		{button: "tan", input: 0, want: 0, render: "tan(0)"},
	}

	for _, tc := range tests {
		t.Run(tc.button, func(t *testing.T) {
			e := New()
			assert.InDelta(t, tc.want, e.Apply(tc.button, Number(tc.input)), 1e-12)
			assert.Equal(t, tc.render, e.Render())
		})
	}
}

func TestApplyUnaryCompletesPendingBinary(t *testing.T) {
	e := New()

	e.Apply("+", Number(5))
	assert.Equal(t, 16.0, e.Apply("x²", Number(-1)))
	assert.Equal(t, "(5 + -1)²", e.Render())
	assert.Equal(t, 2, e.stack.Len())
}

func TestApplyUnaryThenEditedDisplay(t *testing.T) {
	e := New()

	require.Equal(t, 3.0, e.Apply("√", Number(9)))

	assert.Equal(t, 5.0, e.Apply("+", Number(5)))
	cmds := e.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, Number(5), cmds[0].Previous)
	assert.True(t, cmds[0].IsPending())
	assert.Equal(t, "5 + ", e.Render())
}

func TestApplyUnaryThenUnchangedDisplayKeepsStack(t *testing.T) {
	e := New()

	e.Apply("√", Number(16))
	assert.Equal(t, 2.0, e.Apply("√", Number(4)))
	assert.Equal(t, "√(√(16))", e.Render())

	e.Apply("+", Number(2))
	assert.Equal(t, "√(√(16)) + ", e.Render())
}

func TestApplyAfterEquals(t *testing.T) {
	t.Run("same value continues from result", func(t *testing.T) {
		e := New()
		e.Apply("+", Number(5))
		e.Apply("=", Number(2))

		assert.Equal(t, 7.0, e.Apply("×", Number(7)))
		assert.Equal(t, "7 × ", e.Render())
		assert.Equal(t, 21.0, e.Apply("=", Number(3)))
	})

	t.Run("new value starts fresh", func(t *testing.T) {
		e := New()
		e.Apply("+", Number(5))
		e.Apply("=", Number(2))

		assert.Equal(t, 10.0, e.Apply("×", Number(10)))
		assert.Equal(t, "10 × ", e.Render())
	})

	t.Run("unary after equals", func(t *testing.T) {
		e := New()
		e.Apply("+", Number(7))
		e.Apply("=", Number(2))

		assert.Equal(t, 3.0, e.Apply("√", Number(9)))
		assert.Equal(t, "√(9)", e.Render())
	})
}

func TestApplyConstantDoesNotTouchState(t *testing.T) {
	e := New()
	e.Apply("+", Number(2))

	assert.Equal(t, math.Pi, e.Apply("π", Number(3)))
	assert.Equal(t, math.E, e.Apply("e", Number(3)))
	assert.Equal(t, 2.0, e.Accumulator())
	assert.Equal(t, 1, e.stack.Len())
}

func TestApplyUnknownButtonPassesThrough(t *testing.T) {
	e := New()
	e.Apply("+", Number(2))

	assert.Equal(t, 4.0, e.Apply("mod", Number(4)))
	assert.Equal(t, 2.0, e.Accumulator())
	assert.Equal(t, "2 + ", e.Render())

	assert.Equal(t, 0.0, e.Apply("mod", Variable("z")))
	_, ok := e.Variable("z")
	assert.True(t, ok, "unknown buttons still resolve their operand")
}

func TestApplyNumericFaultsPropagate(t *testing.T) {
	e := New()

	e.Apply("÷", Number(1))
	assert.True(t, math.IsInf(e.Apply("=", Number(0)), 1))

	e.Apply("-", Number(math.Inf(1)))
	assert.True(t, math.IsNaN(e.Apply("=", Number(math.Inf(1)))))
	assert.Equal(t, "+Inf - +Inf =", e.Render())

	e.Reset()
	assert.True(t, math.IsNaN(e.Apply("√", Number(-4))))
}

func TestVariables(t *testing.T) {
	t.Run("set then use", func(t *testing.T) {
		e := New()
		e.SetVariable("x", 10)

		assert.Equal(t, 10.0, e.Apply("+", Variable("x")))
		v, ok := e.Variable("x")
		require.True(t, ok)
		assert.Equal(t, 10.0, v)

		assert.Equal(t, 15.0, e.Apply("=", Number(5)))
		assert.Equal(t, "x + 5 =", e.Render())
	})

	t.Run("unknown variable is created as zero", func(t *testing.T) {
		e := New()

		assert.Equal(t, 0.0, e.Apply("+", Variable("y")))
		assert.Equal(t, map[string]float64{"y": 0}, e.Variables())
	})

	t.Run("second operand resolves at execution", func(t *testing.T) {
		e := New()
		e.SetVariable("x", 2)

		e.Apply("+", Number(3))
		assert.Equal(t, 5.0, e.Apply("=", Variable("x")))
		assert.Equal(t, "3 + x =", e.Render())

		e.SetVariable("x", 10)
		assert.Equal(t, 15.0, e.Apply("=", Number(0)))
	})

	t.Run("variables returns a copy", func(t *testing.T) {
		e := New()
		e.SetVariable("x", 1)

		vars := e.Variables()
		vars["x"] = 99
		v, _ := e.Variable("x")
		assert.Equal(t, 1.0, v)
	})
}

func TestReset(t *testing.T) {
	t.Run("keeps variables by default", func(t *testing.T) {
		e := New()
		e.SetVariable("x", 3)
		e.Apply("+", Number(1))

		e.Reset()

		assert.Equal(t, 0.0, e.Accumulator())
		assert.Equal(t, "0", e.Render())
		_, ok := e.Variable("x")
		assert.True(t, ok)
	})

	t.Run("clears variables when configured", func(t *testing.T) {
		e := New(WithResetClearsVariables(true))
		e.SetVariable("x", 3)

		e.Reset()

		assert.Empty(t, e.Variables())
	})
}

func TestRenderIsIdempotent(t *testing.T) {
	e := New()
	assert.Equal(t, "0", e.Render())

	e.Apply("+", Number(1.5))
	e.Apply("x²", Number(2))

	first := e.Render()
	assert.Equal(t, first, e.Render())
	assert.Equal(t, "(1.5 + 2)²", first)
}
