// Package display edits the value a user is typing, one key at a time.
package display

import (
	"errors"
	"strconv"
	"strings"

	"go-chi-calculator/internal/engine"
)

// ErrInvalidDigit is returned when a key other than 0-9 is appended as a digit.
var ErrInvalidDigit = errors.New("invalid digit")

const zero = "0"

// Display holds the text currently shown as the input value. The zero value
// shows "0".
type Display struct {
	text     string
	variable bool
}

// FromNumber returns a display showing v.
func FromNumber(v float64) Display {
	return Display{text: engine.FormatNumber(v)}
}

// FromOperand returns a display showing op, keeping variable references by name.
func FromOperand(op engine.Operand) Display {
	if op.IsVariable() {
		return Display{text: op.Name(), variable: true}
	}
	return FromNumber(op.Value())
}

// Text returns the displayed text.
func (d Display) Text() string {
	if d.text == "" {
		return zero
	}
	return d.text
}

// HasValue reports whether the display shows anything other than "0".
func (d Display) HasValue() bool {
	return d.Text() != zero
}

// IsVariable reports whether the display shows a variable reference.
func (d Display) IsVariable() bool {
	return d.variable
}

// Clear resets the display to "0".
func (d *Display) Clear() {
	*d = Display{}
}

// AppendDigit adds digit to the end of the value. A leading zero is replaced
// rather than extended.
func (d *Display) AppendDigit(digit string) error {
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return ErrInvalidDigit
	}
	if d.variable {
		d.Clear()
	}

	switch text := d.Text(); {
	case text == "-0":
		d.text = "-" + digit
	case text != zero:
		d.text = text + digit
	case digit != zero:
		d.text = digit
	}
	return nil
}

// ToggleSign adds or removes a leading minus sign.
func (d *Display) ToggleSign() {
	if d.variable {
		d.Clear()
	}
	text := d.Text()
	if strings.HasPrefix(text, "-") {
		d.text = text[1:]
		return
	}
	d.text = "-" + text
}

// AppendDecimal adds a decimal point unless the value already has one.
func (d *Display) AppendDecimal() {
	if d.variable {
		d.Clear()
	}
	text := d.Text()
	if !strings.Contains(text, ".") {
		d.text = text + "."
	}
}

// Backspace removes the last character typed.
func (d *Display) Backspace() {
	if d.variable {
		d.Clear()
		return
	}
	text := d.Text()
	text = text[:len(text)-1]
	if text == "" || text == "-" || text == "-0" {
		text = zero
	}
	d.text = text
}

// SetVariable makes the display show a reference to name.
func (d *Display) SetVariable(name string) {
	*d = Display{text: name, variable: true}
}

// Operand converts the display into an engine operand. Partially typed
// numbers such as "5." or "-" are read leniently.
func (d Display) Operand() engine.Operand {
	if d.variable {
		return engine.Variable(d.text)
	}
	text := d.Text()
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return engine.Number(v)
	}
	if !isPartialNumber(text) {
		return engine.Variable(text)
	}
	trimmed := strings.TrimSuffix(strings.TrimPrefix(text, "-"), ".")
	if trimmed == "" {
		return engine.Number(0)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return engine.Number(0)
	}
	if strings.HasPrefix(text, "-") {
		v = -v
	}
	return engine.Number(v)
}

func isPartialNumber(text string) bool {
	for i, r := range text {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case r == '-' && i == 0:
		default:
			return false
		}
	}
	return true
}
