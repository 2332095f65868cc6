// Package memory implements the calculator's single memory cell.
package memory

import (
	"errors"
	"fmt"
)

// ErrUnknownOperation is returned for keys that are not memory operations.
var ErrUnknownOperation = errors.New("unknown memory operation")

// Memory keys.
const (
	Clear  = "MC"
	Recall = "MR"
	Store  = "MS"
	Add    = "M+"
)

// IsKey reports whether key is a memory operation.
func IsKey(key string) bool {
	switch key {
	case Clear, Recall, Store, Add:
		return true
	}
	return false
}

// Cell holds one stored value. The zero value holds 0.
type Cell struct {
	value float64
}

// Value returns the stored value.
func (c *Cell) Value() float64 { return c.value }

// Operate applies the memory key to the cell using the current display value.
// It returns the value the display should show and whether the display
// changes at all.
func (c *Cell) Operate(key string, display float64) (float64, bool, error) {
	switch key {
	case Clear:
		c.value = 0
		return display, false, nil
	case Recall:
		return c.value, true, nil
	case Store:
		c.value = display
		return display, false, nil
	case Add:
		c.value += display
		return c.value, true, nil
	default:
		return display, false, fmt.Errorf("%w: %q", ErrUnknownOperation, key)
	}
}
