package session

import (
	"testing"
	"time"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestSession() *Session {
	return New("test", engine.New(), epoch)
}

func press(t *testing.T, s *Session, keys ...string) Snapshot {
	t.Helper()
	snap, err := s.PressAll(keys, epoch)
	require.NoError(t, err)
	return snap
}

func TestPressTypesAndEvaluates(t *testing.T) {
	s := newTestSession()

	snap := press(t, s, "1", "2", "+", "3", "=")
	assert.Equal(t, "15", snap.Display)
	assert.Equal(t, "12 + 3 =", snap.History)
	assert.Equal(t, 15.0, snap.Accumulator)
	assert.False(t, snap.Typing)
}

func TestPressDecimalAndSign(t *testing.T) {
	s := newTestSession()

	snap := press(t, s, KeySign, "2", KeyDecimal, "5", "×", "2", "=")
	assert.Equal(t, "-5", snap.Display)
	assert.Equal(t, "-2.5 × 2 =", snap.History)
}

func TestPressConstant(t *testing.T) {
	s := newTestSession()

	snap := press(t, s, "2", "×", "π", "=")
	assert.InDelta(t, 6.283185307179586, snap.Accumulator, 1e-12)
	assert.Equal(t, "2 × 3.141592653589793 =", snap.History)
}

func TestPressUnknownOperatorPassesThrough(t *testing.T) {
	s := newTestSession()

	snap := press(t, s, "4", "2", "mod")
	assert.Equal(t, "42", snap.Display)
	assert.False(t, snap.Typing)
	assert.Equal(t, "0", snap.History)
}

func TestPressEmptyKey(t *testing.T) {
	s := newTestSession()

	snap, err := s.PressAll([]string{"7", ""}, epoch)
	require.ErrorIs(t, err, ErrEmptyKey)

	var keyErr *KeyError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, 1, keyErr.Index)
	assert.Equal(t, "7", snap.Display, "keys before the failure stay applied")
}

func TestClear(t *testing.T) {
	s := newTestSession()

	snap := press(t, s, "5", "+", "3", KeyClear)
	assert.Equal(t, "0", snap.Display)
	assert.Equal(t, "5 + ", snap.History, "first clear only clears the display")

	snap = press(t, s, KeyClear)
	assert.Equal(t, "0", snap.History)
	assert.Equal(t, 0.0, snap.Accumulator)
}

func TestClearAfterResultResetsEngine(t *testing.T) {
	s := newTestSession()

	snap := press(t, s, "5", "+", "3", "=", KeyClear)
	assert.Equal(t, "0", snap.History)
}

func TestUndo(t *testing.T) {
	s := newTestSession()
	press(t, s, "9", "+", "4", "5")

	snap := s.Undo(epoch)
	assert.Equal(t, "4", snap.Display, "typing: deletes a character")
	assert.True(t, snap.Typing)

	snap = press(t, s, KeyBackspace)
	assert.Equal(t, "0", snap.Display)

	snap = s.Undo(epoch)
	assert.Equal(t, "9", snap.Display, "display empty: undoes the pending +")
	assert.True(t, snap.Typing)
	assert.Equal(t, "0", snap.History)
}

func TestUndoReopensBinary(t *testing.T) {
	s := newTestSession()
	press(t, s, "3", "+", "4", "=")

	snap := s.Undo(epoch)
	assert.Equal(t, "4", snap.Display)
	assert.True(t, snap.Typing)
	assert.Equal(t, "3 + ", snap.History)

	snap = press(t, s, "1", "=")
	assert.Equal(t, "44", snap.Display, "typing continues the reopened operand")
	assert.Equal(t, "3 + 41 =", snap.History)
}

func TestMemory(t *testing.T) {
	s := newTestSession()

	snap := press(t, s, "5", memory.Store, KeyClear, memory.Recall)
	assert.Equal(t, "5", snap.Display)
	assert.Equal(t, 5.0, snap.Memory)

	snap = press(t, s, memory.Add)
	assert.Equal(t, "10", snap.Display)
	assert.Equal(t, 10.0, snap.Memory)

	snap = press(t, s, memory.Clear)
	assert.Equal(t, "10", snap.Display)
	assert.Equal(t, 0.0, snap.Memory)
}

func TestVariables(t *testing.T) {
	s := newTestSession()

	s.SetVariable("x", 10, epoch)
	snap := s.RecallVariable("x", epoch)
	assert.Equal(t, "x", snap.Display)

	snap = press(t, s, "+", "5", "=")
	assert.Equal(t, "15", snap.Display)
	assert.Equal(t, "x + 5 =", snap.History)
	assert.Equal(t, map[string]float64{"x": 10}, snap.Variables)
}

func TestStoreVariable(t *testing.T) {
	s := newTestSession()

	press(t, s, "7")
	snap := s.StoreVariable("y", epoch)
	assert.Equal(t, 7.0, snap.Variables["y"])

	s.RecallVariable("y", epoch)
	snap = s.StoreVariable("z", epoch)
	assert.Equal(t, 7.0, snap.Variables["z"])
}

func TestUndoRestoresVariableOperand(t *testing.T) {
	s := newTestSession()
	s.SetVariable("x", 4, epoch)
	s.RecallVariable("x", epoch)
	press(t, s, "√")

	snap := s.Undo(epoch)
	assert.Equal(t, "x", snap.Display)
	assert.True(t, snap.Typing)
}

func TestPressTouchesSession(t *testing.T) {
	s := newTestSession()
	later := epoch.Add(time.Minute)

	_, err := s.Press("1", later)
	require.NoError(t, err)
	assert.Equal(t, later, s.LastUsed())
}
