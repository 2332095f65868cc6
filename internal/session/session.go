// Package session couples an evaluation engine with the display and memory
// cell a user drives through keypad presses.
package session

import (
	"sync"
	"time"

	"go-chi-calculator/internal/display"
	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/memory"
)

// Keypad keys handled by the session rather than the engine.
const (
	KeyDecimal   = "."
	KeySign      = "+/-"
	KeyClear     = "C"
	KeyBackspace = "⌫"
)

// Session is one calculator. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   *engine.Engine
	display  display.Display
	memory   memory.Cell
	typing   bool
	created  time.Time
	lastUsed time.Time
}

// New returns a session with id driving e.
func New(id string, e *engine.Engine, now time.Time) *Session {
	return &Session{
		ID:       id,
		engine:   e,
		created:  now,
		lastUsed: now,
	}
}

// Snapshot is a consistent view of a session.
type Snapshot struct {
	ID          string
	Display     string
	History     string
	Accumulator float64
	Typing      bool
	Memory      float64
	Variables   map[string]float64
	Commands    []engine.Command
	Created     time.Time
	LastUsed    time.Time
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:          s.ID,
		Display:     s.display.Text(),
		History:     s.engine.Render(),
		Accumulator: s.engine.Accumulator(),
		Typing:      s.typing,
		Memory:      s.memory.Value(),
		Variables:   s.engine.Variables(),
		Commands:    s.engine.Commands(),
		Created:     s.created,
		LastUsed:    s.lastUsed,
	}
}

// LastUsed returns when the session was last touched.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *Session) touch(now time.Time) {
	s.lastUsed = now
}

// Press handles one keypad key and returns the resulting state.
func (s *Session) Press(key string, now time.Time) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(now)
	if err := s.pressLocked(key); err != nil {
		return s.snapshotLocked(), err
	}
	return s.snapshotLocked(), nil
}

// PressAll handles keys in order, stopping at the first error.
func (s *Session) PressAll(keys []string, now time.Time) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(now)
	for i, key := range keys {
		if err := s.pressLocked(key); err != nil {
			return s.snapshotLocked(), &KeyError{Index: i, Key: key, Err: err}
		}
	}
	return s.snapshotLocked(), nil
}

func (s *Session) pressLocked(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case isDigit(key):
		s.startTyping()
		return s.display.AppendDigit(key)
	case key == KeyDecimal:
		s.startTyping()
		s.display.AppendDecimal()
	case key == KeySign:
		s.startTyping()
		s.display.ToggleSign()
	case key == KeyClear:
		s.clearLocked()
	case key == KeyBackspace:
		s.undoLocked()
	case memory.IsKey(key):
		return s.memoryLocked(key)
	default:
		s.operateLocked(key)
	}
	return nil
}

func isDigit(key string) bool {
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}

// startTyping begins a new value unless one is already being typed.
func (s *Session) startTyping() {
	if !s.typing {
		s.display.Clear()
		s.typing = true
	}
}

// clearLocked clears the display; clearing an already clear display, or one
// showing a result, also resets the engine.
func (s *Session) clearLocked() {
	if !s.display.HasValue() || !s.typing {
		s.engine.Reset()
	}
	s.display.Clear()
	s.typing = false
}

func (s *Session) operateLocked(button string) {
	s.typing = false
	result := s.engine.Apply(button, s.display.Operand())
	s.display = display.FromNumber(result)
}

func (s *Session) memoryLocked(key string) error {
	shown, changed, err := s.memory.Operate(key, s.engine.Resolve(s.display.Operand()))
	if err != nil {
		return err
	}
	if changed {
		s.display = display.FromNumber(shown)
		s.typing = false
	}
	return nil
}

// Undo deletes the last typed character while the user is typing, and
// otherwise undoes the last engine operation.
func (s *Session) Undo(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(now)
	s.undoLocked()
	return s.snapshotLocked()
}

func (s *Session) undoLocked() {
	if s.typing && s.display.HasValue() {
		s.display.Backspace()
		return
	}
	op, typing := s.engine.Undo()
	s.display = display.FromOperand(op)
	s.typing = typing
}

// RecallVariable shows a reference to name on the display.
func (s *Session) RecallVariable(name string, now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(now)
	s.display.SetVariable(name)
	return s.snapshotLocked()
}

// StoreVariable assigns the display's value to name.
func (s *Session) StoreVariable(name string, now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(now)
	s.engine.SetVariable(name, s.engine.Resolve(s.display.Operand()))
	return s.snapshotLocked()
}

// SetVariable assigns value to name.
func (s *Session) SetVariable(name string, value float64, now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(now)
	s.engine.SetVariable(name, value)
	return s.snapshotLocked()
}

// Variables returns a copy of the variable table.
func (s *Session) Variables() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Variables()
}
