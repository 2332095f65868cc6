package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
	ErrEmptyKey        = errors.New("empty key")
)

// KeyError reports which key of a sequence could not be pressed.
type KeyError struct {
	Index int
	Key   string
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %d (%q): %v", e.Index, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }
