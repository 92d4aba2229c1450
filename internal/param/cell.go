package param

import (
	"errors"
	"fmt"

	"soyc/internal/source"
)

// ErrAlreadyBound is returned when a parameter type is bound twice.
var ErrAlreadyBound = errors.New("type already bound")

// writeOnce is a value that can be assigned at most once.
type writeOnce[T any] struct {
	val T
	ok  bool
}

func (c *writeOnce[T]) set(v T) error {
	if c.ok {
		return ErrAlreadyBound
	}
	c.val = v
	c.ok = true
	return nil
}

func (c *writeOnce[T]) get() (T, bool) {
	return c.val, c.ok
}

// BindError attributes a binding failure to a parameter.
type BindError struct {
	Param string
	Span  source.Span
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("param $%s: %v", e.Param, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }
