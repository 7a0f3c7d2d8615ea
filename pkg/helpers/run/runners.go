package run

import (
	"errors"
	"fmt"
)

//ErrPanicked marks errors which were recovered from a panic.
var ErrPanicked = errors.New("panic")

//WithError runs fn and converts a panic inside it into an error wrapping ErrPanicked
//(and the panic value itself, if it's an error).
func WithError(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanicked, perr)
			} else {
				err = fmt.Errorf("%w: %v", ErrPanicked, p)
			}
		}
	}()

	return fn()
}
