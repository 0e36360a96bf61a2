package catalog

import (
	"errors"
	"fmt"
)

// ErrEmpty is wrapped by LoadError when a source holds no categories.
var ErrEmpty = errors.New("catalog has no categories")

// LoadError reports a missing or malformed catalog source.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
