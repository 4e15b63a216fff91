package resolve

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every resolution failure.
var ErrNotFound = errors.New("declaration not found")

// UnresolvedError is returned when no declaration or re-export provides a name.
type UnresolvedError struct {
	Name string
	Path string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("cannot resolve '%s' from '%s'", e.Name, e.Path)
}

func (e *UnresolvedError) Is(target error) bool {
	return target == ErrNotFound
}

// ModuleNotFoundError is returned when a module specifier maps to no file.
type ModuleNotFoundError struct {
	Specifier string
	From      string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("module '%s' not found from '%s'", e.Specifier, e.From)
}

func (e *ModuleNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DepthExceededError is returned when re-export chains go deeper than the limit.
type DepthExceededError struct {
	Name     string
	MaxDepth int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("maximum resolution depth (%d) exceeded while resolving '%s'", e.MaxDepth, e.Name)
}

func (e *DepthExceededError) Is(target error) bool {
	return target == ErrNotFound
}
