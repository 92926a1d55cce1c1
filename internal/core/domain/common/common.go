package common

import (
	"fmt"
)

type Optional[T any] struct {
	Value     T
	IsPresent bool
}

func (p *Optional[T]) String() string {
	if !p.IsPresent {
		return "[-]"
	}
	return fmt.Sprintf("[%v]", p.Value)
}

// ValueOr returns the wrapped value or fallback when the optional is empty.
func (p Optional[T]) ValueOr(fallback T) T {
	if !p.IsPresent {
		return fallback
	}
	return p.Value
}

func NewOptional[T any](value T, isPresent bool) Optional[T] {
	return Optional[T]{Value: value, IsPresent: isPresent}
}

// FromPointer builds an optional out of a nullable column value.
func FromPointer[T any](value *T) Optional[T] {
	if value == nil {
		return Optional[T]{}
	}
	return Optional[T]{Value: *value, IsPresent: true}
}

// Pointer is the inverse of FromPointer.
func (p Optional[T]) Pointer() *T {
	if !p.IsPresent {
		return nil
	}
	v := p.Value
	return &v
}
