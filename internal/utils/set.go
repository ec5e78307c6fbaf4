package utils

import (
	"fmt"
)

// Set is a minimal generic set. It is not safe for concurrent use, callers are
// expected to provide their own synchronization.
type Set[T comparable] map[T]struct{}

// NewSet returns a Set containing the given elements.
func NewSet[T comparable](elements ...T) Set[T] {
	s := make(Set[T], len(elements))
	for _, t := range elements {
		s.Add(t)
	}
	return s
}

// Add inserts t, returning false if it was already present.
func (s Set[T]) Add(t T) bool {
	if s.Has(t) {
		return false
	}
	s[t] = struct{}{}
	return true
}

// Has reports whether t is in the set.
func (s Set[T]) Has(t T) bool {
	_, ok := s[t]
	return ok
}

// Remove deletes t, returning false if it was not present.
func (s Set[T]) Remove(t T) bool {
	if !s.Has(t) {
		return false
	}
	delete(s, t)
	return true
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) String() string {
	keys := make([]T, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return fmt.Sprint(keys)
}
