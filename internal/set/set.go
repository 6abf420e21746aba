// Package set provides small generic set types.
package set

type Set[T comparable] map[T]struct{}

func New[T comparable](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (s Set[T]) Add(v T) {
	s[v] = struct{}{}
}

func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

func (s Set[T]) Remove(v T) {
	delete(s, v)
}

// Ordered is a set that remembers insertion order. Iteration visits
// values in the order they were first added.
type Ordered[T comparable] struct {
	vals []T
	idx  Set[T]
}

// Add inserts v. It reports false if v was already present, in which
// case its position is unchanged.
func (s *Ordered[T]) Add(v T) bool {
	if s.idx == nil {
		s.idx = make(Set[T])
	}
	if s.idx.Has(v) {
		return false
	}
	s.idx.Add(v)
	s.vals = append(s.vals, v)
	return true
}

func (s *Ordered[T]) Has(v T) bool {
	return s.idx.Has(v)
}

// Remove deletes v, reporting whether it was present.
func (s *Ordered[T]) Remove(v T) bool {
	if !s.idx.Has(v) {
		return false
	}
	s.idx.Remove(v)
	for i, c := range s.vals {
		if c == v {
			s.vals = append(s.vals[:i:i], s.vals[i+1:]...)
			break
		}
	}
	return true
}

func (s *Ordered[T]) Len() int {
	return len(s.vals)
}

// Values returns a copy of the set's contents in insertion order.
func (s *Ordered[T]) Values() []T {
	return append([]T(nil), s.vals...)
}
