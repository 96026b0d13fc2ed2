// Package orderedset provides an insertion-ordered set keyed by a derived key.
package orderedset

// Set keeps the first value added for each key, in insertion order.
type Set[K comparable, V any] struct {
	key   func(V) K
	seen  map[K]struct{}
	items []V
}

// New returns an empty set that identifies values by key.
func New[K comparable, V any](key func(V) K) *Set[K, V] {
	return &Set[K, V]{key: key, seen: make(map[K]struct{})}
}

// Add inserts v unless a value with the same key is present. It reports
// whether v was inserted.
func (s *Set[K, V]) Add(v V) bool {
	k := s.key(v)
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// AddAll adds each value in order.
func (s *Set[K, V]) AddAll(vs ...V) {
	for _, v := range vs {
		s.Add(v)
	}
}

// Items returns the values in first-seen order. The slice is a copy.
func (s *Set[K, V]) Items() []V {
	return append([]V(nil), s.items...)
}
