package puzzle

import "strings"

// Set is a set of strings that remembers insertion order.
type Set struct {
	items []string
	index map[string]struct{}
}

func NewSet(items ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(items))}
	for _, it := range items {
		s.add(it)
	}
	return s
}

func (s *Set) add(v string) {
	if _, ok := s.index[v]; ok {
		return
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *Set) Has(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[v]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy in insertion order.
func (s *Set) Items() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.items...)
}

func (s *Set) String() string {
	return strings.Join(s.Items(), ", ")
}

// Intersect returns the elements of a that are also in b, in a's order.
// Neither input is modified.
func Intersect(a, b *Set) *Set {
	out := NewSet()
	if a == nil || b == nil {
		return out
	}
	for _, v := range a.items {
		if b.Has(v) {
			out.add(v)
		}
	}
	return out
}

func JSConcepts() *Set {
	return NewSet("closure", "scope", "hoisting", "async")
}

func ReactConcepts() *Set {
	return NewSet("components", "jsx", "hooks", "async")
}
