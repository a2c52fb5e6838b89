package ecs

import "slices"

// SparseSet stores one component kind keyed by entity id. Values are boxed
// as `any`; the generic accessors in generics.go restore the concrete type.
// Removal swaps the last slot in, so dense order is not stable.
type SparseSet struct {
	ids    []int
	values []any
	// index maps id-1 to a dense slot; 0 means absent, otherwise slot+1.
	index []int
}

func (s *SparseSet) slot(id int) (int, bool) {
	if s == nil || id <= 0 || id > len(s.index) {
		return 0, false
	}
	n := s.index[id-1]
	return n - 1, n > 0
}

// Has reports whether id has a component in the set.
func (s *SparseSet) Has(id int) bool {
	_, ok := s.slot(id)
	return ok
}

// Get returns the component for id, or nil.
func (s *SparseSet) Get(id int) any {
	i, ok := s.slot(id)
	if !ok {
		return nil
	}
	return s.values[i]
}

// Set inserts or replaces the component for id.
func (s *SparseSet) Set(id int, v any) {
	if s == nil || id <= 0 {
		return
	}
	if i, ok := s.slot(id); ok {
		s.values[i] = v
		return
	}
	if id > len(s.index) {
		s.index = append(s.index, make([]int, id-len(s.index))...)
	}
	s.ids = append(s.ids, id)
	s.values = append(s.values, v)
	s.index[id-1] = len(s.ids)
}

// Remove deletes the component for id if present.
func (s *SparseSet) Remove(id int) {
	i, ok := s.slot(id)
	if !ok {
		return
	}
	last := len(s.ids) - 1
	if i != last {
		moved := s.ids[last]
		s.ids[i] = moved
		s.values[i] = s.values[last]
		s.index[moved-1] = i + 1
	}
	s.values[last] = nil
	s.ids = s.ids[:last]
	s.values = s.values[:last]
	s.index[id-1] = 0
}

// Len returns the number of stored components.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Entities returns a sorted copy of the stored entity ids.
func (s *SparseSet) Entities() []int {
	if s == nil {
		return nil
	}
	ids := slices.Clone(s.ids)
	slices.Sort(ids)
	return ids
}
