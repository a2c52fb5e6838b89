package ecs

import "github.com/milk9111/storyscene/ecs/component"

// Add attaches value to e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	w.store(kind.ID(), true).Set(e.ID, value)
	return nil
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := w.store(kind.ID(), false)
	if !s.Has(e.ID) {
		return false
	}
	s.Remove(e.ID)
	return true
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e.ID)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	value, ok := w.store(kind.ID(), false).Get(e.ID).(*T)
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// First returns the lowest-id live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := w.store(kind.ID(), false)
	for _, id := range s.Entities() {
		if e, ok := w.entities.lookup(id); ok {
			return e, true
		}
	}
	return Entity{}, false
}

// ForEach calls fn for every live entity carrying kind. Iteration runs over a
// snapshot so fn may add or remove components.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := w.store(kind.ID(), false)
	if s == nil || fn == nil {
		return
	}
	for _, id := range s.Entities() {
		e, ok := w.entities.lookup(id)
		if !ok {
			continue
		}
		value, ok := s.Get(id).(*T)
		if !ok || value == nil {
			continue
		}
		fn(e, value)
	}
}

// ForEach2 calls fn for every live entity carrying both kinds.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	for _, id := range IntersectEntities(sa, sb) {
		e, ok := w.entities.lookup(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		if !okA || !okB || a == nil || b == nil {
			continue
		}
		fn(e, a, b)
	}
}
