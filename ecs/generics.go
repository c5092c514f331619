package ecs

import "github.com/milk9111/loopride/ecs/component"

// Add stores value on e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if w == nil || !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	kind := handle.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	v := value
	w.store(kind.ID(), true).Set(e, &v)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil {
		return false
	}
	set := w.store(handle.Kind().ID(), false)
	return set.Remove(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil || !w.IsAlive(e) {
		return false
	}
	return w.store(handle.Kind().ID(), false).Has(e)
}

// Get returns a pointer to the stored component so systems can mutate it in
// place.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	value := w.store(handle.Kind().ID(), false).Get(e)
	if value == nil {
		return nil, false
	}
	cast, ok := value.(*T)
	return cast, ok
}

// ForEach calls fn for every live entity holding a component of kind, in id
// order.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(e Entity, v *T)) {
	if w == nil || fn == nil {
		return
	}
	set := w.store(kind.ID(), false)
	for _, e := range w.Query(kind) {
		if v, ok := set.Get(e).(*T); ok {
			fn(e, v)
		}
	}
}
