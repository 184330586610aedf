package tree

import "slices"

type listener[T any] struct {
	id uint64
	fn func(T)
}

// signal is a list of listeners for one notification. Emission iterates a
// snapshot, so listeners may subscribe or unsubscribe while being called.
type signal[T any] struct {
	nextID    uint64
	listeners []listener[T]
}

func (s *signal[T]) add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener[T]) bool {
			return l.id == id
		})
	}
}

func (s *signal[T]) emit(value T) {
	if len(s.listeners) == 0 {
		return
	}
	for _, l := range slices.Clone(s.listeners) {
		l.fn(value)
	}
}
