package utils

import "iter"

// Ring is a fixed capacity buffer that keeps the most recent items pushed to it, overwriting the
// oldest once full.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

// NewRing returns a ring holding at most capacity items. A capacity below one is raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends an item, dropping the oldest one when the ring is full.
func (r *Ring[T]) Push(item T) {
	tail := (r.head + r.size) % len(r.items)
	r.items[tail] = item
	if r.size == len(r.items) {
		r.head = (r.head + 1) % len(r.items)
		return
	}
	r.size++
}

// Len returns the number of items currently held.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the maximum number of items the ring can hold.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Last returns the most recently pushed item.
func (r *Ring[T]) Last() (item T, ok bool) {
	if r.size == 0 {
		return item, false
	}
	return r.items[(r.head+r.size-1)%len(r.items)], true
}

// All iterates the held items from oldest to newest.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range r.size {
			if !yield(r.items[(r.head+i)%len(r.items)]) {
				return
			}
		}
	}
}

// Values copies the held items, oldest first, into a new slice.
func (r *Ring[T]) Values() []T {
	values := make([]T, 0, r.size)
	for v := range r.All() {
		values = append(values, v)
	}
	return values
}
