package utils

import (
	"slices"
	"testing"
)

func TestRingOverwritesOldest(t *testing.T) {
	r := NewRing[int](3)
	if _, ok := r.Last(); ok {
		t.Fatal("expected empty ring to have no last item")
	}
	for i := 1; i <= 5; i++ {
		r.Push(i)
	}
	if r.Len() != 3 || r.Cap() != 3 {
		t.Fatalf("unexpected len/cap %d/%d", r.Len(), r.Cap())
	}
	if got := r.Values(); !slices.Equal(got, []int{3, 4, 5}) {
		t.Fatalf("expected [3 4 5], got %v", got)
	}
	if last, _ := r.Last(); last != 5 {
		t.Fatalf("expected last item 5, got %v", last)
	}
}

func TestRingMinimumCapacity(t *testing.T) {
	r := NewRing[string](0)
	r.Push("a")
	r.Push("b")
	if got := r.Values(); !slices.Equal(got, []string{"b"}) {
		t.Fatalf("expected [b], got %v", got)
	}
}
