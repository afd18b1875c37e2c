package physics

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// ContactPhase tells whether a contact started or ended this tick.
type ContactPhase uint8

const (
	ContactEnter ContactPhase = iota
	ContactExit
)

func (p ContactPhase) String() string {
	if p == ContactExit {
		return "exit"
	}
	return "enter"
}

// Contact is a single enter or exit event between the tracked body and a collider. Trigger is
// copied from the collider: trigger contacts correspond to trigger callbacks, the rest to
// collision callbacks.
type Contact struct {
	Phase    ContactPhase
	Collider *Collider
	Trigger  bool
}

// Layer returns the layer of the collider involved in the contact.
func (c Contact) Layer() Layer {
	if c.Collider == nil {
		return 0
	}
	return c.Collider.Layer
}

// ContactTracker turns per-tick overlap queries into enter and exit events.
type ContactTracker struct {
	// Skin is added to the body radius so that a body resting against a solid collider after
	// resolution still counts as touching it.
	Skin float32
	Mask LayerMask

	touching map[int]*Collider
}

// NewContactTracker returns a tracker for colliders on the masked layers.
func NewContactTracker(mask LayerMask, skin float32) *ContactTracker {
	return &ContactTracker{Mask: mask, Skin: skin, touching: make(map[int]*Collider)}
}

// Update queries the world around a sphere and returns the contacts that changed since the last
// call. All exits are reported before any enter, each group ordered by collider ID.
func (t *ContactTracker) Update(w World, center mgl32.Vec3, radius float32) []Contact {
	if w == nil {
		return nil
	}
	if t.touching == nil {
		t.touching = make(map[int]*Collider)
	}

	current := make(map[int]*Collider)
	for _, c := range w.Overlapping(center, radius+t.Skin, t.Mask, true) {
		current[c.ID] = c
	}

	var exits, enters []Contact
	for id, c := range t.touching {
		if _, ok := current[id]; !ok {
			exits = append(exits, Contact{Phase: ContactExit, Collider: c, Trigger: c.Trigger})
		}
	}
	for id, c := range current {
		if _, ok := t.touching[id]; !ok {
			enters = append(enters, Contact{Phase: ContactEnter, Collider: c, Trigger: c.Trigger})
		}
	}
	t.touching = current

	byID := func(a, b Contact) int { return a.Collider.ID - b.Collider.ID }
	slices.SortFunc(exits, byID)
	slices.SortFunc(enters, byID)
	return append(exits, enters...)
}

// Reset forgets every tracked contact without emitting exits, as when the body is destroyed.
func (t *ContactTracker) Reset() {
	clear(t.touching)
}

// Touching returns the number of colliders currently touched.
func (t *ContactTracker) Touching() int {
	return len(t.touching)
}
