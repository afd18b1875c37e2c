package physics

import "github.com/go-gl/mathgl/mgl32"

// Hit describes where a ray struck a collider.
type Hit struct {
	// Distance is measured from the ray origin, in world units.
	Distance float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Collider *Collider
}

// World is the query surface the simulator needs from a physics engine.
type World interface {
	// Raycast returns the closest collider on a layer in mask hit by the ray within maxDistance.
	// Trigger colliders are only considered when triggers is true.
	Raycast(origin, dir mgl32.Vec3, maxDistance float32, mask LayerMask, triggers bool) (Hit, bool)
	// Overlapping returns the colliders on a layer in mask that a sphere touches.
	Overlapping(center mgl32.Vec3, radius float32, mask LayerMask, triggers bool) []*Collider
}

// StaticWorld is a World made of colliders that never move. It is not safe for concurrent
// mutation, but concurrent queries are fine once it is built.
type StaticWorld struct {
	colliders []*Collider
}

// NewStaticWorld returns an empty world.
func NewStaticWorld() *StaticWorld {
	return &StaticWorld{}
}

// Add registers colliders with the world and assigns their IDs.
func (w *StaticWorld) Add(colliders ...*Collider) {
	for _, c := range colliders {
		c.ID = len(w.colliders) + 1
		w.colliders = append(w.colliders, c)
	}
}

// Colliders returns every collider in the world.
func (w *StaticWorld) Colliders() []*Collider {
	return w.colliders
}

// Raycast ...
func (w *StaticWorld) Raycast(origin, dir mgl32.Vec3, maxDistance float32, mask LayerMask, triggers bool) (Hit, bool) {
	if maxDistance <= 0 || dir.LenSqr() == 0 {
		return Hit{}, false
	}
	dir = dir.Normalize()

	var (
		closest Hit
		found   bool
	)
	for _, c := range w.colliders {
		if !mask.Contains(c.Layer) || (c.Trigger && !triggers) {
			continue
		}
		if hit, ok := c.raycast(origin, dir, maxDistance); ok && (!found || hit.Distance < closest.Distance) {
			closest, found = hit, true
		}
	}
	return closest, found
}

// Overlapping ...
func (w *StaticWorld) Overlapping(center mgl32.Vec3, radius float32, mask LayerMask, triggers bool) []*Collider {
	var touching []*Collider
	for _, c := range w.colliders {
		if !mask.Contains(c.Layer) || (c.Trigger && !triggers) {
			continue
		}
		if _, _, ok := c.penetration(center, radius); ok {
			touching = append(touching, c)
		}
	}
	return touching
}
