package physics

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	testWallLayer       Layer = 9
	testCheckpointLayer Layer = 10
)

func approx(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-4
}

func approxVec(a, b mgl32.Vec3) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}

func TestRaycastHitsNearFace(t *testing.T) {
	w := NewStaticWorld()
	wall := NewBoxCollider(NewPose(mgl32.Vec3{0, 1, 5.5}, 0), mgl32.Vec3{5, 1, 0.5}, testWallLayer)
	w.Add(wall)

	hit, ok := w.Raycast(mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 0, 1}, 15, Mask(testWallLayer), false)
	if !ok {
		t.Fatal("expected ray to hit the wall")
	}
	if !approx(hit.Distance, 5) {
		t.Fatalf("expected distance 5, got %v", hit.Distance)
	}
	if !approxVec(hit.Point, mgl32.Vec3{0, 0.5, 5}) {
		t.Fatalf("expected hit point (0, 0.5, 5), got %v", hit.Point)
	}
	if !approxVec(hit.Normal, mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("expected normal facing the ray, got %v", hit.Normal)
	}
	if hit.Collider != wall || wall.ID == 0 {
		t.Fatalf("expected hit on registered wall, got %+v", hit.Collider)
	}
}

func TestRaycastRotatedCollider(t *testing.T) {
	w := NewStaticWorld()
	w.Add(NewBoxCollider(NewPose(mgl32.Vec3{5, 0, 0}, 90), mgl32.Vec3{0.5, 1, 2}, testWallLayer))

	hit, ok := w.Raycast(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 10, Mask(testWallLayer), false)
	if !ok {
		t.Fatal("expected ray to hit the rotated box")
	}
	if !approx(hit.Distance, 3) {
		t.Fatalf("expected the rotated box to span x in [3, 7], got distance %v", hit.Distance)
	}
	if !approxVec(hit.Normal, mgl32.Vec3{-1, 0, 0}) {
		t.Fatalf("expected normal -X, got %v", hit.Normal)
	}
}

func TestRaycastFilters(t *testing.T) {
	w := NewStaticWorld()
	gate := NewBoxCollider(NewPose(mgl32.Vec3{0, 0, 4}, 0), mgl32.Vec3{3, 1, 0.25}, testCheckpointLayer)
	gate.Trigger = true
	wall := NewBoxCollider(NewPose(mgl32.Vec3{0, 0, 8}, 0), mgl32.Vec3{3, 1, 0.5}, testWallLayer)
	w.Add(gate, wall)

	origin, dir := mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}
	if hit, ok := w.Raycast(origin, dir, 15, Mask(testCheckpointLayer, testWallLayer), false); !ok || hit.Collider != wall {
		t.Fatalf("expected triggers to be ignored, got %+v (ok=%v)", hit.Collider, ok)
	}
	if hit, ok := w.Raycast(origin, dir, 15, Mask(testCheckpointLayer, testWallLayer), true); !ok || hit.Collider != gate {
		t.Fatalf("expected the trigger to be the closest hit, got %+v (ok=%v)", hit.Collider, ok)
	}
	if _, ok := w.Raycast(origin, dir, 15, Mask(testCheckpointLayer), false); ok {
		t.Fatal("expected no hit when the only masked collider is a trigger")
	}
	if _, ok := w.Raycast(origin, dir, 3, Mask(testCheckpointLayer), true); ok {
		t.Fatal("expected no hit beyond the maximum distance")
	}
	if _, ok := w.Raycast(mgl32.Vec3{0, 0, 8}, dir, 15, Mask(testWallLayer), false); ok {
		t.Fatal("expected a ray starting inside a collider to miss it")
	}
	if _, ok := w.Raycast(origin, mgl32.Vec3{}, 15, AllLayers, true); ok {
		t.Fatal("expected a zero direction to miss")
	}
}

func TestLayerMask(t *testing.T) {
	m := Mask(1, 9)
	if !m.Contains(1) || !m.Contains(9) || m.Contains(2) {
		t.Fatalf("unexpected mask contents %b", m)
	}
	if !AllLayers.Contains(31) {
		t.Fatal("expected AllLayers to contain every layer")
	}
}
