package physics

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// Collider is a static box placed in the world. Box is expressed in the collider's local space
// and Pose moves it into the world, so rotated walls and gates are plain boxes as well.
type Collider struct {
	// ID is assigned by the world the collider is added to.
	ID      int
	Pose    Pose
	Box     cube.BBox
	Layer   Layer
	Trigger bool
	// Owner is the object the collider belongs to, e.g. a *track.Checkpoint. The physics package
	// never looks at it.
	Owner any
}

// NewBoxCollider returns a collider centred on pose with the given half extents.
func NewBoxCollider(pose Pose, halfExtents mgl32.Vec3, layer Layer) *Collider {
	return &Collider{
		Pose:  pose,
		Box:   cube.Box(-halfExtents[0], -halfExtents[1], -halfExtents[2], halfExtents[0], halfExtents[1], halfExtents[2]),
		Layer: layer,
	}
}

// raycast intersects the segment [origin, origin+dir*maxDistance] with the collider. A ray that
// starts inside the collider does not hit it.
func (c *Collider) raycast(origin, dir mgl32.Vec3, maxDistance float32) (Hit, bool) {
	start := c.Pose.InverseTransformPoint(origin)
	if c.Box.Vec3Within(start) {
		return Hit{}, false
	}
	end := c.Pose.InverseTransformPoint(origin.Add(dir.Mul(maxDistance)))

	result, ok := trace.BBoxIntercept(c.Box, start, end)
	if !ok {
		return Hit{}, false
	}
	local := result.Position()
	dist := local.Sub(start).Len()
	if dist > maxDistance {
		return Hit{}, false
	}
	return Hit{
		Distance: dist,
		Point:    c.Pose.TransformPoint(local),
		Normal:   c.Pose.TransformDirection(c.faceNormal(local)),
		Collider: c,
	}, true
}

// faceNormal returns the outward normal of the box face closest to a local point.
func (c *Collider) faceNormal(local mgl32.Vec3) mgl32.Vec3 {
	min, max := c.Box.Min(), c.Box.Max()
	best := float32(math32.MaxFloat32)
	var normal mgl32.Vec3
	for axis := 0; axis < 3; axis++ {
		if d := math32.Abs(local[axis] - min[axis]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[axis] = -1
		}
		if d := math32.Abs(max[axis] - local[axis]); d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[axis] = 1
		}
	}
	return normal
}

// penetration returns the world space direction and depth needed to push a sphere out of the
// collider. ok is false when the sphere does not touch it.
func (c *Collider) penetration(center mgl32.Vec3, radius float32) (normal mgl32.Vec3, depth float32, ok bool) {
	local := c.Pose.InverseTransformPoint(center)
	min, max := c.Box.Min(), c.Box.Max()

	closest := mgl32.Vec3{
		clamp(local[0], min[0], max[0]),
		clamp(local[1], min[1], max[1]),
		clamp(local[2], min[2], max[2]),
	}
	diff := local.Sub(closest)
	distSqr := diff.LenSqr()
	if distSqr > radius*radius {
		return mgl32.Vec3{}, 0, false
	}
	if distSqr > 1e-12 {
		dist := math32.Sqrt(distSqr)
		return c.Pose.TransformDirection(diff.Mul(1 / dist)), radius - dist, true
	}

	// The centre is inside the box: leave through the nearest face.
	n := c.faceNormal(local)
	var toFace float32
	for axis := 0; axis < 3; axis++ {
		if n[axis] > 0 {
			toFace = max[axis] - local[axis]
		} else if n[axis] < 0 {
			toFace = local[axis] - min[axis]
		}
	}
	return c.Pose.TransformDirection(n), radius + toFace, true
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}
