package vision

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// WallRay is the result of one ray cast against wall geometry.
type WallRay struct {
	// Angle is the signed yaw of the ray relative to the car's forward axis, in degrees.
	Angle     float32
	Direction mgl32.Vec3
	// Distance is the hit distance divided by the ray length: 0 when touching, 1 on a miss.
	Distance float32
	// Point is the hit point, or the end of the ray on a miss.
	Point mgl32.Vec3
	Hit   bool
}

func (r WallRay) String() string {
	return fmt.Sprintf("(%v, %v)", r.Distance, r.Hit)
}

// CheckpointRay is the result of one ray cast against checkpoint gates.
type CheckpointRay struct {
	Angle     float32
	Direction mgl32.Vec3
	Distance  float32
	Point     mgl32.Vec3
	Hit       bool
	// GoodHit is set when the gate struck is the next one the car has to pass.
	GoodHit bool
}

func (r CheckpointRay) String() string {
	return fmt.Sprintf("(%v, %v, %v)", r.Distance, r.Hit, r.GoodHit)
}
