package agent

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
)

// Camera is a follow camera that may be pinned to a car body. A detached camera keeps the last
// world pose it had.
type Camera struct {
	pose   physics.Pose
	parent *physics.Body
	local  physics.Pose
}

// NewCamera returns a detached camera at the given pose.
func NewCamera(pose physics.Pose) *Camera {
	return &Camera{pose: pose}
}

// Attach pins the camera to body at the given local position and euler rotation.
func (c *Camera) Attach(body *physics.Body, localPos, localRot mgl32.Vec3) {
	c.parent = body
	c.local = physics.Pose{Position: localPos, Rotation: game.EulerToQuat(localRot)}
}

// Detach unpins the camera, leaving it at its current world pose.
func (c *Camera) Detach() {
	c.pose = c.Pose()
	c.parent = nil
}

// Attached reports whether the camera follows a body.
func (c *Camera) Attached() bool {
	return c.parent != nil
}

// Pose returns the world pose of the camera.
func (c *Camera) Pose() physics.Pose {
	if c.parent == nil {
		return c.pose
	}
	parent := c.parent.Pose
	return physics.Pose{
		Position: parent.TransformPoint(c.local.Position),
		Rotation: parent.Rotation.Mul(c.local.Rotation).Normalize(),
	}
}
