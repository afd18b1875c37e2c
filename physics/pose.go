package physics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
)

// Pose is a position and orientation in world space.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// NewPose returns a pose at pos rotated by yaw degrees around the world up axis.
func NewPose(pos mgl32.Vec3, yaw float32) Pose {
	return Pose{Position: pos, Rotation: game.YawQuat(yaw)}
}

// Forward returns the local +Z axis in world space.
func (p Pose) Forward() mgl32.Vec3 {
	return p.rotation().Rotate(game.Forward)
}

// Up returns the local +Y axis in world space.
func (p Pose) Up() mgl32.Vec3 {
	return p.rotation().Rotate(game.Up)
}

// Right returns the local +X axis in world space.
func (p Pose) Right() mgl32.Vec3 {
	return p.rotation().Rotate(game.Right)
}

// TransformPoint converts a point from local to world space.
func (p Pose) TransformPoint(local mgl32.Vec3) mgl32.Vec3 {
	return p.rotation().Rotate(local).Add(p.Position)
}

// TransformDirection converts a direction from local to world space.
func (p Pose) TransformDirection(local mgl32.Vec3) mgl32.Vec3 {
	return p.rotation().Rotate(local)
}

// InverseTransformPoint converts a point from world to local space.
func (p Pose) InverseTransformPoint(world mgl32.Vec3) mgl32.Vec3 {
	return p.rotation().Inverse().Rotate(world.Sub(p.Position))
}

// rotation treats the zero quaternion as identity so zero value poses are usable.
func (p Pose) rotation() mgl32.Quat {
	if p.Rotation.W == 0 && p.Rotation.V.LenSqr() == 0 {
		return mgl32.QuatIdent()
	}
	return p.Rotation
}
