package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
)

// minMass keeps force integration finite for misconfigured bodies.
const minMass = 0.01

// Body is a rigid sphere integrated with semi-implicit Euler. The sphere only exists for
// resolving contacts against static colliders; rotation is free and not affected by collisions.
type Body struct {
	Pose            Pose
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3

	Mass   float32
	Radius float32

	LinearDamping  float32
	AngularDamping float32
	// UseGravity applies a downward acceleration of Gravity every step.
	UseGravity bool
	Gravity    float32

	force mgl32.Vec3
}

// NewBody returns a body at the given pose with gravity enabled.
func NewBody(pose Pose, mass, radius float32) *Body {
	pose.Rotation = pose.rotation()
	return &Body{
		Pose:           pose,
		Mass:           math32.Max(mass, minMass),
		Radius:         radius,
		AngularDamping: 0.05,
		UseGravity:     true,
		Gravity:        game.DefaultGravity,
	}
}

// AddForce accumulates a force, in newtons, applied during the next Step.
func (b *Body) AddForce(f mgl32.Vec3) {
	b.force = b.force.Add(f)
}

// Speed returns the magnitude of the linear velocity.
func (b *Body) Speed() float32 {
	return b.Velocity.Len()
}

// Step integrates the body over dt seconds and clears accumulated forces.
func (b *Body) Step(dt float32) {
	if dt <= 0 {
		return
	}

	accel := b.force.Mul(1 / math32.Max(b.Mass, minMass))
	if b.UseGravity {
		accel = accel.Sub(game.Up.Mul(b.Gravity))
	}
	b.force = mgl32.Vec3{}

	b.Velocity = b.Velocity.Add(accel.Mul(dt)).Mul(dampingFactor(b.LinearDamping, dt))
	b.AngularVelocity = b.AngularVelocity.Mul(dampingFactor(b.AngularDamping, dt))

	b.Pose.Position = b.Pose.Position.Add(b.Velocity.Mul(dt))
	if w := b.AngularVelocity.Len(); w > 1e-6 {
		spin := mgl32.QuatRotate(w*dt, b.AngularVelocity.Mul(1/w))
		b.Pose.Rotation = spin.Mul(b.Pose.Rotation).Normalize()
	}
}

// ResolveStatic pushes the body out of every solid collider it penetrates and removes the part of
// its velocity heading into them.
func (b *Body) ResolveStatic(w World, mask LayerMask) {
	if w == nil {
		return
	}
	for _, c := range w.Overlapping(b.Pose.Position, b.Radius, mask, false) {
		normal, depth, ok := c.penetration(b.Pose.Position, b.Radius)
		if !ok || depth <= 0 {
			continue
		}
		b.Pose.Position = b.Pose.Position.Add(normal.Mul(depth))
		if into := b.Velocity.Dot(normal); into < 0 {
			b.Velocity = b.Velocity.Sub(normal.Mul(into))
		}
	}
}

func dampingFactor(damping, dt float32) float32 {
	return game.ClampFloat(1-damping*dt, 0, 1)
}
