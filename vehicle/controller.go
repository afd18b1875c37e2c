package vehicle

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/track"
)

// forceScale converts the acceleration settings into newtons.
const forceScale = 1000

// Options tune the arcade model. The model favours responsiveness: there is no suspension,
// grip or weight transfer, only a downward ground ray deciding whether the car can drive and steer.
type Options struct {
	AccelerationForward float32
	AccelerationReverse float32
	// TurnStrength is the yaw rate at full lateral input, in degrees per second.
	TurnStrength float32
	DragOnGround float32
	DragInAir    float32
	// MinTurnSpeed is the speed the car must exceed to steer, so it cannot spin in place.
	MinTurnSpeed float32

	// GroundRayOffset moves the ground ray origin along the car's up axis from its centre.
	GroundRayOffset float32
	GroundRayLength float32
	GroundMask      physics.LayerMask
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		AccelerationForward: 1,
		AccelerationReverse: 1,
		TurnStrength:        180,
		DragOnGround:        3,
		DragInAir:           0.1,
		MinTurnSpeed:        0.5,
		GroundRayOffset:     -0.3,
		GroundRayLength:     0.4,
		GroundMask:          physics.Mask(track.LayerGround),
	}
}

// Controller drives a body from a two axis control signal.
type Controller struct {
	body  *physics.Body
	world physics.World
	opts  Options

	speedInput float32
	turnInput  float32
	grounded   bool
}

// NewController returns a controller for the body, probing the ground in w.
func NewController(body *physics.Body, w physics.World, opts Options) *Controller {
	return &Controller{body: body, world: w, opts: opts}
}

// SetControl sets the control signal used by the following ticks. Both axes are clamped to
// [-1, 1]. forward is turned into a drive force, lateral into a fraction of the turn rate.
func (c *Controller) SetControl(forward, lateral float32) {
	forward = game.ClampUnit(forward)
	lateral = game.ClampUnit(lateral)

	c.speedInput = 0
	if forward > 0 {
		c.speedInput = forward * c.opts.AccelerationForward * forceScale
	} else if forward < 0 {
		c.speedInput = forward * c.opts.AccelerationReverse * forceScale
	}
	c.turnInput = lateral
}

// Tick runs the controller for one physics step of dt seconds. It must be called before the
// body itself is stepped.
func (c *Controller) Tick(dt float32) {
	c.grounded = false
	if c.body == nil {
		return
	}

	pose := c.body.Pose
	if c.world != nil {
		origin := pose.TransformPoint(mgl32.Vec3{0, c.opts.GroundRayOffset, 0})
		if hit, ok := c.world.Raycast(origin, pose.Up().Mul(-1), c.opts.GroundRayLength, c.opts.GroundMask, false); ok {
			c.grounded = true
			align := game.RotationBetween(pose.Up(), hit.Normal)
			c.body.Pose.Rotation = align.Mul(c.body.Pose.Rotation).Normalize()
		}
	}

	if !c.grounded {
		c.body.LinearDamping = c.opts.DragInAir
		return
	}

	if c.body.Speed() > c.opts.MinTurnSpeed {
		yaw := c.turnInput * c.opts.TurnStrength * dt
		c.body.Pose.Rotation = game.YawQuat(yaw).Mul(c.body.Pose.Rotation).Normalize()
	}

	c.body.LinearDamping = c.opts.DragOnGround
	if c.speedInput != 0 {
		c.body.AddForce(c.body.Pose.Forward().Mul(c.speedInput))
	}
}

// Grounded reports whether the last tick found ground under the car.
func (c *Controller) Grounded() bool {
	return c.grounded
}

// SpeedInput returns the drive force magnitude, in newtons, of the current control.
func (c *Controller) SpeedInput() float32 {
	return c.speedInput
}

// TurnInput returns the lateral fraction of the current control.
func (c *Controller) TurnInput() float32 {
	return c.turnInput
}

// Body returns the body driven by the controller.
func (c *Controller) Body() *physics.Body {
	return c.body
}
