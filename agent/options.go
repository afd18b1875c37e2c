package agent

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/trackstate"
	"github.com/oomph-ac/racesim/vehicle"
	"github.com/oomph-ac/racesim/vision"
)

// Rewards holds the reward shaping of an episode.
type Rewards struct {
	// Existence is granted every tick.
	Existence float32
	// Checkpoint is granted when the next checkpoint in sequence is passed.
	Checkpoint float32
	// Lap is granted on top of Checkpoint when the last checkpoint is passed. The episode ends.
	Lap float32
	// Wall is granted every tick the car touches a wall.
	Wall float32
	// Timeout is granted when no checkpoint was passed for longer than TimeoutAfter seconds. The
	// episode ends.
	Timeout      float32
	TimeoutAfter float32
}

// DefaultRewards ...
func DefaultRewards() Rewards {
	return Rewards{
		Existence:    -0.05,
		Checkpoint:   5,
		Lap:          100,
		Wall:         -0.05,
		Timeout:      -20,
		TimeoutAfter: 5,
	}
}

// Jitter is the random offset applied to a start pose when a car is spawned.
type Jitter struct {
	// BackMin and BackRange move the car backwards along its forward axis by
	// BackMin+U[0, BackRange].
	BackMin   float32
	BackRange float32
	// Lateral moves the car sideways by U[-Lateral, Lateral].
	Lateral float32
	// Yaw rotates the car by U[-Yaw, Yaw] degrees.
	Yaw float32
}

// DefaultJitter ...
func DefaultJitter() Jitter {
	return Jitter{BackMin: 1.5, BackRange: 0.5, Lateral: 2, Yaw: 15}
}

// CameraOptions configures pinning the follow camera to the car.
type CameraOptions struct {
	Pin           bool
	LocalPosition mgl32.Vec3
	LocalRotation mgl32.Vec3
}

// Options configures an Agent and the cars it spawns.
type Options struct {
	Rewards Rewards
	Jitter  Jitter
	Camera  CameraOptions

	// UseLock arms the input lock for LockTime seconds at the start of every episode.
	UseLock  bool
	LockTime float32

	CarMass   float32
	CarRadius float32
	// Gravity is the downward acceleration applied to spawned cars.
	Gravity float32

	Vision     vision.Options
	Vehicle    vehicle.Options
	TrackState trackstate.Options
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		Rewards: DefaultRewards(),
		Jitter:  DefaultJitter(),
		Camera: CameraOptions{
			LocalPosition: mgl32.Vec3{0, 3, -6},
			LocalRotation: mgl32.Vec3{15, 0, 0},
		},
		LockTime:   1,
		CarMass:    20,
		CarRadius:  0.5,
		Gravity:    game.DefaultGravity,
		Vision:     vision.DefaultOptions(),
		Vehicle:    vehicle.DefaultOptions(),
		TrackState: trackstate.DefaultOptions(),
	}
}
