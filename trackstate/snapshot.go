package trackstate

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/track"
	"github.com/oomph-ac/racesim/vision"
)

// Kinematics is the state of the car body sampled at the time of a snapshot.
type Kinematics struct {
	Pose            physics.Pose
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3
}

// Snapshot is everything the agent knows about the car for one tick. The ray arrays and the
// kinematics are sampled fresh every tick, the checkpoint and wall contact persist until an
// event changes them.
type Snapshot struct {
	WallRays       []vision.WallRay
	CheckpointRays []vision.CheckpointRay
	Checkpoint     track.Ref
	Car            Kinematics
	WallContact    bool
}
