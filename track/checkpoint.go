package track

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
)

// CheckpointCount is the number of checkpoints in every track. Passing checkpoint
// CheckpointCount-1 completes a lap.
const CheckpointCount = 40

// NoCheckpoint is the index held before the first checkpoint of an episode is passed.
const NoCheckpoint = -1

// checkpointYawOffset is the rotation from a checkpoint's forward axis to the direction of
// travel. Checkpoints are authored with their forward axis across the track.
const checkpointYawOffset = -90

// Checkpoint is a gate across the track. Gates are static geometry owned by their layout.
type Checkpoint struct {
	Index    int
	Pose     physics.Pose
	Collider *physics.Collider
}

// TravelDirection returns the direction a car is expected to cross the checkpoint in.
func (c *Checkpoint) TravelDirection() mgl32.Vec3 {
	return game.YawQuat(checkpointYawOffset).Rotate(c.Pose.Forward())
}

// IsNext reports whether index is the checkpoint following current in the sequence.
func IsNext(current, index int) bool {
	return index == game.NextIndex(current, CheckpointCount)
}

// Ref is the checkpoint an agent last passed. Checkpoint is nil until one has been passed.
type Ref struct {
	Index      int
	Checkpoint *Checkpoint
}

// EmptyRef returns the reference held at the start of an episode.
func EmptyRef() Ref {
	return Ref{Index: NoCheckpoint}
}

// Set reports whether a checkpoint has been passed.
func (r Ref) Set() bool {
	return r.Checkpoint != nil
}
