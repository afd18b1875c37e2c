package agent

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/track"
)

// Spawn returns the pose of a car spawned at start with a random offset drawn from rng.
func Spawn(start track.Start, j Jitter, rng *rand.Rand) physics.Pose {
	base := start.Pose()
	back := j.BackMin + rng.Float32()*j.BackRange
	lateral := uniform(rng, j.Lateral)
	yaw := uniform(rng, j.Yaw)

	pos := start.Position.
		Sub(base.Forward().Mul(back)).
		Add(base.Right().Mul(lateral))
	return physics.Pose{
		Position: pos,
		Rotation: game.EulerToQuat(start.Rotation.Add(mgl32.Vec3{0, yaw, 0})),
	}
}

// uniform returns a value in [-r, r].
func uniform(rng *rand.Rand, r float32) float32 {
	return (rng.Float32()*2 - 1) * r
}

// pickStart picks one of n start choices uniformly.
func pickStart(rng *rand.Rand, n int) int {
	if n <= 1 {
		return 0
	}
	return rng.IntN(n)
}
