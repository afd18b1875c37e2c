package track

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/oerror"
	"github.com/oomph-ac/racesim/physics"
)

// Collision layers used by track geometry.
const (
	LayerGround     physics.Layer = 8
	LayerWall       physics.Layer = 9
	LayerCheckpoint physics.Layer = 10
)

// Start is a pose a car may be spawned at. Rotation holds euler angles in degrees.
type Start struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
}

// Pose returns the start as a physics pose.
func (s Start) Pose() physics.Pose {
	return physics.Pose{Position: s.Position, Rotation: game.EulerToQuat(s.Rotation)}
}

// Layout is the static geometry of one track.
type Layout struct {
	Name        string
	Checkpoints []*Checkpoint
	Walls       []*physics.Collider
	Ground      []*physics.Collider
	Starts      []Start
}

// Checkpoint returns the checkpoint with the given index, or nil.
func (l *Layout) Checkpoint(index int) *Checkpoint {
	if index < 0 || index >= len(l.Checkpoints) {
		return nil
	}
	return l.Checkpoints[index]
}

// AddCheckpoint creates a checkpoint gate at pose. The gate spans width along the pose's forward
// axis and is a trigger on LayerCheckpoint.
func (l *Layout) AddCheckpoint(index int, pose physics.Pose, width, height float32) *Checkpoint {
	c := physics.NewBoxCollider(pose, mgl32.Vec3{0.25, height / 2, width / 2}, LayerCheckpoint)
	c.Trigger = true
	cp := &Checkpoint{Index: index, Pose: pose, Collider: c}
	c.Owner = cp
	l.Checkpoints = append(l.Checkpoints, cp)
	return cp
}

// AddWall adds a solid wall box with the given full size.
func (l *Layout) AddWall(pose physics.Pose, size mgl32.Vec3) *physics.Collider {
	c := physics.NewBoxCollider(pose, size.Mul(0.5), LayerWall)
	l.Walls = append(l.Walls, c)
	return c
}

// AddGround adds a solid ground box with the given full size.
func (l *Layout) AddGround(pose physics.Pose, size mgl32.Vec3) *physics.Collider {
	c := physics.NewBoxCollider(pose, size.Mul(0.5), LayerGround)
	l.Ground = append(l.Ground, c)
	return c
}

// Validate checks that the layout holds exactly CheckpointCount checkpoints stored in index order,
// that every checkpoint, wall and ground piece has a collider and that there is at least one start.
func (l *Layout) Validate() error {
	if len(l.Checkpoints) != CheckpointCount {
		return oerror.New("track %q has %d checkpoints, expected %d", l.Name, len(l.Checkpoints), CheckpointCount)
	}
	for i, cp := range l.Checkpoints {
		if cp == nil || cp.Index != i {
			return oerror.New("track %q checkpoint at position %d is out of order", l.Name, i)
		}
		if cp.Collider == nil {
			return oerror.New("track %q checkpoint %d has no collider", l.Name, i)
		}
	}
	for _, c := range l.Walls {
		if c == nil {
			return oerror.New("track %q has a wall without a collider", l.Name)
		}
	}
	for _, c := range l.Ground {
		if c == nil {
			return oerror.New("track %q has ground without a collider", l.Name)
		}
	}
	if len(l.Starts) == 0 {
		return oerror.New("track %q has no start positions", l.Name)
	}
	return nil
}

// Populate adds every collider of the layout to the world.
func (l *Layout) Populate(w *physics.StaticWorld) {
	w.Add(l.Ground...)
	w.Add(l.Walls...)
	for _, cp := range l.Checkpoints {
		w.Add(cp.Collider)
	}
}

// SortCheckpoints orders the checkpoints by index.
func (l *Layout) SortCheckpoints() {
	sorted := make([]*Checkpoint, len(l.Checkpoints))
	for _, cp := range l.Checkpoints {
		if cp.Index >= 0 && cp.Index < len(sorted) && sorted[cp.Index] == nil {
			sorted[cp.Index] = cp
			continue
		}
		// Leave Validate to report the problem.
		return
	}
	l.Checkpoints = sorted
}
