package trackstate

import (
	"slices"

	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/track"
	"github.com/oomph-ac/racesim/vision"
)

// RaySource provides the rays of the latest scan.
type RaySource interface {
	WallRays() []vision.WallRay
	CheckpointRays() []vision.CheckpointRay
}

// Options select which contacts the holder reacts to.
type Options struct {
	CheckpointMask physics.LayerMask
	WallMask       physics.LayerMask
	// CountWallContacts keeps wall contact set until every touched wall has been left. When false
	// any wall exit clears it, even while another wall is still touched.
	CountWallContacts bool
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		CheckpointMask: physics.Mask(track.LayerCheckpoint),
		WallMask:       physics.Mask(track.LayerWall),
	}
}

// Holder keeps the checkpoint progress and wall contact of one car and assembles snapshots.
type Holder struct {
	rays RaySource
	body *physics.Body
	opts Options

	checkpoint   track.Ref
	wallContact  bool
	wallContacts int
}

// NewHolder returns a holder with no checkpoint passed and no wall contact.
func NewHolder(rays RaySource, body *physics.Body, opts Options) *Holder {
	return &Holder{rays: rays, body: body, opts: opts, checkpoint: track.EmptyRef()}
}

// Reset forgets all progress and contacts.
func (h *Holder) Reset() {
	h.checkpoint = track.EmptyRef()
	h.wallContact = false
	h.wallContacts = 0
}

// Recompute builds the snapshot of the current tick.
func (h *Holder) Recompute() Snapshot {
	s := Snapshot{
		Checkpoint:  h.checkpoint,
		WallContact: h.wallContact,
	}
	if h.rays != nil {
		s.WallRays = slices.Clone(h.rays.WallRays())
		s.CheckpointRays = slices.Clone(h.rays.CheckpointRays())
	}
	if h.body != nil {
		s.Car = Kinematics{
			Pose:            h.body.Pose,
			Velocity:        h.body.Velocity,
			AngularVelocity: h.body.AngularVelocity,
		}
	}
	return s
}

// Checkpoint returns the checkpoint last passed.
func (h *Holder) Checkpoint() track.Ref {
	return h.checkpoint
}

// WallContact reports whether the car is touching a wall.
func (h *Holder) WallContact() bool {
	return h.wallContact
}

// EnterCheckpoint records passing through a checkpoint. It is only accepted when it is the next
// one in sequence; any other checkpoint, including the current one, is ignored. The return value
// tells whether progress was made.
func (h *Holder) EnterCheckpoint(cp *track.Checkpoint) bool {
	if cp == nil || !track.IsNext(h.checkpoint.Index, cp.Index) {
		return false
	}
	h.checkpoint = track.Ref{Index: cp.Index, Checkpoint: cp}
	return true
}

// EnterWall records the start of a wall contact.
func (h *Holder) EnterWall() {
	h.wallContacts++
	h.wallContact = true
}

// ExitWall records the end of a wall contact.
func (h *Holder) ExitWall() {
	h.wallContacts = max(h.wallContacts-1, 0)
	if h.opts.CountWallContacts && h.wallContacts > 0 {
		return
	}
	h.wallContact = false
}

// Handle routes the contact events of a tick: trigger enters on checkpoint layers advance the
// sequence, collision enters and exits on wall layers toggle wall contact.
func (h *Holder) Handle(contacts []physics.Contact) {
	for _, c := range contacts {
		layer := c.Layer()
		switch {
		case c.Trigger && h.opts.CheckpointMask.Contains(layer):
			if c.Phase != physics.ContactEnter {
				continue
			}
			if cp, ok := c.Collider.Owner.(*track.Checkpoint); ok {
				h.EnterCheckpoint(cp)
			}
		case !c.Trigger && h.opts.WallMask.Contains(layer):
			if c.Phase == physics.ContactEnter {
				h.EnterWall()
			} else {
				h.ExitWall()
			}
		}
	}
}
