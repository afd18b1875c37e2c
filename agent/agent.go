package agent

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/track"
	"github.com/oomph-ac/racesim/trackstate"
	"github.com/oomph-ac/racesim/utils"
	"github.com/sirupsen/logrus"
)

// ActionBuckets is the number of discrete values of each action axis. The middle bucket is
// neutral.
const (
	ActionBuckets = 11
	actionMiddle  = ActionBuckets / 2
)

// Action is a pair of discrete indices in [0, ActionBuckets), for the forward and lateral axis.
type Action [2]int

// NeutralAction is the action that applies no control.
var NeutralAction = Action{actionMiddle, actionMiddle}

// Decode converts the action to a (forward, lateral) control in [-1, 1].
func (a Action) Decode() (forward, lateral float32) {
	return decodeAxis(a[0]), decodeAxis(a[1])
}

func decodeAxis(v int) float32 {
	return float32(v-actionMiddle) / actionMiddle
}

// startChoice is one start of one track a car may be spawned at.
type startChoice struct {
	layout *track.Layout
	start  track.Start
}

// Agent runs the episodes of a single car: it spawns the car, computes rewards from the track
// snapshot every tick, produces observations and forwards actions to the vehicle.
type Agent struct {
	log   *logrus.Logger
	opts  Options
	world physics.World
	rng   *rand.Rand

	starts []startChoice
	camera *Camera

	car    *Car
	choice int
	state  EpisodeState
	spawn  physics.Pose

	// scan is the snapshot taken by the last FixedUpdate. It is reused for observations while the
	// car has not moved and the checkpoint the scan was made against is still current.
	scan        trackstate.Snapshot
	scanValid   bool
	scanCurrent int

	reward   float32
	done     bool
	reason   EndReason
	terminal []float32
	episodes uint64
}

// New returns an agent spawning cars on the starts of the given layouts. The layouts must already
// be populated into w. No episode is running until ResetEpisode is called.
func New(log *logrus.Logger, opts Options, w physics.World, layouts []*track.Layout, rng *rand.Rand) *Agent {
	a := &Agent{
		log:   log,
		opts:  opts,
		world: w,
		rng:   rng,
		state: newEpisodeState(),
	}
	for _, l := range layouts {
		for _, s := range l.Starts {
			a.starts = append(a.starts, startChoice{layout: l, start: s})
		}
	}
	return a
}

// SetCamera sets the follow camera that is pinned to every spawned car when enabled.
func (a *Agent) SetCamera(c *Camera) {
	a.camera = c
}

// Car returns the current car, or nil when no episode has begun.
func (a *Agent) Car() *Car {
	return a.car
}

// State returns the state of the current episode.
func (a *Agent) State() EpisodeState {
	return a.state
}

// Layout returns the layout the current car was spawned on.
func (a *Agent) Layout() *track.Layout {
	if len(a.starts) == 0 {
		return nil
	}
	return a.starts[a.choice].layout
}

// Episodes returns the number of episodes that have ended.
func (a *Agent) Episodes() uint64 {
	return a.episodes
}

// ObservationSize returns the length of the vector returned by CollectObservations.
func (a *Agent) ObservationSize() int {
	n := a.opts.Vision.RayCount
	if a.car != nil {
		n = a.car.Scanner.Options().RayCount
	}
	return 1 + 5*max(n, 1)
}

// ResetEpisode removes the previous car and spawns a new one on a random start.
func (a *Agent) ResetEpisode() {
	a.done, a.reason = false, EndNone
	a.scanValid = false
	if a.car != nil {
		if a.camera != nil {
			a.camera.Detach()
		}
		a.car = nil
	}
	a.state = newEpisodeState()

	if len(a.starts) == 0 {
		a.log.Warn("no start positions configured, car not spawned")
		return
	}
	a.choice = pickStart(a.rng, len(a.starts))
	start := a.starts[a.choice].start
	a.spawn = Spawn(start, a.opts.Jitter, a.rng)
	a.car = newCar(a.world, a.spawn, a.opts)

	if a.camera != nil && a.opts.Camera.Pin {
		a.camera.Attach(a.car.Body, a.opts.Camera.LocalPosition, a.opts.Camera.LocalRotation)
	}
	if a.opts.UseLock {
		a.state.Locked = true
	}
	a.log.Debugf("episode %d began on %s start %d %s", a.episodes+1, a.Layout().Name, a.choice,
		utils.KeyValsToString("rotation", game.NormEuler(start.Rotation)))
}

// FixedUpdate runs one tick of the episode. contacts are the contact events of the physics step
// that preceded the tick.
func (a *Agent) FixedUpdate(dt float32, contacts []physics.Contact) {
	a.done, a.reason = false, EndNone
	if a.car != nil {
		a.car.Holder.Handle(contacts)
	}

	a.state.SinceCheckpoint += dt
	a.updateLock(dt)

	if a.car == nil {
		return
	}
	a.state.Ticks++
	a.car.Scanner.Scan(a.car.Body.Pose, a.state.LastCheckpoint)
	a.scan, a.scanValid, a.scanCurrent = a.car.Holder.Recompute(), true, a.state.LastCheckpoint
	a.updateReward(a.scan)
}

func (a *Agent) updateLock(dt float32) {
	if !a.opts.UseLock || !a.state.Locked {
		return
	}
	a.state.LockTimer += dt
	if a.state.LockTimer >= a.opts.LockTime {
		a.state.LockTimer = 0
		a.state.Locked = false
	}
}

func (a *Agent) updateReward(s trackstate.Snapshot) {
	r := a.opts.Rewards
	a.AddReward(r.Existence)

	if s.Checkpoint.Index != a.state.LastCheckpoint {
		a.state.LastCheckpoint = s.Checkpoint.Index
		a.state.SinceCheckpoint = 0
		a.AddReward(r.Checkpoint)

		if s.Checkpoint.Index == track.CheckpointCount-1 {
			a.AddReward(r.Lap)
			a.EndEpisode(EndLap)
			return
		}
	}

	if s.WallContact {
		a.AddReward(r.Wall)
	}

	if a.state.SinceCheckpoint > r.TimeoutAfter {
		a.AddReward(r.Timeout)
		a.EndEpisode(EndTimeout)
	}
}

// AddReward adds to the reward of the current tick.
func (a *Agent) AddReward(r float32) {
	a.reward += r
	a.state.Return += r
}

// Reward returns the reward accumulated since the last call and resets it.
func (a *Agent) Reward() float32 {
	r := a.reward
	a.reward = 0
	return r
}

// Done reports whether an episode ended during the last tick, and why.
func (a *Agent) Done() (bool, EndReason) {
	return a.done, a.reason
}

// TerminalObservation returns the last observation of the episode that ended during the last
// tick, or nil.
func (a *Agent) TerminalObservation() []float32 {
	if !a.done {
		return nil
	}
	return a.terminal
}

// EndEpisode ends the current episode and immediately begins the next one.
func (a *Agent) EndEpisode(reason EndReason) {
	a.terminal = a.CollectObservations()
	a.episodes++

	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("reason", reason)
	data.Set("ticks", a.state.Ticks)
	data.Set("checkpoint", a.state.LastCheckpoint)
	data.Set("return", game.Round32(a.state.Return, 3))
	if a.car != nil {
		pose := a.car.Body.Pose
		yaw := game.YawOf(pose.Forward())
		data.Set("heading", game.Round32(game.NormAngle(yaw), 3))
		if cp := a.target(a.state.LastCheckpoint); cp != nil {
			data.Set("heading_error", game.Round32(game.WrapYawDelta(yaw-game.YawOf(cp.TravelDirection())), 1))
		}
		data.Set("displacement", game.Round32(math32.Sqrt(game.Vec3HzDistSqr(pose.Position.Sub(a.spawn.Position))), 2))
	}
	a.log.Infof("episode %d ended %s", a.episodes, utils.OrderedMapToString(data))

	a.ResetEpisode()
	a.done, a.reason = true, reason
}

// CollectObservations scans the track and returns the observation vector: the alignment of the
// car with the direction of travel at its last checkpoint, then hit and distance of every wall
// ray, then hit, distance and goodHit of every checkpoint ray.
func (a *Agent) CollectObservations() []float32 {
	obs := make([]float32, 0, a.ObservationSize())
	if a.car == nil {
		return obs[:cap(obs)]
	}
	s := a.snapshot()

	cp := s.Checkpoint.Checkpoint
	if cp == nil {
		cp = a.target(0)
	}
	var alignment float32
	if cp != nil {
		alignment = s.Car.Pose.Forward().Dot(cp.TravelDirection())
	}
	obs = append(obs, alignment)

	for _, r := range s.WallRays {
		obs = append(obs, flag(r.Hit), r.Distance)
	}
	for _, r := range s.CheckpointRays {
		obs = append(obs, flag(r.Hit), r.Distance, flag(r.GoodHit))
	}
	return obs
}

// snapshot returns the snapshot of the current tick, scanning again only when the car moved or
// the checkpoint changed since the last scan.
func (a *Agent) snapshot() trackstate.Snapshot {
	if a.scanValid && a.scanCurrent == a.state.LastCheckpoint && a.scan.Car.Pose == a.car.Body.Pose &&
		len(a.scan.WallRays) == a.car.Scanner.Options().RayCount {
		return a.scan
	}
	a.car.Scanner.Scan(a.car.Body.Pose, a.state.LastCheckpoint)
	a.scan, a.scanValid, a.scanCurrent = a.car.Holder.Recompute(), true, a.state.LastCheckpoint
	return a.scan
}

// target returns the checkpoint with the given index on the current layout, or nil.
func (a *Agent) target(index int) *track.Checkpoint {
	l := a.Layout()
	if l == nil {
		return nil
	}
	return l.Checkpoint(index)
}

// ApplyAction forwards the decoded action to the vehicle. While the input lock is armed a neutral
// control is forwarded instead.
func (a *Agent) ApplyAction(act Action) {
	if a.car == nil {
		return
	}
	if a.state.Locked {
		act = NeutralAction
	}
	a.car.Controller.SetControl(act.Decode())
}

// Heuristic maps continuous input axes in [-1, 1] to an action. It returns the neutral action
// while the input lock is armed.
func (a *Agent) Heuristic(vertical, horizontal float32) Action {
	if a.state.Locked {
		return NeutralAction
	}
	return Action{game.Bucket(vertical) + actionMiddle, game.Bucket(horizontal) + actionMiddle}
}

func flag(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
