package racesim

import (
	"math/rand/v2"

	"github.com/oomph-ac/racesim/agent"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/oerror"
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/settings"
	"github.com/oomph-ac/racesim/track"
	"github.com/oomph-ac/racesim/utils"
	"github.com/sirupsen/logrus"
)

// contactSkin is how far outside the car's sphere colliders are still reported as touching. Static
// resolution leaves the sphere exactly on the surface of a wall it was pushed out of.
const contactSkin = 0.05

// Config configures an Env.
type Config struct {
	Agent      agent.Options
	FixedDelta float32
	// Layouts are the tracks cars are spawned on. They are populated into a world owned by the Env,
	// so the same layout must not be shared between environments stepped concurrently.
	Layouts []*track.Layout
	Seed    uint64
	// StatsWindow is the number of recent episodes Stats are computed over.
	StatsWindow int
}

// ConfigFromSettings builds a config from settings, loading or generating the track layout.
func ConfigFromSettings(s settings.Settings) (Config, error) {
	l, err := s.Layout()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Agent:       s.AgentOptions(),
		FixedDelta:  s.FixedDelta(),
		Layouts:     []*track.Layout{l},
		Seed:        s.Runner.Seed,
		StatsWindow: s.Runner.StatsWindow,
	}, nil
}

// StepResult is the outcome of one Step.
type StepResult struct {
	// Observation is the observation after the step. When Done is set it is the last observation of
	// the episode that ended; the first observation of the next one is returned by Observation.
	Observation []float32
	Reward      float32
	Done        bool
	Reason      agent.EndReason
	// Episode summarises the episode that ended, when Done is set.
	Episode EpisodeResult
}

// Env is a single racing environment: one agent driving on a static track world with a fixed
// timestep. An Env is not safe for concurrent use.
type Env struct {
	log   *logrus.Logger
	world *physics.StaticWorld
	agent *agent.Agent

	tracker   *physics.ContactTracker
	solidMask physics.LayerMask
	dt        float32

	stats         *Stats
	episodeReturn float32
	episodeTicks  uint64
	ticks         uint64
}

// New returns a new environment. No episode is running until Reset is called.
func New(log *logrus.Logger, cfg Config) (*Env, error) {
	if len(cfg.Layouts) == 0 {
		return nil, oerror.New("no track layouts configured")
	}
	w := physics.NewStaticWorld()
	for _, l := range cfg.Layouts {
		if err := l.Validate(); err != nil {
			return nil, oerror.New("invalid layout %q: %v", l.Name, err)
		}
		l.Populate(w)
	}
	if cfg.FixedDelta <= 0 {
		cfg.FixedDelta = game.DefaultFixedDelta
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, ^cfg.Seed))
	return &Env{
		log:       log,
		world:     w,
		agent:     agent.New(log, cfg.Agent, w, cfg.Layouts, rng),
		tracker:   physics.NewContactTracker(cfg.Agent.TrackState.WallMask|cfg.Agent.TrackState.CheckpointMask, contactSkin),
		solidMask: physics.Mask(track.LayerGround, track.LayerWall),
		dt:        cfg.FixedDelta,
		stats:     NewStats(cfg.StatsWindow),
	}, nil
}

// Agent returns the agent of the environment.
func (e *Env) Agent() *agent.Agent {
	return e.agent
}

// World returns the collider world of the environment.
func (e *Env) World() physics.World {
	return e.world
}

// Stats returns the statistics of the episodes that ended so far.
func (e *Env) Stats() *Stats {
	return e.stats
}

// FixedDelta returns the duration of one step in seconds.
func (e *Env) FixedDelta() float32 {
	return e.dt
}

// ObservationSize returns the length of every observation.
func (e *Env) ObservationSize() int {
	return e.agent.ObservationSize()
}

// Reset abandons the running episode, if any, begins a new one and returns its first observation.
func (e *Env) Reset() []float32 {
	e.agent.ResetEpisode()
	e.agent.Reward()
	e.tracker.Reset()
	e.episodeReturn, e.episodeTicks = 0, 0
	return e.agent.CollectObservations()
}

// Observation returns the current observation.
func (e *Env) Observation() []float32 {
	return e.agent.CollectObservations()
}

// Step applies an action and advances the simulation by one tick.
func (e *Env) Step(act agent.Action) StepResult {
	e.ticks++
	e.episodeTicks++
	e.agent.ApplyAction(act)

	var contacts []physics.Contact
	if car := e.agent.Car(); car != nil {
		car.Controller.Tick(e.dt)
		car.Body.Step(e.dt)
		car.Body.ResolveStatic(e.world, e.solidMask)
		contacts = e.tracker.Update(e.world, car.Body.Pose.Position, car.Body.Radius)
		if len(contacts) > 0 && e.log.IsLevelEnabled(logrus.TraceLevel) {
			for _, c := range contacts {
				e.log.Tracef("tick %d contact %s", e.ticks, utils.KeyValsToString("phase", c.Phase, "layer", c.Layer(), "collider", c.Collider.ID))
			}
		}
	}
	e.agent.FixedUpdate(e.dt, contacts)

	res := StepResult{Reward: e.agent.Reward()}
	e.episodeReturn += res.Reward

	done, reason := e.agent.Done()
	if !done {
		res.Observation = e.agent.CollectObservations()
		return res
	}
	res.Done, res.Reason = true, reason
	res.Observation = e.agent.TerminalObservation()

	res.Episode = EpisodeResult{Return: e.episodeReturn, Ticks: e.episodeTicks, Reason: reason}
	e.stats.Record(res.Episode)
	e.tracker.Reset()
	e.episodeReturn, e.episodeTicks = 0, 0
	return res
}
