package settings

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/agent"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/oerror"
	"github.com/oomph-ac/racesim/track"
	"github.com/oomph-ac/racesim/trackstate"
	"github.com/oomph-ac/racesim/vehicle"
	"github.com/oomph-ac/racesim/vision"
	"github.com/pelletier/go-toml"
)

// Settings contains everything that can be configured for a simulation run.
type Settings struct {
	Simulation struct {
		// FixedDelta is the duration of one tick in seconds.
		FixedDelta float64
		Gravity    float64
	}
	Track struct {
		// Path is a track layout file. The oval below is generated when it is empty.
		Path string
		Oval struct {
			RadiusX       float64
			RadiusZ       float64
			Width         float64
			WallHeight    float64
			WallThickness float64
			Segments      int
			SpawnHeight   float64
		}
	}
	Car struct {
		Mass   float64
		Radius float64
	}
	Vision struct {
		RayCount            int
		WallRayLength       float64
		CheckpointRayLength float64
		VerticalOffset      float64
	}
	Vehicle struct {
		AccelerationForward float64
		AccelerationReverse float64
		TurnStrength        float64
		DragOnGround        float64
		DragInAir           float64
		MinTurnSpeed        float64
		GroundRayOffset     float64
		GroundRayLength     float64
	}
	Agent struct {
		UseLock           bool
		LockTime          float64
		CountWallContacts bool
		Rewards           struct {
			Existence    float64
			Checkpoint   float64
			Lap          float64
			Wall         float64
			Timeout      float64
			TimeoutAfter float64
		}
		Jitter struct {
			BackMin   float64
			BackRange float64
			Lateral   float64
			Yaw       float64
		}
		Camera struct {
			Pin           bool
			LocalPosition []float64
			LocalRotation []float64
		}
	}
	Runner struct {
		// Seed is the seed every environment seed is derived from.
		Seed         uint64
		Environments int
		// Episodes is the number of episodes each environment runs. Zero runs forever.
		Episodes int
		// StatsWindow is the number of recent episodes statistics are computed over.
		StatsWindow int
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Simulation.FixedDelta = wide(game.DefaultFixedDelta)
	s.Simulation.Gravity = wide(game.DefaultGravity)

	oval := track.DefaultOvalOptions()
	s.Track.Oval.RadiusX = wide(oval.RadiusX)
	s.Track.Oval.RadiusZ = wide(oval.RadiusZ)
	s.Track.Oval.Width = wide(oval.Width)
	s.Track.Oval.WallHeight = wide(oval.WallHeight)
	s.Track.Oval.WallThickness = wide(oval.WallThickness)
	s.Track.Oval.Segments = oval.Segments
	s.Track.Oval.SpawnHeight = wide(oval.SpawnHeight)

	ag := agent.DefaultOptions()
	s.Car.Mass = wide(ag.CarMass)
	s.Car.Radius = wide(ag.CarRadius)

	vis := vision.DefaultOptions()
	s.Vision.RayCount = vis.RayCount
	s.Vision.WallRayLength = wide(vis.WallRayLength)
	s.Vision.CheckpointRayLength = wide(vis.CheckpointRayLength)
	s.Vision.VerticalOffset = wide(vis.VerticalOffset)

	veh := vehicle.DefaultOptions()
	s.Vehicle.AccelerationForward = wide(veh.AccelerationForward)
	s.Vehicle.AccelerationReverse = wide(veh.AccelerationReverse)
	s.Vehicle.TurnStrength = wide(veh.TurnStrength)
	s.Vehicle.DragOnGround = wide(veh.DragOnGround)
	s.Vehicle.DragInAir = wide(veh.DragInAir)
	s.Vehicle.MinTurnSpeed = wide(veh.MinTurnSpeed)
	s.Vehicle.GroundRayOffset = wide(veh.GroundRayOffset)
	s.Vehicle.GroundRayLength = wide(veh.GroundRayLength)

	s.Agent.UseLock = ag.UseLock
	s.Agent.LockTime = wide(ag.LockTime)
	s.Agent.CountWallContacts = ag.TrackState.CountWallContacts
	s.Agent.Rewards.Existence = wide(ag.Rewards.Existence)
	s.Agent.Rewards.Checkpoint = wide(ag.Rewards.Checkpoint)
	s.Agent.Rewards.Lap = wide(ag.Rewards.Lap)
	s.Agent.Rewards.Wall = wide(ag.Rewards.Wall)
	s.Agent.Rewards.Timeout = wide(ag.Rewards.Timeout)
	s.Agent.Rewards.TimeoutAfter = wide(ag.Rewards.TimeoutAfter)
	s.Agent.Jitter.BackMin = wide(ag.Jitter.BackMin)
	s.Agent.Jitter.BackRange = wide(ag.Jitter.BackRange)
	s.Agent.Jitter.Lateral = wide(ag.Jitter.Lateral)
	s.Agent.Jitter.Yaw = wide(ag.Jitter.Yaw)
	s.Agent.Camera.Pin = ag.Camera.Pin
	s.Agent.Camera.LocalPosition = vec64(ag.Camera.LocalPosition)
	s.Agent.Camera.LocalRotation = vec64(ag.Camera.LocalRotation)

	s.Runner.Seed = 1
	s.Runner.Environments = 4
	s.Runner.Episodes = 10
	s.Runner.StatsWindow = 100
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return oerror.New("settings file %s already exists", path)
	}
	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, oerror.New("error reading settings %s: %v", path, err)
	}

	s := DefaultSettings()
	if err = toml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("error decoding settings: %w", err)
	}
	return s, nil
}

// FixedDelta returns the tick duration in seconds.
func (s Settings) FixedDelta() float32 {
	if s.Simulation.FixedDelta <= 0 {
		return game.DefaultFixedDelta
	}
	return float32(s.Simulation.FixedDelta)
}

// Gravity returns the downward acceleration applied to cars.
func (s Settings) Gravity() float32 {
	return float32(s.Simulation.Gravity)
}

// OvalOptions returns the options of the generated oval track.
func (s Settings) OvalOptions() track.OvalOptions {
	o := track.DefaultOvalOptions()
	o.RadiusX = float32(s.Track.Oval.RadiusX)
	o.RadiusZ = float32(s.Track.Oval.RadiusZ)
	o.Width = float32(s.Track.Oval.Width)
	o.WallHeight = float32(s.Track.Oval.WallHeight)
	o.WallThickness = float32(s.Track.Oval.WallThickness)
	o.Segments = s.Track.Oval.Segments
	o.SpawnHeight = float32(s.Track.Oval.SpawnHeight)
	return o
}

// Layout loads the configured track layout, or generates the oval when no file is configured.
func (s Settings) Layout() (*track.Layout, error) {
	if s.Track.Path == "" {
		return track.Oval(s.OvalOptions()), nil
	}
	return track.Load(s.Track.Path)
}

// VisionOptions ...
func (s Settings) VisionOptions() vision.Options {
	o := vision.DefaultOptions()
	o.RayCount = s.Vision.RayCount
	o.WallRayLength = float32(s.Vision.WallRayLength)
	o.CheckpointRayLength = float32(s.Vision.CheckpointRayLength)
	o.VerticalOffset = float32(s.Vision.VerticalOffset)
	return o
}

// VehicleOptions ...
func (s Settings) VehicleOptions() vehicle.Options {
	o := vehicle.DefaultOptions()
	o.AccelerationForward = float32(s.Vehicle.AccelerationForward)
	o.AccelerationReverse = float32(s.Vehicle.AccelerationReverse)
	o.TurnStrength = float32(s.Vehicle.TurnStrength)
	o.DragOnGround = float32(s.Vehicle.DragOnGround)
	o.DragInAir = float32(s.Vehicle.DragInAir)
	o.MinTurnSpeed = float32(s.Vehicle.MinTurnSpeed)
	o.GroundRayOffset = float32(s.Vehicle.GroundRayOffset)
	o.GroundRayLength = float32(s.Vehicle.GroundRayLength)
	return o
}

// AgentOptions returns the options of an agent, including those of the cars it spawns.
func (s Settings) AgentOptions() agent.Options {
	o := agent.DefaultOptions()
	o.UseLock = s.Agent.UseLock
	o.LockTime = float32(s.Agent.LockTime)
	o.CarMass = float32(s.Car.Mass)
	o.CarRadius = float32(s.Car.Radius)
	o.Gravity = s.Gravity()

	o.Rewards = agent.Rewards{
		Existence:    float32(s.Agent.Rewards.Existence),
		Checkpoint:   float32(s.Agent.Rewards.Checkpoint),
		Lap:          float32(s.Agent.Rewards.Lap),
		Wall:         float32(s.Agent.Rewards.Wall),
		Timeout:      float32(s.Agent.Rewards.Timeout),
		TimeoutAfter: float32(s.Agent.Rewards.TimeoutAfter),
	}
	o.Jitter = agent.Jitter{
		BackMin:   float32(s.Agent.Jitter.BackMin),
		BackRange: float32(s.Agent.Jitter.BackRange),
		Lateral:   float32(s.Agent.Jitter.Lateral),
		Yaw:       float32(s.Agent.Jitter.Yaw),
	}
	o.Camera.Pin = s.Agent.Camera.Pin
	o.Camera.LocalPosition = vec32(s.Agent.Camera.LocalPosition, o.Camera.LocalPosition)
	o.Camera.LocalRotation = vec32(s.Agent.Camera.LocalRotation, o.Camera.LocalRotation)

	o.Vision = s.VisionOptions()
	o.Vehicle = s.VehicleOptions()
	o.TrackState = trackstate.DefaultOptions()
	o.TrackState.CountWallContacts = s.Agent.CountWallContacts
	return o
}

func vec64(v mgl32.Vec3) []float64 {
	return []float64{wide(v[0]), wide(v[1]), wide(v[2])}
}

// wide converts f through its shortest decimal form, so 0.02 stays 0.02 instead of picking up the
// float32 rounding error.
func wide(f float32) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	return v
}

// vec32 converts a three element slice, falling back to def for any other length.
func vec32(v []float64, def mgl32.Vec3) mgl32.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
