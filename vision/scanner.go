package vision

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/assert"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/track"
)

const (
	// MinRayLength is the shortest ray length accepted, anything lower is raised to it.
	MinRayLength = float32(0.01)
	fanStart     = float32(-180)
	fanEnd       = float32(180)
)

// Options configure the ray fan.
type Options struct {
	RayCount            int
	WallRayLength       float32
	CheckpointRayLength float32
	// VerticalOffset raises the ray origin above the car position.
	VerticalOffset float32

	WallMask       physics.LayerMask
	CheckpointMask physics.LayerMask
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		RayCount:            16,
		WallRayLength:       15,
		CheckpointRayLength: 15,
		WallMask:            physics.Mask(track.LayerWall),
		CheckpointMask:      physics.Mask(track.LayerCheckpoint),
	}
}

// sanitized clamps degenerate values to the minimums the scanner works with.
func (o Options) sanitized() Options {
	o.RayCount = max(o.RayCount, 1)
	o.WallRayLength = math32.Max(o.WallRayLength, MinRayLength)
	o.CheckpointRayLength = math32.Max(o.CheckpointRayLength, MinRayLength)
	return o
}

// Scanner casts a fan of rays around a car every tick. It keeps the results of the last scan in
// two arrays that always have exactly RayCount entries.
type Scanner struct {
	world physics.World
	opts  Options

	wallRays       []WallRay
	checkpointRays []CheckpointRay
}

// NewScanner returns a scanner querying the world passed.
func NewScanner(w physics.World, opts Options) *Scanner {
	s := &Scanner{world: w}
	s.SetOptions(opts)
	return s
}

// SetOptions replaces the scanner options. The ray arrays are resized on the next scan if the
// ray count changed.
func (s *Scanner) SetOptions(opts Options) {
	s.opts = opts.sanitized()
	s.ensureArrays()
}

// Options returns the sanitized options in use.
func (s *Scanner) Options() Options {
	return s.opts
}

// WallRays returns the wall rays of the last scan.
func (s *Scanner) WallRays() []WallRay {
	return s.wallRays
}

// CheckpointRays returns the checkpoint rays of the last scan.
func (s *Scanner) CheckpointRays() []CheckpointRay {
	return s.checkpointRays
}

// Scan casts every ray from pose and overwrites the stored results. current is the index of the
// checkpoint last passed; a checkpoint ray is a good hit when it strikes the one after it.
func (s *Scanner) Scan(pose physics.Pose, current int) ([]WallRay, []CheckpointRay) {
	s.ensureArrays()

	origin := pose.Position.Add(game.Up.Mul(s.opts.VerticalOffset))
	forward := game.Flatten(pose.Forward())

	for i := range s.opts.RayCount {
		angle := RayAngle(i, s.opts.RayCount)
		dir := game.YawQuat(angle).Rotate(forward)

		s.wallRays[i] = s.castWall(origin, dir, angle)
		s.checkpointRays[i] = s.castCheckpoint(origin, dir, angle, current)
	}
	return s.wallRays, s.checkpointRays
}

func (s *Scanner) castWall(origin, dir mgl32.Vec3, angle float32) WallRay {
	ray := WallRay{Angle: angle, Direction: dir}
	if hit, ok := s.raycast(origin, dir, s.opts.WallRayLength, s.opts.WallMask, false); ok {
		ray.Hit = true
		ray.Distance = hit.Distance / s.opts.WallRayLength
		ray.Point = hit.Point
		return ray
	}
	ray.Distance = 1
	ray.Point = origin.Add(dir.Mul(s.opts.WallRayLength))
	return ray
}

func (s *Scanner) castCheckpoint(origin, dir mgl32.Vec3, angle float32, current int) CheckpointRay {
	ray := CheckpointRay{Angle: angle, Direction: dir}
	if hit, ok := s.raycast(origin, dir, s.opts.CheckpointRayLength, s.opts.CheckpointMask, true); ok {
		ray.Hit = true
		ray.Distance = hit.Distance / s.opts.CheckpointRayLength
		ray.Point = hit.Point
		if cp, ok := hit.Collider.Owner.(*track.Checkpoint); ok {
			ray.GoodHit = track.IsNext(current, cp.Index)
		}
		return ray
	}
	ray.Distance = 1
	ray.Point = origin.Add(dir.Mul(s.opts.CheckpointRayLength))
	return ray
}

func (s *Scanner) raycast(origin, dir mgl32.Vec3, length float32, mask physics.LayerMask, triggers bool) (physics.Hit, bool) {
	if s.world == nil {
		return physics.Hit{}, false
	}
	hit, ok := s.world.Raycast(origin, dir, length, mask, triggers)
	if ok && hit.Collider == nil {
		hit.Collider = &physics.Collider{}
	}
	return hit, ok
}

func (s *Scanner) ensureArrays() {
	if len(s.wallRays) != s.opts.RayCount {
		s.wallRays = make([]WallRay, s.opts.RayCount)
	}
	if len(s.checkpointRays) != s.opts.RayCount {
		s.checkpointRays = make([]CheckpointRay, s.opts.RayCount)
	}
	assert.IsTrue(len(s.wallRays) == len(s.checkpointRays), "ray arrays out of sync: %d wall, %d checkpoint", len(s.wallRays), len(s.checkpointRays))
}

// RayAngle returns the yaw offset in degrees of ray i in a fan of count rays spread evenly from
// -180 to 180 degrees. A single ray points forward.
func RayAngle(i, count int) float32 {
	t := float32(0.5)
	if count > 1 {
		t = float32(i) / float32(count-1)
	}
	return game.Lerp(fanStart, fanEnd, t)
}
