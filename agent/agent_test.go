package agent

import (
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/track"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const dt = float32(0.02)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func newTestAgent(t *testing.T, opts Options) (*Agent, *track.Layout) {
	t.Helper()
	layout := track.Oval(track.DefaultOvalOptions())
	if err := layout.Validate(); err != nil {
		t.Fatalf("invalid test layout: %v", err)
	}
	w := physics.NewStaticWorld()
	layout.Populate(w)

	a := New(testLogger(), opts, w, []*track.Layout{layout}, rand.New(rand.NewPCG(1, 2)))
	a.ResetEpisode()
	if a.Car() == nil {
		t.Fatal("expected a car to be spawned")
	}
	return a, layout
}

func TestActionDecode(t *testing.T) {
	cases := []struct {
		act              Action
		forward, lateral float32
	}{
		{Action{5, 5}, 0, 0},
		{Action{10, 0}, 1, -1},
		{Action{0, 10}, -1, 1},
		{Action{7, 4}, 0.4, -0.2},
	}
	for _, c := range cases {
		f, l := c.act.Decode()
		if !game.Float32ApproxEq(f, c.forward) || !game.Float32ApproxEq(l, c.lateral) {
			t.Fatalf("expected %v to decode to (%v, %v), got (%v, %v)", c.act, c.forward, c.lateral, f, l)
		}
	}
}

func TestLapCompletion(t *testing.T) {
	a, layout := newTestAgent(t, DefaultOptions())
	first := a.Car()

	for i := 0; i < track.CheckpointCount-1; i++ {
		if !first.Holder.EnterCheckpoint(layout.Checkpoint(i)) {
			t.Fatalf("expected checkpoint %d to be accepted", i)
		}
		a.FixedUpdate(dt, nil)
		if r := a.Reward(); r < 4.9 {
			t.Fatalf("expected a checkpoint reward for %d, got %v", i, r)
		}
		if done, _ := a.Done(); done {
			t.Fatalf("expected the episode to continue after checkpoint %d", i)
		}
	}

	last := layout.Checkpoint(track.CheckpointCount - 1)
	a.FixedUpdate(dt, []physics.Contact{{Phase: physics.ContactEnter, Collider: last.Collider, Trigger: true}})

	if r := a.Reward(); r < 100+5-0.05-1e-3 {
		t.Fatalf("expected the lap bonus, got %v", r)
	}
	done, reason := a.Done()
	if !done || reason != EndLap {
		t.Fatalf("expected the episode to end with a lap, got %v %v", done, reason)
	}
	if a.Car() == first {
		t.Fatal("expected a new car to be spawned for the next episode")
	}
	if a.State().LastCheckpoint != track.NoCheckpoint || a.State().SinceCheckpoint != 0 {
		t.Fatalf("expected the next episode to start fresh, got %+v", a.State())
	}
	if obs := a.TerminalObservation(); len(obs) != a.ObservationSize() {
		t.Fatalf("expected a terminal observation of size %d, got %d", a.ObservationSize(), len(obs))
	}
	if a.Episodes() != 1 {
		t.Fatalf("expected 1 finished episode, got %d", a.Episodes())
	}

	a.FixedUpdate(dt, nil)
	if done, _ := a.Done(); done {
		t.Fatal("expected done to be cleared on the next tick")
	}
}

func TestTimeout(t *testing.T) {
	opts := DefaultOptions()
	a, _ := newTestAgent(t, opts)

	existence, timeout := opts.Rewards.Existence, opts.Rewards.Timeout
	want := float32(0)
	want += existence
	want += timeout

	for tick := 1; tick <= 300; tick++ {
		a.FixedUpdate(dt, nil)
		r := a.Reward()
		done, reason := a.Done()
		if !done {
			if r != existence {
				t.Fatalf("expected only the existence cost on tick %d, got %v", tick, r)
			}
			continue
		}
		if reason != EndTimeout {
			t.Fatalf("expected a timeout, got %v", reason)
		}
		if r != want {
			t.Fatalf("expected a timeout reward of %v, got %v", want, r)
		}
		if tick < 250 || tick > 252 {
			t.Fatalf("expected the timeout just after 5 seconds, got tick %d", tick)
		}
		return
	}
	t.Fatal("expected the episode to time out")
}

func TestWallPenaltyIsCumulative(t *testing.T) {
	opts := DefaultOptions()
	a, _ := newTestAgent(t, opts)

	want := float32(0)
	want += opts.Rewards.Existence
	want += opts.Rewards.Wall

	a.Car().Holder.EnterWall()
	for range 3 {
		a.FixedUpdate(dt, nil)
		if r := a.Reward(); r != want {
			t.Fatalf("expected %v while touching a wall, got %v", want, r)
		}
	}
	a.Car().Holder.ExitWall()
	a.FixedUpdate(dt, nil)
	if r := a.Reward(); r != opts.Rewards.Existence {
		t.Fatalf("expected only the existence cost after leaving the wall, got %v", r)
	}
}

func TestInputLock(t *testing.T) {
	opts := DefaultOptions()
	opts.UseLock = true
	opts.LockTime = 0.1
	a, _ := newTestAgent(t, opts)

	if !a.State().Locked {
		t.Fatal("expected the lock to be armed at episode start")
	}
	if act := a.Heuristic(1, -1); act != NeutralAction {
		t.Fatalf("expected the neutral action while locked, got %v", act)
	}
	a.ApplyAction(Action{10, 10})
	if c := a.Car().Controller; c.SpeedInput() != 0 || c.TurnInput() != 0 {
		t.Fatal("expected no control while locked")
	}

	for range 6 {
		a.FixedUpdate(dt, nil)
	}
	if a.State().Locked || a.State().LockTimer != 0 {
		t.Fatalf("expected the lock to be released, got %+v", a.State())
	}

	if act := a.Heuristic(1, -1); act != (Action{10, 0}) {
		t.Fatalf("expected (10, 0), got %v", act)
	}
	if act := a.Heuristic(0.05, 0.5); act != (Action{5, 7}) {
		t.Fatalf("expected (5, 7), got %v", act)
	}
	a.ApplyAction(Action{10, 0})
	if c := a.Car().Controller; c.SpeedInput() <= 0 || c.TurnInput() != -1 {
		t.Fatalf("expected full forward and left control, got %v %v", c.SpeedInput(), c.TurnInput())
	}
}

func TestNoLockWithoutUseLock(t *testing.T) {
	a, _ := newTestAgent(t, DefaultOptions())
	if a.State().Locked {
		t.Fatal("expected no lock when it is disabled")
	}
	if act := a.Heuristic(-1, 0); act != (Action{0, 5}) {
		t.Fatalf("expected (0, 5), got %v", act)
	}
}

func TestObservationLayout(t *testing.T) {
	a, _ := newTestAgent(t, DefaultOptions())
	obs := a.CollectObservations()

	n := a.Car().Scanner.Options().RayCount
	if len(obs) != 1+5*n || len(obs) != a.ObservationSize() {
		t.Fatalf("expected %d observations, got %d", 1+5*n, len(obs))
	}
	// No checkpoint was passed, so the alignment is measured against checkpoint 0, which lies
	// just ahead of the start.
	if obs[0] < 0.9 {
		t.Fatalf("expected the car to be aligned with checkpoint 0, got %v", obs[0])
	}

	walls, cps := a.Car().Scanner.WallRays(), a.Car().Scanner.CheckpointRays()
	for i, r := range walls {
		if obs[1+2*i] != flag(r.Hit) || obs[2+2*i] != r.Distance {
			t.Fatalf("unexpected wall ray %d in observation", i)
		}
	}
	base := 1 + 2*n
	for i, r := range cps {
		if obs[base+3*i] != flag(r.Hit) || obs[base+3*i+1] != r.Distance || obs[base+3*i+2] != flag(r.GoodHit) {
			t.Fatalf("unexpected checkpoint ray %d in observation", i)
		}
	}

	car := a.Car()
	car.Body.Pose.Rotation = game.YawQuat(180).Mul(car.Body.Pose.Rotation)
	if obs := a.CollectObservations(); obs[0] > -0.9 {
		t.Fatalf("expected a reversed car to be anti-aligned, got %v", obs[0])
	}
}

func TestObservationWithoutCar(t *testing.T) {
	a := New(testLogger(), DefaultOptions(), physics.NewStaticWorld(), nil, rand.New(rand.NewPCG(1, 2)))
	a.ResetEpisode()
	if a.Car() != nil {
		t.Fatal("expected no car without starts")
	}
	obs := a.CollectObservations()
	if len(obs) != a.ObservationSize() {
		t.Fatalf("expected a zero observation of size %d, got %d", a.ObservationSize(), len(obs))
	}
	a.ApplyAction(Action{10, 10})
	a.FixedUpdate(dt, nil)
	if r := a.Reward(); r != 0 {
		t.Fatalf("expected the tick to be skipped, got reward %v", r)
	}
}

func TestSpawnJitter(t *testing.T) {
	start := track.Start{Position: mgl32.Vec3{10, 0.5, -4}, Rotation: mgl32.Vec3{0, 30, 0}}
	base := start.Pose()
	j := DefaultJitter()

	rng := rand.New(rand.NewPCG(7, 7))
	for i := range 200 {
		p := Spawn(start, j, rng)
		d := p.Position.Sub(start.Position)

		back := -d.Dot(base.Forward())
		if back < 1.5-1e-4 || back > 2+1e-4 {
			t.Fatalf("sample %d: expected a backward offset in [1.5, 2], got %v", i, back)
		}
		if lateral := d.Dot(base.Right()); math32.Abs(lateral) > 2+1e-4 {
			t.Fatalf("sample %d: expected a lateral offset in [-2, 2], got %v", i, lateral)
		}
		if d[1] != 0 {
			t.Fatalf("sample %d: expected no vertical offset, got %v", i, d[1])
		}
		yaw := game.WrapYawDelta(game.YawOf(p.Forward()) - 30)
		if math32.Abs(yaw) > 15+1e-3 {
			t.Fatalf("sample %d: expected a yaw offset in [-15, 15], got %v", i, yaw)
		}
	}

	a := Spawn(start, j, rand.New(rand.NewPCG(3, 4)))
	b := Spawn(start, j, rand.New(rand.NewPCG(3, 4)))
	if a != b {
		t.Fatalf("expected equal seeds to spawn equal poses, got %v and %v", a, b)
	}
}

func TestCameraFollowsCar(t *testing.T) {
	opts := DefaultOptions()
	opts.Camera.Pin = true
	layout := track.Oval(track.DefaultOvalOptions())
	w := physics.NewStaticWorld()
	layout.Populate(w)

	a := New(testLogger(), opts, w, []*track.Layout{layout}, rand.New(rand.NewPCG(5, 6)))
	cam := NewCamera(physics.Pose{})
	a.SetCamera(cam)
	a.ResetEpisode()

	if !cam.Attached() {
		t.Fatal("expected the camera to be pinned to the car")
	}
	body := a.Car().Body
	want := body.Pose.TransformPoint(opts.Camera.LocalPosition)
	if !game.Vec3ApproxEq(cam.Pose().Position, want, 1e-4) {
		t.Fatalf("expected camera at %v, got %v", want, cam.Pose().Position)
	}

	body.Pose.Position = body.Pose.Position.Add(mgl32.Vec3{0, 0, 3})
	moved := cam.Pose().Position
	if !game.Vec3ApproxEq(moved, want.Add(mgl32.Vec3{0, 0, 3}), 1e-4) {
		t.Fatalf("expected the camera to follow the car, got %v", moved)
	}

	a.ResetEpisode()
	if !cam.Attached() || cam.parent == body {
		t.Fatal("expected the camera to be pinned to the new car")
	}

	cam.Detach()
	if cam.Attached() {
		t.Fatal("expected the camera to be detached")
	}
	if p := cam.Pose().Position; !game.Vec3ApproxEq(p, a.Car().Body.Pose.TransformPoint(opts.Camera.LocalPosition), 1e-4) {
		t.Fatalf("expected a detached camera to keep its pose, got %v", p)
	}
}

type countingWorld struct {
	physics.World
	casts int
}

func (w *countingWorld) Raycast(origin, dir mgl32.Vec3, maxDistance float32, mask physics.LayerMask, triggers bool) (physics.Hit, bool) {
	w.casts++
	return w.World.Raycast(origin, dir, maxDistance, mask, triggers)
}

func TestObservationReusesTickScan(t *testing.T) {
	layout := track.Oval(track.DefaultOvalOptions())
	static := physics.NewStaticWorld()
	layout.Populate(static)
	w := &countingWorld{World: static}

	a := New(testLogger(), DefaultOptions(), w, []*track.Layout{layout}, rand.New(rand.NewPCG(1, 2)))
	a.ResetEpisode()

	a.FixedUpdate(dt, nil)
	a.Reward()
	casts := w.casts
	if casts == 0 {
		t.Fatal("expected the tick to scan")
	}
	first := a.CollectObservations()
	if w.casts != casts {
		t.Fatalf("expected the observation to reuse the scan of the tick, got %d extra casts", w.casts-casts)
	}
	if again := a.CollectObservations(); len(again) != len(first) || again[0] != first[0] {
		t.Fatal("expected repeated observations to be equal")
	}

	// A checkpoint gained during the tick changes which gate is the next one, so the rays are cast again.
	a.Car().Holder.EnterCheckpoint(layout.Checkpoint(0))
	a.FixedUpdate(dt, nil)
	casts = w.casts
	a.CollectObservations()
	if w.casts == casts {
		t.Fatal("expected a rescan after the checkpoint changed")
	}

	casts = w.casts
	car := a.Car()
	car.Body.Pose.Position = car.Body.Pose.Position.Add(mgl32.Vec3{0.5, 0, 0})
	a.CollectObservations()
	if w.casts == casts {
		t.Fatal("expected a rescan after the car moved")
	}
}

func TestEpisodeSummary(t *testing.T) {
	layout := track.Oval(track.DefaultOvalOptions())
	w := physics.NewStaticWorld()
	layout.Populate(w)
	log, hook := logtest.NewNullLogger()

	a := New(log, DefaultOptions(), w, []*track.Layout{layout}, rand.New(rand.NewPCG(3, 4)))
	a.ResetEpisode()
	a.Car().Holder.EnterCheckpoint(layout.Checkpoint(0))
	a.FixedUpdate(dt, nil)
	a.EndEpisode(EndTimeout)

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.InfoLevel {
		t.Fatal("expected the episode summary to be logged")
	}
	for _, field := range []string{"reason=timeout", "checkpoint=0", "heading=", "heading_error=", "displacement=0]"} {
		if !strings.Contains(entry.Message, field) {
			t.Fatalf("expected %q in summary %q", field, entry.Message)
		}
	}
}
