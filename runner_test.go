package racesim

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/oomph-ac/racesim/agent"
	"github.com/oomph-ac/racesim/settings"
)

func TestEnvSeed(t *testing.T) {
	if EnvSeed(1, 0) != EnvSeed(1, 0) {
		t.Fatal("expected equal inputs to give equal seeds")
	}
	seen := make(map[uint64]struct{})
	for base := uint64(0); base < 4; base++ {
		for i := range 16 {
			seed := EnvSeed(base, i)
			if _, ok := seen[seed]; ok {
				t.Fatalf("expected unique seeds, got a duplicate for base %d index %d", base, i)
			}
			seen[seed] = struct{}{}
		}
	}
}

func TestRunnerAggregatesEpisodes(t *testing.T) {
	s := settings.DefaultSettings()
	r, err := NewRunner(testLogger(), s, 3, func(uint64) Policy { return NeutralPolicy })
	if err != nil {
		t.Fatalf("failed creating runner: %v", err)
	}
	if len(r.Envs()) != 3 {
		t.Fatalf("expected 3 environments, got %d", len(r.Envs()))
	}
	if r.Envs()[0].World() == r.Envs()[1].World() {
		t.Fatal("expected every environment to own its world")
	}

	r.Run(context.Background(), 2)
	sum := r.Stats()
	if sum.Episodes != 6 || sum.Timeouts != 6 {
		t.Fatalf("expected 6 timed out episodes, got %+v", sum)
	}
	// Stationary cars all end the same way.
	if sum.StdReturn > 1e-3 || sum.MeanReturn > -20 {
		t.Fatalf("expected equal timeout returns, got %+v", sum)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	r, err := NewRunner(testLogger(), settings.DefaultSettings(), 2, func(seed uint64) Policy {
		return NewRandomPolicy(seed)
	})
	if err != nil {
		t.Fatalf("failed creating runner: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Run(ctx, 0)
	if sum := r.Stats(); sum.Episodes != 0 {
		t.Fatalf("expected no episodes after cancellation, got %+v", sum)
	}
}

func TestRunnerStepsEveryEnvironment(t *testing.T) {
	n := runtime.NumCPU() + 1
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var mu sync.Mutex
	acted := make(map[*Env]struct{})
	r, err := NewRunner(testLogger(), settings.DefaultSettings(), n, func(uint64) Policy {
		return PolicyFunc(func(e *Env, _ []float32) agent.Action {
			mu.Lock()
			acted[e] = struct{}{}
			if len(acted) == n {
				cancel()
			}
			mu.Unlock()
			return agent.NeutralAction
		})
	})
	if err != nil {
		t.Fatalf("failed creating runner: %v", err)
	}

	// Zero episodes runs until every environment has acted at least once.
	r.Run(ctx, 0)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("expected every environment to act before the deadline, %d of %d did", len(acted), n)
	}
	for i, e := range r.Envs() {
		if e.ticks == 0 {
			t.Fatalf("expected environment %d to have stepped", i)
		}
	}
}

func TestPolicies(t *testing.T) {
	e := newTestEnv(t)
	obs := e.Reset()

	if act := NeutralPolicy.Act(e, obs); act != agent.NeutralAction {
		t.Fatalf("expected the neutral action, got %v", act)
	}

	p := NewRandomPolicy(9)
	for range 100 {
		act := p.Act(e, obs)
		if act[0] < 0 || act[0] >= agent.ActionBuckets || act[1] < 0 || act[1] >= agent.ActionBuckets {
			t.Fatalf("expected actions within range, got %v", act)
		}
	}

	f := FollowPolicy{Throttle: 1, Gain: 0.5}
	if act := f.Act(e, obs); act[0] != agent.ActionBuckets-1 {
		t.Fatalf("expected full throttle, got %v", act)
	}
}
