package racesim

import (
	"math/rand/v2"

	"github.com/oomph-ac/racesim/agent"
	"github.com/oomph-ac/racesim/game"
)

// Policy picks the action of the next step from the current observation.
type Policy interface {
	Act(e *Env, obs []float32) agent.Action
}

// PolicyFunc ...
type PolicyFunc func(e *Env, obs []float32) agent.Action

// Act ...
func (f PolicyFunc) Act(e *Env, obs []float32) agent.Action {
	return f(e, obs)
}

// NeutralPolicy never applies any control.
var NeutralPolicy = PolicyFunc(func(*Env, []float32) agent.Action {
	return agent.NeutralAction
})

// RandomPolicy picks uniformly random actions.
type RandomPolicy struct {
	rng *rand.Rand
}

// NewRandomPolicy ...
func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

// Act ...
func (p *RandomPolicy) Act(*Env, []float32) agent.Action {
	return agent.Action{p.rng.IntN(agent.ActionBuckets), p.rng.IntN(agent.ActionBuckets)}
}

// FollowPolicy drives with a constant throttle and steers towards the side where the wall rays see
// the most free space. Inputs go through the agent's heuristic, so the input lock is honoured.
type FollowPolicy struct {
	Throttle float32
	// Gain scales the difference in free space between both sides into a steering input.
	Gain float32
}

// Act ...
func (p FollowPolicy) Act(e *Env, obs []float32) agent.Action {
	car := e.Agent().Car()
	if car == nil {
		return agent.NeutralAction
	}

	var left, right float32
	for _, r := range car.Scanner.WallRays() {
		switch {
		case r.Angle > 0 && r.Angle < 90:
			right += r.Distance
		case r.Angle < 0 && r.Angle > -90:
			left += r.Distance
		}
	}
	return e.Agent().Heuristic(p.Throttle, game.ClampUnit((right-left)*p.Gain))
}
