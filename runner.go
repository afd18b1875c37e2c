package racesim

import (
	"context"
	"encoding/binary"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/racesim/oerror"
	"github.com/oomph-ac/racesim/settings"
	"github.com/oomph-ac/racesim/utils"
	"github.com/oomph-ac/racesim/worker"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// EnvSeed derives the seed of the environment with the given index from a base seed. Equal
// inputs always give equal seeds and neighbouring indices give unrelated ones.
func EnvSeed(base uint64, index int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], base)
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	return xxh3.Hash(buf[:])
}

// Runner steps many independent environments concurrently on the worker pool.
type Runner struct {
	log      *logrus.Logger
	envs     []*Env
	policies []Policy
	window   int

	mu    deadlock.Mutex
	stats *Stats
}

// NewRunner creates n environments from the settings. newPolicy is called once per environment
// with the seed of that environment.
func NewRunner(log *logrus.Logger, s settings.Settings, n int, newPolicy func(seed uint64) Policy) (*Runner, error) {
	r := &Runner{log: log, window: s.Runner.StatsWindow, stats: NewStats(s.Runner.StatsWindow)}
	for i := range max(n, 1) {
		// Every environment needs a layout of its own, as layouts are populated into the world of the
		// environment.
		cfg, err := ConfigFromSettings(s)
		if err != nil {
			return nil, err
		}
		cfg.Seed = EnvSeed(s.Runner.Seed, i)

		e, err := New(log, cfg)
		if err != nil {
			return nil, err
		}
		r.envs = append(r.envs, e)
		r.policies = append(r.policies, newPolicy(cfg.Seed))
	}
	return r, nil
}

// Envs returns the environments of the runner.
func (r *Runner) Envs() []*Env {
	return r.envs
}

// runBatch is the number of ticks an environment steps per pool job.
const runBatch = 64

// envRun is the progress of one environment within a call to Run.
type envRun struct {
	index    int
	env      *Env
	policy   Policy
	obs      []float32
	done     int
	stats    *Stats
	finished bool
}

// Run runs every environment until it finished the given number of episodes, or until ctx is
// cancelled. Zero episodes runs until cancellation. Environments are stepped in rounds of at most
// runBatch ticks each, so every environment makes progress even when there are more of them than
// workers in the pool.
func (r *Runner) Run(ctx context.Context, episodes int) {
	runs := make([]*envRun, len(r.envs))
	for i, e := range r.envs {
		runs[i] = &envRun{index: i, env: e, policy: r.policies[i], obs: e.Reset(), stats: NewStats(r.window)}
	}
	defer func() {
		r.mu.Lock()
		for _, run := range runs {
			r.stats.Merge(run.stats)
		}
		r.mu.Unlock()
		r.log.Infof("runner finished %s", r.Stats())
	}()

	jobs := make([]func(), 0, len(runs))
	for ctx.Err() == nil {
		jobs = jobs[:0]
		for _, run := range runs {
			if !run.finished {
				jobs = append(jobs, func() {
					r.step(ctx, run, episodes)
				})
			}
		}
		if len(jobs) == 0 {
			return
		}
		worker.Run(jobs...)
	}
}

// step advances run by at most runBatch ticks. A panic finishes the environment and is reported
// to sentry.
func (r *Runner) step(ctx context.Context, run *envRun, episodes int) {
	defer func() {
		if err := recover(); err != nil {
			run.finished = true
			r.log.Errorf("env %d panicked: %v", run.index, err)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("env", strconv.Itoa(run.index))
				scope.SetTag("episodes", strconv.FormatUint(run.stats.episodes, 10))
			})

			hub.Recover(oerror.New("%v", err))
			hub.Flush(time.Second * 5)
		}
	}()

	for range runBatch {
		if episodes > 0 && run.done >= episodes {
			run.finished = true
			return
		}
		if ctx.Err() != nil {
			return
		}
		res := run.env.Step(run.policy.Act(run.env, run.obs))
		if !res.Done {
			run.obs = res.Observation
			continue
		}

		run.done++
		run.stats.Record(res.Episode)
		r.log.Debugf("env %d finished episode %d: %s", run.index, run.done, utils.KeyValsToString(
			"reason", res.Reason, "ticks", res.Episode.Ticks, "return", res.Episode.Return,
		))
		run.obs = run.env.Observation()
	}
	if episodes > 0 && run.done >= episodes {
		run.finished = true
	}
}

// Stats returns the aggregate statistics of all environments that finished running.
func (r *Runner) Stats() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.Summary()
}
