package racesim

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/racesim/agent"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/utils"
)

// EpisodeResult summarises one finished episode.
type EpisodeResult struct {
	Return float32
	Ticks  uint64
	Reason agent.EndReason
}

// Stats aggregates the results of finished episodes. Returns are kept for the most recent window
// of episodes only.
type Stats struct {
	returns  *utils.Ring[float32]
	episodes uint64
	laps     uint64
	timeouts uint64
	ticks    uint64
}

// Summary is a snapshot of Stats.
type Summary struct {
	Episodes   uint64
	Laps       uint64
	Timeouts   uint64
	Ticks      uint64
	MeanReturn float32
	StdReturn  float32
	BestReturn float32
}

// NewStats returns stats keeping the returns of the last window episodes.
func NewStats(window int) *Stats {
	return &Stats{returns: utils.NewRing[float32](window)}
}

// Record adds a finished episode.
func (s *Stats) Record(r EpisodeResult) {
	s.returns.Push(r.Return)
	s.episodes++
	s.ticks += r.Ticks
	switch r.Reason {
	case agent.EndLap:
		s.laps++
	case agent.EndTimeout:
		s.timeouts++
	}
}

// Merge adds the counters and recent returns of another Stats.
func (s *Stats) Merge(o *Stats) {
	for r := range o.returns.All() {
		s.returns.Push(r)
	}
	s.episodes += o.episodes
	s.laps += o.laps
	s.timeouts += o.timeouts
	s.ticks += o.ticks
}

// Summary returns the current statistics.
func (s *Stats) Summary() Summary {
	returns := s.returns.Values()
	return Summary{
		Episodes:   s.episodes,
		Laps:       s.laps,
		Timeouts:   s.timeouts,
		Ticks:      s.ticks,
		MeanReturn: game.Mean(returns),
		StdReturn:  game.StandardDeviation(returns),
		BestReturn: game.Max(returns),
	}
}

// String ...
func (s Summary) String() string {
	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("episodes", s.Episodes)
	data.Set("laps", s.Laps)
	data.Set("timeouts", s.Timeouts)
	data.Set("ticks", s.Ticks)
	data.Set("mean", game.Round32(s.MeanReturn, 3))
	data.Set("std", game.Round32(s.StdReturn, 3))
	data.Set("best", game.Round32(s.BestReturn, 3))
	return utils.OrderedMapToString(data)
}
