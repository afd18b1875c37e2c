package agent

import "github.com/oomph-ac/racesim/track"

// EndReason is the reason an episode ended.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndLap
	EndTimeout
)

func (r EndReason) String() string {
	switch r {
	case EndLap:
		return "lap"
	case EndTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// EpisodeState is the state an Agent keeps across the ticks of one episode.
type EpisodeState struct {
	// LastCheckpoint is the last checkpoint index a reward was granted for.
	LastCheckpoint int
	// SinceCheckpoint is the time in seconds since the episode began or the last checkpoint.
	SinceCheckpoint float32

	Locked    bool
	LockTimer float32

	Ticks  uint64
	Return float32
}

func newEpisodeState() EpisodeState {
	return EpisodeState{LastCheckpoint: track.NoCheckpoint}
}
