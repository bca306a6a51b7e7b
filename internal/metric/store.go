package metric

import (
	"math"
	"sync"
	"time"
)

// Store holds one smoothed value per key and applies the exponential
// moving average with a time-varying step.
//
// The smoothing factor for an update arriving dt after the previous one
// is alpha = 1 - exp(-dt/tau). A tau of zero disables smoothing: every
// update snaps to the raw value.
//
// The ingest loop is the sole writer; Snapshot and Value may be called
// concurrently from subscriber connections.
type Store struct {
	tau time.Duration

	mu     sync.Mutex
	states map[Key]state
}

type state struct {
	value float64
	last  time.Time
}

func NewStore(tau time.Duration) *Store {
	return &Store{
		tau:    tau,
		states: make(map[Key]state),
	}
}

// Update applies one raw observation and returns the new smoothed value.
// The first observation for a key sets the value directly regardless of tau.
func (s *Store) Update(key Key, raw float64, at time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[key]
	if !ok {
		s.states[key] = state{value: raw, last: at}
		return raw
	}

	if s.tau <= 0 {
		st.value = raw
	} else {
		dt := at.Sub(st.last)
		if dt < 0 {
			// Non-monotonic source clock; treat as a repeat of the
			// previous instant rather than a negative step.
			dt = 0
		}
		alpha := 1 - math.Exp(-dt.Seconds()/s.tau.Seconds())
		st.value += alpha * (raw - st.value)
	}
	st.last = at
	s.states[key] = st
	return st.value
}

// Value returns the current smoothed value for key, if any observation
// has ever arrived for it.
func (s *Store) Value(key Key) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	return st.value, ok
}

// Snapshot copies the current value of every key that has been observed.
// Used for new-subscriber replay.
func (s *Store) Snapshot() map[Key]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Key]float64, len(s.states))
	for k, st := range s.states {
		out[k] = st.value
	}
	return out
}
