// mixer.go - crossfader and per-deck gain math (C4). Deterministic and
// stateless: recomputed from State on any input change.
//
// Crossfader and master volume are read every audio callback and written
// from control operations; both are atomic scalars with release/acquire
// ordering, the same bit-cast-over-atomic.Uint64 discipline
// internal/deck/deck.go uses for its own hot-path float state.
package mixer

import (
	"math"
	"sync/atomic"
)

// atomicFloat64 stores a float64 behind an atomic word, bits round-tripped
// exactly via math.Float64bits/Float64frombits.
type atomicFloat64 struct{ bits atomic.Uint64 }

func (a *atomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }
func (a *atomicFloat64) Load() float64   { return math.Float64frombits(a.bits.Load()) }

// State is the mixer's control surface: crossfader position and master
// volume. Per-deck fader volume (fader_v) is owned by Deck.Volume, set
// via the setVolume(deck, v) action; it is not duplicated here.
type State struct {
	crossfader   atomicFloat64 // x ∈ [0, 1]
	masterVolume atomicFloat64 // ∈ [0, 1]
}

// NewState returns a mixer state with the crossfader centred and master
// volume at unity.
func NewState() *State {
	s := &State{}
	s.crossfader.Store(0.5)
	s.masterVolume.Store(1)
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetCrossfader clamps and stores x.
func (s *State) SetCrossfader(x float64) { s.crossfader.Store(clamp01(x)) }

// Crossfader returns the current crossfader position.
func (s *State) Crossfader() float64 { return s.crossfader.Load() }

// SetMasterVolume clamps and stores the master volume.
func (s *State) SetMasterVolume(v float64) { s.masterVolume.Store(clamp01(v)) }

// MasterVolume returns the current master volume.
func (s *State) MasterVolume() float64 { return s.masterVolume.Load() }

// crossfaderGains implements the linear-cut curve of spec.md §4.4:
// for x <= 0.5: gA=1, gB=2x; for x > 0.5: gA=2(1-x), gB=1.
func crossfaderGains(x float64) (gA, gB float64) {
	if x <= 0.5 {
		return 1, 2 * x
	}
	return 2 * (1 - x), 1
}

// Gains returns the two effective per-deck gains (crossfader · master) to
// feed the audio graph; each deck's own fader_v is already applied by
// Deck.Render before these are multiplied in.
func (s *State) Gains() (gainA, gainB float64) {
	cxA, cxB := crossfaderGains(s.crossfader.Load())
	master := s.masterVolume.Load()
	return cxA * master, cxB * master
}
