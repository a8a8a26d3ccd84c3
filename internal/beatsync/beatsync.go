// beatsync.go - sync controller (C6): matches a follower deck's tempo to
// a leader deck's effective BPM and aligns beat phase, compensating for
// the seek latency of Deck.Seek (a new cursor takes effect at the next
// render callback).
package beatsync

import (
	"fmt"
	"math"

	"github.com/deckengine/deckengine/internal/deck"
)

// SeekLatency is the constant compensation applied when predicting the
// leader's beat phase at the moment the follower's seek actually lands.
// It models the bounded window before a Deck.Seek takes effect in the
// render callback; overridable for output devices with a different
// callback period.
var SeekLatency = 100 * 1e-3 // seconds

// Sync matches follower's tempo to leader's effective BPM and, if
// follower is playing, aligns its beat phase. It never returns an error;
// a missing BPM on either side is a silent no-op (logged).
func Sync(follower, leader *deck.Deck, followerBPM, leaderOriginalBPM *float64) {
	if followerBPM == nil || leaderOriginalBPM == nil {
		fmt.Printf("beatsync: missing BPM, skipping sync (follower=%v leader=%v)\n", followerBPM, leaderOriginalBPM)
		return
	}

	leaderEffectiveBPM := *leaderOriginalBPM * leader.Tempo()
	followerOriginalBPM := *followerBPM

	rNew := leaderEffectiveBPM / followerOriginalBPM
	rNew = clamp(rNew, deck.MinTempo, deck.MaxTempo)
	follower.SetTempo(rNew)

	if !follower.IsPlaying() {
		return
	}

	followerEffectiveBPM := followerOriginalBPM * rNew
	phaseL := beatPhase(leader.CurrentTime(), leaderEffectiveBPM)
	phaseF := beatPhase(follower.CurrentTime(), followerEffectiveBPM)

	predictedLeaderPhase := frac(phaseL + SeekLatency*leaderEffectiveBPM/60)
	delta := normalizeDelta(predictedLeaderPhase - phaseF)

	seekSeconds := delta * 60 / followerEffectiveBPM
	if seekSeconds < 0 {
		return
	}
	follower.Seek(follower.CurrentTime() + seekSeconds)
}

func beatPhase(t, bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	return frac(t * bpm / 60)
}

func frac(x float64) float64 {
	f := x - math.Floor(x)
	if f < 0 {
		f += 1
	}
	return f
}

// normalizeDelta maps a raw phase difference to (-0.5, 0.5] by adding ±1
// as needed, choosing the shorter rotation.
func normalizeDelta(delta float64) float64 {
	for delta > 0.5 {
		delta -= 1
	}
	for delta <= -0.5 {
		delta += 1
	}
	return delta
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
