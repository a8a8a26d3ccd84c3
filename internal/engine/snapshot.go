// snapshot.go - observed-state snapshot (§6): a throttled read-only view
// of both decks and the mixer, pushed to subscribers at the UI rate. The
// position-sampling driver runs at ~60 Hz internally and pushes to
// subscribers at ~30 Hz, with "smart pause" disabling the push entirely
// while nothing is playing.
package engine

import (
	"time"

	"github.com/deckengine/deckengine/internal/deck"
	"github.com/deckengine/deckengine/internal/pcm"
)

// DeckSnapshot is the observed state of one deck.
type DeckSnapshot struct {
	Track        *pcm.Track
	IsPlaying    bool
	CurrentTime  float64
	Tempo        float64
	Pitch        float64
	Volume       float64
	EQLow        float64
	EQMid        float64
	EQHigh       float64
	CueSet       bool
	HotCuesSet   [4]bool
	BPMEffective float64 // Track.BPM * Tempo; 0 when BPM is unknown
}

// MixerSnapshot is the observed state of the mixer, including each
// deck's fader volume (sourced from Deck.Volume at snapshot time, not
// from any mixer-owned state).
type MixerSnapshot struct {
	Crossfader   float64
	FaderA       float64
	FaderB       float64
	MasterVolume float64
}

// Snapshot is the full observed-state struct pushed to subscribers.
type Snapshot struct {
	DeckA, DeckB DeckSnapshot
	Mixer        MixerSnapshot
}

func (e *Engine) snapshotDeck(dk *deck.Deck) DeckSnapshot {
	track := dk.Track()
	tempo := dk.Tempo()
	var bpmEffective float64
	if track != nil && track.BPM != nil {
		bpmEffective = *track.BPM * tempo
	}

	s := DeckSnapshot{
		Track:        track,
		IsPlaying:    dk.IsPlaying(),
		CurrentTime:  dk.CurrentTime(),
		Tempo:        tempo,
		Pitch:        dk.Pitch(),
		Volume:       dk.Volume(),
		EQLow:        dk.EQ(deck.EQLow),
		EQMid:        dk.EQ(deck.EQMid),
		EQHigh:       dk.EQ(deck.EQHigh),
		CueSet:       dk.CueSet(),
		BPMEffective: bpmEffective,
	}
	for i := range s.HotCuesSet {
		s.HotCuesSet[i] = dk.HotCueSet(i)
	}
	return s
}

// Snapshot returns the current observed state of both decks and the
// mixer.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		DeckA: e.snapshotDeck(e.DeckA),
		DeckB: e.snapshotDeck(e.DeckB),
		Mixer: MixerSnapshot{
			Crossfader:   e.Mixer.Crossfader(),
			FaderA:       e.DeckA.Volume(),
			FaderB:       e.DeckB.Volume(),
			MasterVolume: e.Mixer.MasterVolume(),
		},
	}
}

// Subscribe returns a channel that receives a Snapshot at the throttled
// UI rate. The channel is buffered by one slot and never blocks the
// driver; a slow subscriber simply misses intermediate frames.
func (e *Engine) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	e.subMu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.subMu.Unlock()
	return ch
}

func (e *Engine) publish(s Snapshot) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

const (
	samplingInterval = time.Second / 60
	pushInterval     = time.Second / 30
)

// RunPositionDriver blocks, sampling deck position at ~60 Hz and pushing
// to subscribers at ~30 Hz, until the caller closes stop. Smart pause:
// while neither deck is playing, the push is skipped so subscribers do
// not receive a stream of identical snapshots.
func (e *Engine) RunPositionDriver(stop <-chan struct{}) {
	sampleTicker := time.NewTicker(samplingInterval)
	defer sampleTicker.Stop()
	pushTicker := time.NewTicker(pushInterval)
	defer pushTicker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-sampleTicker.C:
			// Sampling itself is implicit: deck position is read fresh
			// from atomics whenever snapshotDeck runs, so there is no
			// separate cached-sample state to update here.
		case <-pushTicker.C:
			if !e.DeckA.IsPlaying() && !e.DeckB.IsPlaying() {
				continue
			}
			e.publish(e.Snapshot())
		}
	}
}
