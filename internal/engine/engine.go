// engine.go - top-level wiring (no C-numbered component of its own): the
// single owner of both decks, the mixer, the audio graph and the control
// surfaces, replacing the teacher's process-wide singleton chip/video-chip
// globals with an explicit struct passed by reference. The output device
// is created by the caller, which registers Engine.Render with it.
package engine

import (
	"context"
	"sync"

	"github.com/deckengine/deckengine/internal/beatsync"
	"github.com/deckengine/deckengine/internal/bpm"
	"github.com/deckengine/deckengine/internal/control"
	"github.com/deckengine/deckengine/internal/deck"
	"github.com/deckengine/deckengine/internal/graph"
	"github.com/deckengine/deckengine/internal/mixer"
	"github.com/deckengine/deckengine/internal/pcm"
	"github.com/deckengine/deckengine/internal/waveform"
)

// Engine owns both decks, the mixer and the audio graph. It is the sole
// object a CLI or GUI frontend needs a reference to.
type Engine struct {
	DeckA, DeckB *deck.Deck
	Mixer        *mixer.State
	Graph        *graph.Graph
	Binder       *control.Surfaces

	mu        sync.Mutex
	bpmA      *float64
	bpmB      *float64
	cancelA   context.CancelFunc
	cancelB   context.CancelFunc

	subscribers []chan Snapshot
	subMu       sync.Mutex
}

// New wires an Engine from scratch: two empty decks, a centred mixer and
// a graph summing them.
func New() *Engine {
	a, b := deck.New("A"), deck.New("B")
	m := mixer.NewState()
	g := graph.New(a, b, m)
	e := &Engine{DeckA: a, DeckB: b, Mixer: m, Graph: g}
	e.Binder = &control.Surfaces{DeckA: a, DeckB: b, Mixer: m, BPM: e.bpmFor}
	return e
}

func (e *Engine) bpmFor(id control.DeckID) *float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == control.DeckA {
		return e.bpmA
	}
	return e.bpmB
}

// Render is the function registered with the output device; it delegates
// straight to the audio graph.
func (e *Engine) Render(outL, outR []float32, nFrames int) {
	e.Graph.Render(outL, outR, nFrames)
}

// LoadTrack decodes path synchronously (per C1's blocking decode
// contract), runs the BPM and waveform workers to completion in
// parallel with each other, and only then hands the fully-populated,
// now-immutable Track to the given deck. A prior in-flight pair of
// workers for that deck is cancelled first so a rapid reload never
// races a stale pair against the new one.
func (e *Engine) LoadTrack(id control.DeckID, path string) error {
	buf, err := pcm.Decode(path)
	if err != nil {
		return err
	}
	meta, err := pcm.ReadMetadata(path)
	if err != nil {
		return err
	}
	track := pcm.NewTrack(path, meta, buf)

	e.mu.Lock()
	if id == control.DeckA {
		if e.cancelA != nil {
			e.cancelA()
		}
		e.bpmA = nil
	} else {
		if e.cancelB != nil {
			e.cancelB()
		}
		e.bpmB = nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	if id == control.DeckA {
		e.cancelA = cancel
	} else {
		e.cancelB = cancel
	}
	e.mu.Unlock()

	e.runOfflineWorkers(ctx, id, track, buf)
	if ctx.Err() != nil {
		return nil // superseded by a newer LoadTrack before analysis finished
	}

	d := e.DeckA
	if id == control.DeckB {
		d = e.DeckB
	}
	d.Load(track, buf)
	return nil
}

// runOfflineWorkers runs BPM estimation and waveform sampling to
// completion in parallel, writing their results into track before
// returning. Both are pure functions over buf; nothing downstream reads
// track until this returns, so no lock is needed around the writes
// themselves, only around the engine's own bpmA/bpmB cache.
func (e *Engine) runOfflineWorkers(ctx context.Context, id control.DeckID, track *pcm.Track, buf *pcm.Buffer) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if estimated, ok := bpm.Estimate(buf.Channels, buf.SampleRate); ok {
			track.BPM = &estimated
		}
	}()

	go func() {
		defer wg.Done()
		track.Waveform = waveform.Sample(buf.Channels, buf.Frames, track.Duration, track.ID, waveform.DefaultSamplesPerSecond)
	}()

	wg.Wait()

	if ctx.Err() != nil {
		return
	}
	e.mu.Lock()
	if track.BPM != nil {
		if id == control.DeckA {
			e.bpmA = track.BPM
		} else {
			e.bpmB = track.BPM
		}
	}
	e.mu.Unlock()
}

// Sync matches the follower deck's tempo and phase to the leader (the
// other deck).
func (e *Engine) Sync(follower control.DeckID) {
	leader := otherDeck(follower)
	followerDeck, leaderDeck := e.DeckA, e.DeckB
	if follower == control.DeckB {
		followerDeck, leaderDeck = e.DeckB, e.DeckA
	}
	beatsync.Sync(followerDeck, leaderDeck, e.bpmFor(follower), e.bpmFor(leader))
}

func otherDeck(id control.DeckID) control.DeckID {
	if id == control.DeckA {
		return control.DeckB
	}
	return control.DeckA
}
