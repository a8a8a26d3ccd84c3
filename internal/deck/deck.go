// deck.go - one deck (C2): owns exactly one decoded buffer plus its
// control state, and presents a control API to the caller's goroutine
// plus a pull interface to the audio graph's render callback.
//
// Fields the render callback touches (tempo, pitch, volume, EQ gains,
// is-playing, cursor target) are atomics, published with release
// semantics by the control side and read with acquire semantics by the
// render side, following the teacher's atomic.Pointer/SoundChip
// discipline in audio_backend_oto.go.
package deck

import (
	"math"
	"sync/atomic"

	"github.com/deckengine/deckengine/internal/dsp"
	"github.com/deckengine/deckengine/internal/pcm"
)

const (
	MinTempo = 0.5
	MaxTempo = 2.0
	MinPitch = -12.0
	MaxPitch = 12.0

	hotCueCount = 4
)

// atomicFloat64 stores a float64 behind an atomic word (no native
// atomic.Float64 in this Go version's sync/atomic for struct fields
// predating generics-based atomics in some of the teacher's build
// targets; bits round-trip exactly).
type atomicFloat64 struct{ bits atomic.Uint64 }

func (a *atomicFloat64) Store(v float64) { a.bits.Store(math.Float64bits(v)) }
func (a *atomicFloat64) Load() float64   { return math.Float64frombits(a.bits.Load()) }

// Deck holds one resident track and its control state.
type Deck struct {
	Name string // "A" or "B", for logging

	// Control-thread-owned (mutated only from control operations).
	track    *pcm.Track
	buffer   *pcm.Buffer
	cueFrame *int
	hotCues  [hotCueCount]*int
	loopOn   atomic.Bool
	loopFrom atomic.Int64
	loopTo   atomic.Int64

	// Shared with the render callback; atomics only below this point.
	isPlaying  atomic.Bool
	tempo      atomicFloat64
	pitch      atomicFloat64
	volume     atomicFloat64
	eqLow      atomicFloat64
	eqMid      atomicFloat64
	eqHigh     atomicFloat64
	seekTarget atomic.Int64 // -1 when no pending seek
	reachedEnd chan struct{}

	stretch *dsp.StereoStretcher
	eqL     *dsp.ThreeBandEQ
	eqR     *dsp.ThreeBandEQ

	sampleRate int
}

// New returns an empty, silent deck.
func New(name string) *Deck {
	d := &Deck{
		Name:       name,
		stretch:    dsp.NewStereoStretcher(),
		reachedEnd: make(chan struct{}, 1),
	}
	d.tempo.Store(1.0)
	d.seekTarget.Store(-1)
	d.volume.Store(1.0)
	return d
}

// HasTrack reports whether a track is currently loaded.
func (d *Deck) HasTrack() bool { return d.buffer != nil }

// Track returns the currently loaded track, or nil.
func (d *Deck) Track() *pcm.Track { return d.track }

// Load swaps in a newly decoded track and buffer, resetting cursor,
// tempo, pitch and cues to defaults. It is a control-thread-only
// operation and must not run concurrently with render.
func (d *Deck) Load(track *pcm.Track, buffer *pcm.Buffer) {
	d.track = track
	d.buffer = buffer
	d.sampleRate = buffer.SampleRate
	d.cueFrame = nil
	for i := range d.hotCues {
		d.hotCues[i] = nil
	}
	d.loopOn.Store(false)
	d.loopFrom.Store(0)
	d.loopTo.Store(0)

	d.tempo.Store(1.0)
	d.pitch.Store(0)
	d.eqLow.Store(0)
	d.eqMid.Store(0)
	d.eqHigh.Store(0)
	d.isPlaying.Store(false)
	d.seekTarget.Store(0)
	d.stretch.Reset(0)
	d.eqL = dsp.NewThreeBandEQ(d.sampleRate)
	d.eqR = dsp.NewThreeBandEQ(d.sampleRate)
}

// Play starts playback; a no-op if no track is loaded.
func (d *Deck) Play() {
	if !d.HasTrack() {
		return
	}
	d.isPlaying.Store(true)
}

// Pause stops advancing the cursor without resetting it.
func (d *Deck) Pause() { d.isPlaying.Store(false) }

// Stop pauses and resets the cursor to the start of the track.
func (d *Deck) Stop() {
	d.isPlaying.Store(false)
	if d.HasTrack() {
		d.seekTarget.Store(0)
		d.stretch.Reset(0)
	}
}

// TogglePlayPause inverts the is-playing flag.
func (d *Deck) TogglePlayPause() {
	if !d.HasTrack() {
		return
	}
	if d.isPlaying.Load() {
		d.Pause()
	} else {
		d.Play()
	}
}

// IsPlaying reports whether the deck is currently advancing.
func (d *Deck) IsPlaying() bool { return d.isPlaying.Load() }

// Seek clamps seconds to [0, duration] and publishes a new cursor. The
// playing state is left unchanged; Render applies the new cursor at the
// start of its next callback, and that delay is the seek latency
// referenced by beatsync.
func (d *Deck) Seek(seconds float64) {
	if !d.HasTrack() {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	if max := float64(d.buffer.Frames) / float64(d.sampleRate); seconds > max {
		seconds = max
	}
	frame := int64(seconds * float64(d.sampleRate))
	d.seekTarget.Store(frame)
}

// SetTempo clamps r to [0.5, 2.0] and publishes it.
func (d *Deck) SetTempo(r float64) { d.tempo.Store(clamp(r, MinTempo, MaxTempo)) }

// Tempo returns the current tempo multiplier.
func (d *Deck) Tempo() float64 { return d.tempo.Load() }

// SetPitch clamps p (semitones) to [-12, 12] and publishes it.
func (d *Deck) SetPitch(p float64) { d.pitch.Store(clamp(p, MinPitch, MaxPitch)) }

// Pitch returns the current pitch shift in semitones.
func (d *Deck) Pitch() float64 { return d.pitch.Load() }

// SetVolume clamps v to [0, 1] and publishes it.
func (d *Deck) SetVolume(v float64) { d.volume.Store(clamp(v, 0, 1)) }

// Volume returns the current fader volume.
func (d *Deck) Volume() float64 { return d.volume.Load() }

// EQBand identifies one of the three fixed EQ bands.
type EQBand int

const (
	EQLow EQBand = iota
	EQMid
	EQHigh
)

// SetEQ clamps gainDb to [-12, 12] and publishes it to the given band.
// When all three bands fall within BypassEpsilonDB of flat, the deck's
// EQ section is skipped entirely on the next render.
func (d *Deck) SetEQ(band EQBand, gainDb float64) {
	gainDb = clamp(gainDb, -12, 12)
	switch band {
	case EQLow:
		d.eqLow.Store(gainDb)
	case EQMid:
		d.eqMid.Store(gainDb)
	case EQHigh:
		d.eqHigh.Store(gainDb)
	}
}

// EQ returns the current gain in dB for the given band.
func (d *Deck) EQ(band EQBand) float64 {
	switch band {
	case EQLow:
		return d.eqLow.Load()
	case EQMid:
		return d.eqMid.Load()
	default:
		return d.eqHigh.Load()
	}
}

// BypassEligible reports whether every EQ band is within
// dsp.BypassEpsilonDB of flat.
func (d *Deck) BypassEligible() bool {
	return math.Abs(d.eqLow.Load()) < dsp.BypassEpsilonDB &&
		math.Abs(d.eqMid.Load()) < dsp.BypassEpsilonDB &&
		math.Abs(d.eqHigh.Load()) < dsp.BypassEpsilonDB
}

// SetCue stores the current cursor as the cue point.
func (d *Deck) SetCue() {
	if !d.HasTrack() {
		return
	}
	f := int(math.Round(d.stretch.SourcePos()))
	d.cueFrame = &f
}

// JumpToCue seeks to the stored cue point; a no-op if none is set.
func (d *Deck) JumpToCue() {
	if d.cueFrame == nil {
		return
	}
	d.Seek(float64(*d.cueFrame) / float64(d.sampleRate))
}

// CueSet reports whether a cue point has been stored.
func (d *Deck) CueSet() bool { return d.cueFrame != nil }

// SetHotCue stores the current cursor at slot i ∈ [0, 3].
func (d *Deck) SetHotCue(i int) {
	if i < 0 || i >= hotCueCount || !d.HasTrack() {
		return
	}
	f := int(math.Round(d.stretch.SourcePos()))
	d.hotCues[i] = &f
}

// TriggerHotCue seeks to slot i and starts playback; a silent no-op if
// the slot is unset or i is out of range.
func (d *Deck) TriggerHotCue(i int) {
	if i < 0 || i >= hotCueCount || d.hotCues[i] == nil {
		return
	}
	d.Seek(float64(*d.hotCues[i]) / float64(d.sampleRate))
	d.Play()
}

// HotCueSet reports whether slot i ∈ [0, 3] has a stored hot cue.
func (d *Deck) HotCueSet(i int) bool {
	return i >= 0 && i < hotCueCount && d.hotCues[i] != nil
}

// SetLoop stores a loop region in seconds, clamped to the track's
// duration, and enables looping. A supplement to the data model's
// loop start/end/loop-on fields, which the render path enforces by
// wrapping the cursor back to loopFrom on reaching loopTo.
func (d *Deck) SetLoop(startSeconds, endSeconds float64) {
	if !d.HasTrack() || endSeconds <= startSeconds {
		return
	}
	max := float64(d.buffer.Frames) / float64(d.sampleRate)
	if startSeconds < 0 {
		startSeconds = 0
	}
	if endSeconds > max {
		endSeconds = max
	}
	d.loopFrom.Store(int64(startSeconds * float64(d.sampleRate)))
	d.loopTo.Store(int64(endSeconds * float64(d.sampleRate)))
	d.loopOn.Store(true)
}

// ToggleLoop enables or disables the currently stored loop region.
func (d *Deck) ToggleLoop() { d.loopOn.Store(!d.loopOn.Load()) }

// LoopOn reports whether looping is currently enabled.
func (d *Deck) LoopOn() bool { return d.loopOn.Load() }

// CurrentTime returns cursor / sampleRate, the sole definition used for
// sync and display.
func (d *Deck) CurrentTime() float64 {
	if d.sampleRate == 0 {
		return 0
	}
	return d.stretch.SourcePos() / float64(d.sampleRate)
}

// SampleRate returns the loaded track's native sample rate, or 0.
func (d *Deck) SampleRate() int { return d.sampleRate }

// ReachedEnd returns the one-shot "reached end" channel; a non-blocking
// receive observes at most one pending edge.
func (d *Deck) ReachedEnd() <-chan struct{} { return d.reachedEnd }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
