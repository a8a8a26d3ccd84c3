package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deckengine/deckengine/internal/control"
	wav "github.com/youpy/go-wav"
)

func writeTestWAV(t *testing.T, path string, sampleRate, frames int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	writer := wav.NewWriter(f, uint32(frames), 2, uint32(sampleRate), 16)
	samples := make([]wav.Sample, frames)
	for i := range samples {
		// A 1 Hz square wave of constant ±1000 amplitude: its energy
		// envelope is flat, so the BPM estimator may not lock onto it.
		v := -1000
		if (i/(sampleRate/2))%2 == 0 {
			v = 1000
		}
		samples[i].Values[0] = v
		samples[i].Values[1] = v
	}
	if err := writer.WriteSamples(samples); err != nil {
		t.Fatalf("write samples: %v", err)
	}
}

func TestNew_DecksStartEmptyAndSilent(t *testing.T) {
	e := New()
	outL, outR := make([]float32, 64), make([]float32, 64)
	e.Render(outL, outR, 64)
	for i := range outL {
		if outL[i] != 0 || outR[i] != 0 {
			t.Fatalf("expected silence with no tracks loaded, got %v/%v", outL[i], outR[i])
		}
	}
}

func TestSnapshot_ReflectsMixerState(t *testing.T) {
	e := New()
	e.Mixer.SetCrossfader(0.75)
	snap := e.Snapshot()
	if snap.Mixer.Crossfader != 0.75 {
		t.Fatalf("snapshot crossfader = %v, want 0.75", snap.Mixer.Crossfader)
	}
}

func TestSubscribe_SkipsPushWhileBothDecksSilent(t *testing.T) {
	e := New()
	ch := e.Subscribe()
	e.publish(e.Snapshot())
	select {
	case <-ch:
	default:
	}

	stop := make(chan struct{})
	go e.RunPositionDriver(stop)
	defer close(stop)

	select {
	case <-ch:
		t.Fatal("should not push a snapshot while both decks are silent (smart pause)")
	default:
	}
}

func TestBinder_DispatchReachesSurfaces(t *testing.T) {
	e := New()
	e.Binder.Dispatch(control.Action{Kind: control.SetMasterVolume, Value: 0.5})
	if e.Mixer.MasterVolume() != 0.5 {
		t.Fatalf("master volume = %v, want 0.5", e.Mixer.MasterVolume())
	}
}

func TestLoadTrack_HandsOffOnlyAfterAnalysisCompletes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestWAV(t, path, 44100, 44100*4)

	e := New()
	if err := e.LoadTrack(control.DeckA, path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}

	track := e.DeckA.Track()
	if track == nil {
		t.Fatal("expected a track to be loaded onto deck A")
	}
	if track.Waveform == nil {
		t.Fatal("expected Waveform to be populated before handoff")
	}
	// BPM may legitimately be nil if the estimator doesn't lock on; the
	// invariant under test is ordering, not detection accuracy, so only
	// check consistency between the track and the published snapshot.
	snap := e.Snapshot()
	if track.BPM != nil && snap.DeckA.BPMEffective != *track.BPM*e.DeckA.Tempo() {
		t.Fatalf("BPMEffective = %v, want %v", snap.DeckA.BPMEffective, *track.BPM*e.DeckA.Tempo())
	}
}

func TestSnapshot_IncludesCueHotCueAndFaderState(t *testing.T) {
	e := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestWAV(t, path, 44100, 44100)
	if err := e.LoadTrack(control.DeckA, path); err != nil {
		t.Fatalf("LoadTrack: %v", err)
	}

	e.DeckA.SetCue()
	e.DeckA.SetHotCue(2)
	e.DeckA.SetVolume(0.3)

	snap := e.Snapshot()
	if !snap.DeckA.CueSet {
		t.Fatal("expected CueSet to be true after SetCue")
	}
	if !snap.DeckA.HotCuesSet[2] {
		t.Fatal("expected HotCuesSet[2] to be true after SetHotCue(2)")
	}
	if snap.DeckA.HotCuesSet[0] {
		t.Fatal("expected HotCuesSet[0] to remain false")
	}
	if snap.Mixer.FaderA != 0.3 {
		t.Fatalf("snapshot FaderA = %v, want 0.3", snap.Mixer.FaderA)
	}
}
