package beatsync

import (
	"math"
	"testing"

	"github.com/deckengine/deckengine/internal/deck"
	"github.com/deckengine/deckengine/internal/pcm"
)

func loadedDeck(frames, sampleRate int) *deck.Deck {
	d := deck.New("x")
	l := make([]float32, frames)
	r := make([]float32, frames)
	d.Load(&pcm.Track{ID: "t"}, &pcm.Buffer{Channels: [][]float32{l, r}, SampleRate: sampleRate, Frames: frames})
	return d
}

func f64(v float64) *float64 { return &v }

func TestSync_MatchesTempoToLeaderEffectiveBPM(t *testing.T) {
	leader := loadedDeck(44100*10, 44100)
	follower := loadedDeck(44100*10, 44100)

	leaderBPM := f64(128)
	followerBPM := f64(120)

	Sync(follower, leader, followerBPM, leaderBPM)

	want := 128.0 / 120.0
	if math.Abs(follower.Tempo()-want) > 1e-6 {
		t.Fatalf("follower tempo = %v, want %v", follower.Tempo(), want)
	}
}

func TestSync_ClampsExtremeTempoRatio(t *testing.T) {
	leader := loadedDeck(44100*10, 44100)
	follower := loadedDeck(44100*10, 44100)

	Sync(follower, leader, f64(60), f64(179))

	if follower.Tempo() != deck.MaxTempo {
		t.Fatalf("tempo = %v, want clamped to %v", follower.Tempo(), deck.MaxTempo)
	}
}

func TestSync_MissingBPMIsNoop(t *testing.T) {
	leader := loadedDeck(44100, 44100)
	follower := loadedDeck(44100, 44100)
	follower.SetTempo(1.3)

	Sync(follower, leader, nil, f64(128))

	if follower.Tempo() != 1.3 {
		t.Fatalf("tempo changed on missing BPM: %v", follower.Tempo())
	}
}

func TestSync_DoesNotSeekWhenFollowerNotPlaying(t *testing.T) {
	leader := loadedDeck(44100*10, 44100)
	follower := loadedDeck(44100*10, 44100)
	leader.Play()

	Sync(follower, leader, f64(120), f64(128))
	if follower.IsPlaying() {
		t.Fatal("sync must not start playback on its own")
	}
}

func TestNormalizeDelta_StaysInHalfOpenRange(t *testing.T) {
	cases := []float64{-1.7, -0.6, -0.5, 0, 0.5, 0.6, 1.7}
	for _, d := range cases {
		n := normalizeDelta(d)
		if n <= -0.5 || n > 0.5 {
			t.Fatalf("normalizeDelta(%v) = %v, out of (-0.5, 0.5]", d, n)
		}
	}
}
