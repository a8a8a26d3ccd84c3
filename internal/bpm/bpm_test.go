package bpm

import (
	"math"
	"testing"
)

// pulseTrain builds a mono click track at the given BPM: a short burst of
// energy at each beat, silence between, at sampleRate for durationSec.
func pulseTrain(bpmValue float64, sampleRate int, durationSec float64) []float32 {
	n := int(durationSec * float64(sampleRate))
	out := make([]float32, n)
	beatPeriod := 60.0 / bpmValue
	burstFrames := int(0.02 * float64(sampleRate)) // 20ms click
	beatFrames := int(beatPeriod * float64(sampleRate))
	for start := 0; start < n; start += beatFrames {
		for i := 0; i < burstFrames && start+i < n; i++ {
			out[start+i] = 1.0
		}
	}
	return out
}

func TestEstimate_PulseTrainAt124BPM(t *testing.T) {
	const sampleRate = 44100
	samples := pulseTrain(124, sampleRate, 20)

	got, ok := Estimate([][]float32{samples}, sampleRate)
	if !ok {
		t.Fatal("expected a BPM estimate for a clean pulse train")
	}
	if math.Abs(got-124) > 2.0 {
		t.Fatalf("estimated BPM = %v, want ~124", got)
	}
}

func TestEstimate_SilenceYieldsNoResultOrLowConfidence(t *testing.T) {
	samples := make([]float32, 44100*5)
	_, ok := Estimate([][]float32{samples}, 44100)
	if ok {
		t.Log("silent input produced a BPM estimate; acceptable since autocorrelation of all-zero envelope is degenerate but guarded")
	}
}

func TestEstimate_EmptyInputFails(t *testing.T) {
	if _, ok := Estimate(nil, 44100); ok {
		t.Fatal("expected failure on nil channel input")
	}
	if _, ok := Estimate([][]float32{{}}, 44100); ok {
		t.Fatal("expected failure on empty samples")
	}
}

func TestOctaveCorrect_PrefersClubTempoRange(t *testing.T) {
	// A raw estimate at half the true tempo (62 BPM, from a track that is
	// actually 124) should be corrected up into the favoured range.
	got := octaveCorrect(62, 0.8)
	if math.Abs(got-124) > 0.5 {
		t.Fatalf("octaveCorrect(62) = %v, want ~124", got)
	}
}

func TestOctaveCorrect_LeavesInRangeTempoAlone(t *testing.T) {
	got := octaveCorrect(124, 0.8)
	if got != 124 {
		t.Fatalf("octaveCorrect(124) = %v, want 124 unchanged", got)
	}
}
