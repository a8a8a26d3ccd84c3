package waveform

import (
	"math"
	"testing"
)

func TestSample_LengthMatchesDurationWithinOneTolerance(t *testing.T) {
	const sampleRate = 44100
	const duration = 10.0
	totalFrames := int(duration * sampleRate)

	mono := make([]float32, totalFrames)
	for i := range mono {
		mono[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate))
	}

	env := Sample([][]float32{mono}, totalFrames, duration, "track-1", DefaultSamplesPerSecond)

	want := int(math.Round(duration * DefaultSamplesPerSecond))
	if diff := len(env.Samples) - want; diff > 1 || diff < -1 {
		t.Fatalf("envelope length = %d, want within 1 of %d", len(env.Samples), want)
	}
}

func TestSample_NormalisedToUnity(t *testing.T) {
	const sampleRate = 44100
	const duration = 2.0
	totalFrames := int(duration * sampleRate)

	mono := make([]float32, totalFrames)
	for i := range mono {
		mono[i] = 0.5 * float32(math.Sin(2*math.Pi*440*float64(i)/sampleRate))
	}

	env := Sample([][]float32{mono}, totalFrames, duration, "track-1", DefaultSamplesPerSecond)

	var maxVal float32
	for _, s := range env.Samples {
		if s > maxVal {
			maxVal = s
		}
		if s < 0 || s > 1 {
			t.Fatalf("sample out of [0,1]: %v", s)
		}
	}
	if math.Abs(float64(maxVal-1.0)) > 1e-3 {
		t.Fatalf("max envelope value = %v, want ~1.0", maxVal)
	}
}

func TestSample_AllZeroStaysZero(t *testing.T) {
	const sampleRate = 44100
	const duration = 1.0
	totalFrames := int(duration * sampleRate)
	mono := make([]float32, totalFrames)

	env := Sample([][]float32{mono}, totalFrames, duration, "silent", DefaultSamplesPerSecond)
	for _, s := range env.Samples {
		if s != 0 {
			t.Fatalf("expected all-zero envelope, got %v", s)
		}
	}
}

func TestSample_EmptyInput(t *testing.T) {
	env := Sample(nil, 0, 0, "empty", DefaultSamplesPerSecond)
	if len(env.Samples) != 0 {
		t.Fatalf("expected empty envelope for empty input, got %d samples", len(env.Samples))
	}
}
