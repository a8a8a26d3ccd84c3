package dsp

import (
	"math"
	"testing"
)

func sineSource(n int, freq, sampleRate float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
	}
	return out
}

func TestStretcher_UnityRateAdvancesSourcePosByFrameCount(t *testing.T) {
	src := sineSource(200000, 440, 44100)
	s := NewStretcher()
	out := make([]float32, 1024)

	total := 0
	for i := 0; i < 50; i++ {
		s.Process(src, out, len(out), 1.0, 0)
		total += len(out)
	}

	want := float64(total) * 1.0
	if diff := math.Abs(s.SourcePos() - want); diff > 1.0 {
		t.Fatalf("source pos = %v, want ~%v (within 1 frame)", s.SourcePos(), want)
	}
}

func TestStretcher_RateScalesSourceAdvance(t *testing.T) {
	src := sineSource(200000, 440, 44100)
	s := NewStretcher()
	out := make([]float32, 1024)

	const r = 1.5
	total := 0
	for i := 0; i < 50; i++ {
		s.Process(src, out, len(out), r, 0)
		total += len(out)
	}

	want := float64(total) * r
	if diff := math.Abs(s.SourcePos() - want); diff > float64(total)*0.02 {
		t.Fatalf("source pos = %v, want ~%v", s.SourcePos(), want)
	}
}

func TestStretcher_OutputIsFiniteAndBounded(t *testing.T) {
	src := sineSource(200000, 440, 44100)
	s := NewStretcher()
	out := make([]float32, 512)

	for i := 0; i < 100; i++ {
		s.Process(src, out, len(out), 1.2, 300)
		for _, v := range out {
			if v != v || v > 4 || v < -4 {
				t.Fatalf("unbounded/NaN sample: %v", v)
			}
		}
	}
}

func TestStretcher_HandlesBlockLargerThanQueueCapacity(t *testing.T) {
	src := sineSource(200000, 440, 44100)
	s := NewStretcher()
	out := make([]float32, 8192) // larger than queueCap

	s.Process(src, out, len(out), 1.0, 0)
	for i, v := range out {
		if v != v || v > 4 || v < -4 {
			t.Fatalf("unbounded/NaN sample at %d: %v", i, v)
		}
	}

	want := float64(len(out))
	if diff := math.Abs(s.SourcePos() - want); diff > 1.0 {
		t.Fatalf("source pos = %v, want ~%v (within 1 frame) after an oversized block", s.SourcePos(), want)
	}
}

func TestStretcher_ResetRepositions(t *testing.T) {
	src := sineSource(200000, 440, 44100)
	s := NewStretcher()
	out := make([]float32, 512)
	s.Process(src, out, len(out), 1.0, 0)

	s.Reset(5000)
	if s.SourcePos() != 5000 {
		t.Fatalf("source pos after reset = %v, want 5000", s.SourcePos())
	}
}
