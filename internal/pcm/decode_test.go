package pcm

import (
	"os"
	"path/filepath"
	"testing"

	wav "github.com/youpy/go-wav"
)

func writeTestWAV(t *testing.T, path string, sampleRate int, stereo bool) {
	t.Helper()
	nch := uint16(1)
	if stereo {
		nch = 2
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	const frames = 4410
	writer := wav.NewWriter(f, uint32(frames), nch, uint32(sampleRate), 16)
	samples := make([]wav.Sample, frames)
	for i := range samples {
		samples[i].Values[0] = (i % 2000) - 1000
		if stereo {
			samples[i].Values[1] = -samples[i].Values[0]
		}
	}
	if err := writer.WriteSamples(samples); err != nil {
		t.Fatalf("write samples: %v", err)
	}
}

func TestDecode_WAVStereo(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestWAV(t, path, 44100, true)

	buf, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if buf.ChannelCount() != 2 {
		t.Fatalf("channels = %d, want 2", buf.ChannelCount())
	}
	if buf.SampleRate != 44100 {
		t.Fatalf("sample rate = %d, want 44100", buf.SampleRate)
	}
	if buf.Frames != 4410 {
		t.Fatalf("frames = %d, want 4410", buf.Frames)
	}
}

func TestDecode_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.xyz")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Decode(path)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	var de *DecodeError
	if !asDecodeError(err, &de) || de.Kind != UnsupportedFormat {
		t.Fatalf("expected UnsupportedFormat DecodeError, got %v", err)
	}
}

func TestDecode_SampleRateOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tone.wav")
	writeTestWAV(t, path, 8000, false)

	_, err := Decode(path)
	if err == nil {
		t.Fatal("expected error for out-of-range sample rate")
	}
}

func TestBuffer_Mono(t *testing.T) {
	buf := &Buffer{
		Channels:   [][]float32{{1, 1, 1}, {-1, -1, -1}},
		SampleRate: 44100,
		Frames:     3,
	}
	mono := buf.Mono()
	for _, v := range mono {
		if v != 0 {
			t.Fatalf("expected mono mixdown of opposite channels to be 0, got %v", v)
		}
	}
}

func asDecodeError(err error, target **DecodeError) bool {
	de, ok := err.(*DecodeError)
	if ok {
		*target = de
	}
	return ok
}
