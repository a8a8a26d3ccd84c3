// decode.go - file → float32 planar PCM decode (C1).
package pcm

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
	wav "github.com/youpy/go-wav"
)

// minSampleRate and maxSampleRate bound the sample rates this source will
// accept, per spec.
const (
	minSampleRate = 22050
	maxSampleRate = 192000
)

// Decode reads path synchronously and returns the decoded PCM buffer, the
// track's sample rate, frame count and channel count. Decoding is blocking;
// callers that need concurrency push it to a worker goroutine.
func Decode(path string) (*Buffer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".aiff", ".aif":
		return decodeWAV(path)
	case ".flac":
		return decodeFLAC(path)
	case ".mp3":
		return decodeMP3(path)
	default:
		return nil, newDecodeError(path, UnsupportedFormat, fmt.Errorf("unrecognised extension %q", ext))
	}
}

func decodeWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newDecodeError(path, IOError, err)
	}
	defer f.Close()

	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		return nil, newDecodeError(path, Corrupt, err)
	}

	nch := int(format.NumChannels)
	if nch == 0 {
		return nil, newDecodeError(path, Corrupt, fmt.Errorf("zero channels"))
	}

	channels := make([][]float32, nch)
	for i := range channels {
		channels[i] = make([]float32, 0, 1<<16)
	}

	for {
		samples, err := reader.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newDecodeError(path, Corrupt, err)
		}
		for _, s := range samples {
			for c := 0; c < nch; c++ {
				v := reader.FloatValue(s, uint(c))
				channels[c] = append(channels[c], float32(v))
			}
		}
	}

	frames := 0
	if nch > 0 {
		frames = len(channels[0])
	}

	if err := validateSampleRate(path, int(format.SampleRate)); err != nil {
		return nil, err
	}

	return &Buffer{Channels: channels, SampleRate: int(format.SampleRate), Frames: frames}, nil
}

func decodeFLAC(path string) (*Buffer, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, newDecodeError(path, Corrupt, err)
	}
	defer stream.Close()

	nch := int(stream.Info.NChannels)
	if nch == 0 {
		return nil, newDecodeError(path, Corrupt, fmt.Errorf("zero channels"))
	}
	scale := float32(int64(1) << (stream.Info.BitsPerSample - 1))

	channels := make([][]float32, nch)
	for i := range channels {
		channels[i] = make([]float32, 0, 1<<16)
	}

	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newDecodeError(path, Corrupt, err)
		}
		for c := 0; c < nch && c < len(frame.Subframes); c++ {
			sub := frame.Subframes[c]
			for _, s := range sub.Samples {
				channels[c] = append(channels[c], float32(s)/scale)
			}
		}
	}

	frames := 0
	if nch > 0 {
		frames = len(channels[0])
	}

	if err := validateSampleRate(path, int(stream.Info.SampleRate)); err != nil {
		return nil, err
	}

	return &Buffer{Channels: channels, SampleRate: int(stream.Info.SampleRate), Frames: frames}, nil
}

func decodeMP3(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newDecodeError(path, IOError, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, newDecodeError(path, Corrupt, err)
	}

	// go-mp3 always produces interleaved stereo 16-bit PCM.
	const nch = 2
	left := make([]float32, 0, 1<<18)
	right := make([]float32, 0, 1<<18)

	buf := make([]byte, 4096)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			for i := 0; i+4 <= n; i += 4 {
				l := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
				r := int16(uint16(buf[i+2]) | uint16(buf[i+3])<<8)
				left = append(left, float32(l)/32768.0)
				right = append(right, float32(r)/32768.0)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newDecodeError(path, Corrupt, err)
		}
	}

	if err := validateSampleRate(path, dec.SampleRate()); err != nil {
		return nil, err
	}

	return &Buffer{
		Channels:   [][]float32{left, right},
		SampleRate: dec.SampleRate(),
		Frames:     len(left),
	}, nil
}

func validateSampleRate(path string, sr int) error {
	if sr < minSampleRate || sr > maxSampleRate {
		return newDecodeError(path, UnsupportedFormat, fmt.Errorf("sample rate %d Hz out of range [%d, %d]", sr, minSampleRate, maxSampleRate))
	}
	return nil
}
