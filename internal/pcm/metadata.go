// metadata.go - best-effort metadata probing (C1 readMetadata).
package pcm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
	wav "github.com/youpy/go-wav"
)

// Metadata is the best-effort result of readMetadata. Missing fields are
// left at their zero value; this function never fails on a readable file
// of a recognised container format.
type Metadata struct {
	Title           string
	Artist          string
	Album           string
	DurationSeconds float64
	FormatTag       string
}

// ReadMetadata probes path for duration and a container format tag. Title
// falls back to the file's base name; artist/album are left absent because
// this module does not parse ID3/Vorbis comment tags (see DESIGN.md).
func ReadMetadata(path string) (Metadata, error) {
	ext := strings.ToLower(filepath.Ext(path))
	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	meta := Metadata{Title: title, FormatTag: strings.TrimPrefix(ext, ".")}

	switch ext {
	case ".wav", ".aiff", ".aif":
		f, err := os.Open(path)
		if err != nil {
			return meta, nil
		}
		defer f.Close()
		reader := wav.NewReader(f)
		format, err := reader.Format()
		if err != nil || format.SampleRate == 0 {
			return meta, nil
		}
		info, err := f.Stat()
		if err != nil {
			return meta, nil
		}
		blockAlign := int64(format.NumChannels) * int64(format.BitsPerSample) / 8
		if blockAlign > 0 {
			frames := info.Size() / blockAlign
			meta.DurationSeconds = float64(frames) / float64(format.SampleRate)
		}

	case ".flac":
		stream, err := flac.ParseFile(path)
		if err != nil {
			return meta, nil
		}
		defer stream.Close()
		if stream.Info.SampleRate > 0 {
			meta.DurationSeconds = float64(stream.Info.NSamples) / float64(stream.Info.SampleRate)
		}

	case ".mp3":
		f, err := os.Open(path)
		if err != nil {
			return meta, nil
		}
		defer f.Close()
		dec, err := mp3.NewDecoder(f)
		if err != nil {
			return meta, nil
		}
		const bytesPerFrame = 4 // stereo 16-bit
		if dec.SampleRate() > 0 {
			meta.DurationSeconds = float64(dec.Length()/bytesPerFrame) / float64(dec.SampleRate())
		}
	}

	return meta, nil
}
