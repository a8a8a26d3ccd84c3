// track.go - immutable track identity and decoded PCM buffer types.
package pcm

import "github.com/deckengine/deckengine/internal/waveform"

// Track carries the stable identity and best-effort metadata for one
// audio file. NewTrack builds it; the engine then fills in BPM and
// Waveform before handing it to a deck, and it is not modified after that.
type Track struct {
	ID       string
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration float64 // seconds
	Format   string  // container format tag, e.g. "wav", "mp3", "flac"
	BPM      *float64
	Waveform *waveform.Envelope
}

// NewTrack assembles a Track from a decoded buffer and its metadata. The
// id is the caller's choice of stable identity (the engine uses the file
// path, which is unique per load).
func NewTrack(id string, meta Metadata, buf *Buffer) *Track {
	duration := meta.DurationSeconds
	if duration == 0 && buf != nil && buf.SampleRate > 0 {
		duration = float64(buf.Frames) / float64(buf.SampleRate)
	}
	return &Track{
		ID:       id,
		Path:     id,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		Duration: duration,
		Format:   meta.FormatTag,
	}
}

// Buffer is the entire decoded PCM of a track: channel-planar float32 in
// [-1, 1], tagged with the sample rate it was decoded at. It is owned
// exclusively by the Deck that loaded it; the Deck releases it on track
// replacement or shutdown.
type Buffer struct {
	Channels   [][]float32 // one slice per channel, all equal length
	SampleRate int
	Frames     int
}

// ChannelCount returns the number of channels in the buffer.
func (b *Buffer) ChannelCount() int {
	if b == nil {
		return 0
	}
	return len(b.Channels)
}

// Mono returns the arithmetic-mean mono mixdown of the buffer.
func (b *Buffer) Mono() []float32 {
	if b == nil || len(b.Channels) == 0 {
		return nil
	}
	n := b.Frames
	out := make([]float32, n)
	inv := 1.0 / float32(len(b.Channels))
	for _, ch := range b.Channels {
		for i := 0; i < n && i < len(ch); i++ {
			out[i] += ch[i] * inv
		}
	}
	return out
}
