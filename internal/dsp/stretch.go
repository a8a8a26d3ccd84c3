// stretch.go - time/pitch unit (C3): accepts an independent rate (stretches
// duration by 1/r) and pitch shift in cents, glitch-free across per-callback
// parameter changes.
//
// Implementation: a granular overlap-add engine in the style of windowed
// grain resynthesis (see DESIGN.md's grounding on the paulstretch reference
// pack entry), generalised for real-time per-callback use rather than
// whole-buffer offline processing. The analysis hop (how far the read
// position advances through the source per grain) carries the tempo
// control; pitch is applied by resampling the content of each grain at a
// different rate than the hop advances, which shifts frequency content
// without changing the grain's placement in time.
package dsp

import "math"

const (
	grainSize  = 2048
	hopSize    = grainSize / 4 // 75% overlap
	queueCap   = hopSize * 4
	olaGainFix = 2.0 // constant-overlap-add sum for a Hann window at 75% overlap

	// maxChunkFrames bounds how many output frames Process fills the
	// queue for in one pass. Between chunks the queue never holds more
	// than hopSize-1 leftover samples (PopInto always drains down to a
	// remainder under one grain's hop), so a chunk plus one hop of fill
	// never exceeds queueCap; chunking this way keeps Process correct
	// for any nFrames, including callback sizes larger than queueCap.
	maxChunkFrames = queueCap - hopSize
)

// Stretcher is a single-channel granular time/pitch processor.
type Stretcher struct {
	window []float32
	tail   []float32 // overlap-add accumulator, length grainSize
	grain  []float32 // scratch, length grainSize
	queue  *float32Queue

	sourcePos float64 // fractional next-grain start position, in source frames
}

// NewStretcher returns a Stretcher with empty internal state.
func NewStretcher() *Stretcher {
	return &Stretcher{
		window: hannWindow(grainSize),
		tail:   make([]float32, grainSize),
		grain:  make([]float32, grainSize),
		queue:  newFloat32Queue(queueCap),
	}
}

// Reset clears all internal grain/overlap state and sets the next read
// position, used on seek to avoid splicing stale grains into new audio.
func (s *Stretcher) Reset(sourceFrame float64) {
	for i := range s.tail {
		s.tail[i] = 0
	}
	s.queue.head, s.queue.size = 0, 0
	s.sourcePos = sourceFrame
}

// SourcePos returns the fractional source-frame position the next grain
// will be read from; Deck.CurrentTime reads it directly, and the Deck's
// cue setters store round(SourcePos()).
func (s *Stretcher) SourcePos() float64 { return s.sourcePos }

// Process fills out[:nFrames] from src (one channel of the source buffer),
// reading at rate r (tempo) with an independent pitch shift in cents.
// It never allocates once constructed. nFrames may exceed the internal
// queue's capacity; Process chunks internally so the ring buffer is
// never asked to hold more than it safely can.
func (s *Stretcher) Process(src []float32, out []float32, nFrames int, r float64, pitchCents float64) {
	pitchRatio := math.Pow(2, pitchCents/1200)
	off := 0
	for nFrames > 0 {
		chunk := nFrames
		if chunk > maxChunkFrames {
			chunk = maxChunkFrames
		}
		for s.queue.Len() < chunk {
			s.generateGrain(src, r, pitchRatio)
		}
		s.queue.PopInto(out[off : off+chunk])
		off += chunk
		nFrames -= chunk
	}
}

func (s *Stretcher) generateGrain(src []float32, r, pitchRatio float64) {
	n := len(src)
	for k := 0; k < grainSize; k++ {
		idx := s.sourcePos + float64(k)*pitchRatio
		s.grain[k] = sampleLinear(src, n, idx) * s.window[k]
	}

	for i := 0; i < grainSize; i++ {
		s.tail[i] += s.grain[i]
	}

	for i := 0; i < hopSize; i++ {
		s.queue.Push(s.tail[i] / olaGainFix)
	}

	copy(s.tail, s.tail[hopSize:])
	for i := grainSize - hopSize; i < grainSize; i++ {
		s.tail[i] = 0
	}

	s.sourcePos += float64(hopSize) * r
}

// sampleLinear reads src at a fractional frame index with linear
// interpolation, returning silence outside [0, n).
func sampleLinear(src []float32, n int, idx float64) float32 {
	if idx < 0 || n == 0 {
		return 0
	}
	i0 := int(idx)
	if i0 >= n-1 {
		if i0 == n-1 {
			return src[i0]
		}
		return 0
	}
	frac := float32(idx - float64(i0))
	return src[i0]*(1-frac) + src[i0+1]*frac
}
