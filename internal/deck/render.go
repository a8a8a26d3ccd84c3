// render.go - the pull interface the audio graph drives once per output
// callback. No allocation, no locking, no file I/O: only atomic loads
// and in-place buffer mutation.
package deck

import "github.com/deckengine/deckengine/internal/dsp"

// Render advances the deck by up to nFrames output frames, writing into
// outL/outR (which must already have len >= nFrames). If is-playing is
// false, it writes silence and does not advance. A pending seek
// (published by Seek, Load or Stop) is applied first, atomically, before
// any samples are produced this callback.
func (d *Deck) Render(outL, outR []float32, nFrames int) {
	if target := d.seekTarget.Swap(-1); target >= 0 {
		d.stretch.Reset(float64(target))
	}

	if !d.isPlaying.Load() || !d.HasTrack() {
		if !d.HasTrack() {
			d.isPlaying.Store(false)
		}
		for i := 0; i < nFrames; i++ {
			outL[i] = 0
			outR[i] = 0
		}
		return
	}

	srcL := d.buffer.Channels[0]
	srcR := srcL
	if len(d.buffer.Channels) > 1 {
		srcR = d.buffer.Channels[1]
	}

	r := d.tempo.Load()
	pitchCents := d.pitch.Load() * 100
	d.stretch.Process(srcL, srcR, outL[:nFrames], outR[:nFrames], nFrames, r, pitchCents)

	if !d.BypassEligible() {
		d.eqL.SetGain(dsp.Low, d.eqLow.Load())
		d.eqL.SetGain(dsp.Mid, d.eqMid.Load())
		d.eqL.SetGain(dsp.High, d.eqHigh.Load())
		d.eqR.SetGain(dsp.Low, d.eqLow.Load())
		d.eqR.SetGain(dsp.Mid, d.eqMid.Load())
		d.eqR.SetGain(dsp.High, d.eqHigh.Load())
		for i := 0; i < nFrames; i++ {
			outL[i] = d.eqL.Process(outL[i])
			outR[i] = d.eqR.Process(outR[i])
		}
	}

	vol := float32(d.volume.Load())
	for i := 0; i < nFrames; i++ {
		outL[i] *= vol
		outR[i] *= vol
	}

	if d.loopOn.Load() {
		loopTo := d.loopTo.Load()
		if loopTo > 0 && d.stretch.SourcePos() >= float64(loopTo) {
			d.stretch.Reset(float64(d.loopFrom.Load()))
		}
		return
	}

	if d.stretch.SourcePos() >= float64(d.buffer.Frames) {
		d.isPlaying.Store(false)
		select {
		case d.reachedEnd <- struct{}{}:
		default:
		}
	}
}
