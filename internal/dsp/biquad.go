// biquad.go - RBJ-cookbook biquad filter, used by the three-band EQ (C3).
package dsp

import "math"

// Biquad is a direct-form-II transposed biquad section.
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32
	z1, z2     float32 // state
}

// Process filters one sample, real-time safe (no allocation).
func (f *Biquad) Process(x float32) float32 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}

// Reset clears filter state so the section restarts without stale
// history. The EQ bypass path does not call it.
func (f *Biquad) Reset() {
	f.z1, f.z2 = 0, 0
}

// PeakingEQ configures f as an RBJ peaking-EQ section with the given
// centre frequency, one-octave bandwidth and gain in dB.
func (f *Biquad) PeakingEQ(centreHz, bandwidthOctaves, gainDB float64, sampleRate int) {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * centreHz / float64(sampleRate)
	sinW0, cosW0 := math.Sin(w0), math.Cos(w0)
	alpha := sinW0 * math.Sinh(math.Ln2/2*bandwidthOctaves*w0/sinW0)

	b0 := 1 + alpha*a
	b1 := -2 * cosW0
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cosW0
	a2 := 1 - alpha/a

	f.b0 = float32(b0 / a0)
	f.b1 = float32(b1 / a0)
	f.b2 = float32(b2 / a0)
	f.a1 = float32(a1 / a0)
	f.a2 = float32(a2 / a0)
}
