// stereo_stretch.go - stereo wrapper around Stretcher, driven with shared
// rate/pitch parameters so both channels stay in phase.
package dsp

// StereoStretcher processes the left and right channels in lock-step.
type StereoStretcher struct {
	L, R *Stretcher
}

// NewStereoStretcher returns a StereoStretcher ready to render from frame 0.
func NewStereoStretcher() *StereoStretcher {
	return &StereoStretcher{L: NewStretcher(), R: NewStretcher()}
}

// Reset repositions both channels to sourceFrame, clearing grain history.
func (s *StereoStretcher) Reset(sourceFrame float64) {
	s.L.Reset(sourceFrame)
	s.R.Reset(sourceFrame)
}

// Process renders nFrames into outL/outR from srcL/srcR.
func (s *StereoStretcher) Process(srcL, srcR []float32, outL, outR []float32, nFrames int, r, pitchCents float64) {
	s.L.Process(srcL, outL, nFrames, r, pitchCents)
	s.R.Process(srcR, outR, nFrames, r, pitchCents)
}

// SourcePos returns the (left-channel) fractional source position.
func (s *StereoStretcher) SourcePos() float64 { return s.L.SourcePos() }
