// device.go - the pull-model stereo output device contract shared by all
// backends. Adapted from the teacher's mono OtoPlayer/ALSAPlayer pair:
// generalised from a hardcoded *SoundChip source to a caller-supplied
// RenderFunc, and from mono to interleaved stereo frames.
package audiodevice

// RenderFunc fills outL/outR with nFrames of stereo audio; it is called
// from the backend's real-time thread and must not allocate, lock, or
// block on I/O. internal/graph.Graph.Render satisfies this signature.
type RenderFunc func(outL, outR []float32, nFrames int)

// Player is the common control surface every backend implements.
type Player interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}
