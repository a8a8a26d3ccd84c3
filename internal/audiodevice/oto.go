//go:build !headless

// oto.go - OTO v3 audio output backend. Adapted from the teacher's
// audio_backend_oto.go: the atomic.Pointer/chip-pull discipline is kept,
// generalised from a mono *SoundChip source to a stereo RenderFunc, and
// from a raw float32 sample buffer to interleaved L/R pairs.
package audiodevice

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer is a stereo pull-model output backed by ebitengine/oto.
type OtoPlayer struct {
	ctx      *oto.Context
	player   *oto.Player
	render   atomic.Pointer[RenderFunc] // lock-free for Read()
	scratch  [][2]float32               // pre-allocated interleave buffer
	bufL     []float32                  // pre-allocated render scratch
	bufR     []float32
	started  bool
	mutex    sync.Mutex // setup/control operations only
}

// NewOtoPlayer opens an oto context at sampleRate with 2 output channels.
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{ctx: ctx}, nil
}

// SetupPlayer installs the render callback and allocates the player.
func (op *OtoPlayer) SetupPlayer(render RenderFunc) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.render.Store(&render)
	op.player = op.ctx.NewPlayer(op)
	op.scratch = make([][2]float32, 4096)
	op.bufL = make([]float32, 4096)
	op.bufR = make([]float32, 4096)
}

// Read implements io.Reader for oto.Player, filling p with interleaved
// stereo float32 frames. No lock: the render pointer is loaded
// atomically. It allocates only when oto requests more frames than the
// scratch buffers hold (4096 after SetupPlayer), growing them once.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	render := op.render.Load()
	if render == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numFrames := len(p) / 8 // 2 channels * 4 bytes
	if len(op.scratch) < numFrames {
		op.scratch = make([][2]float32, numFrames)
		op.bufL = make([]float32, numFrames)
		op.bufR = make([]float32, numFrames)
	}

	outL := op.bufL[:numFrames]
	outR := op.bufR[:numFrames]
	(*render)(outL, outR, numFrames)

	for i := 0; i < numFrames; i++ {
		op.scratch[i][0] = outL[i]
		op.scratch[i][1] = outR[i]
	}

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&op.scratch[0]))[:len(p)])
	return len(p), nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.started && op.player != nil {
		op.player.Close()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
