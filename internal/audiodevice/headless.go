//go:build headless

// headless.go - no-op backend for testing/CI, matching the teacher's
// headless build tag convention exactly.
package audiodevice

// OtoPlayer is the headless stand-in: it stores the render function but
// never calls it, and produces no audio output.
type OtoPlayer struct {
	started bool
	render  RenderFunc
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) SetupPlayer(render RenderFunc) {
	op.render = render
}

func (op *OtoPlayer) Start() { op.started = true }
func (op *OtoPlayer) Stop()  { op.started = false }
func (op *OtoPlayer) Close() { op.started = false }

func (op *OtoPlayer) IsStarted() bool { return op.started }
