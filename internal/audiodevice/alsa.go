//go:build !headless

// alsa.go - direct ALSA output backend. Adapted from the teacher's
// audio_backend_alsa.go: generalised from a fixed mono PCM channel count
// to stereo interleaved frames, and from a push-model Write(samples) fed
// by an external mono source to a pull-model driver goroutine that calls
// a stereo RenderFunc each period.
package audiodevice

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

const alsaPeriodFrames = 1024

// ALSAPlayer is a stereo pull-model output backend driving ALSA directly
// via cgo, for platforms where oto's backend is unavailable or an extra
// low-latency path is wanted.
type ALSAPlayer struct {
	handle   *C.snd_pcm_t
	render   RenderFunc
	started  bool
	playing  bool
	mutex    sync.Mutex
	stopCh   chan struct{}
	bufL     []float32
	bufR     []float32
	interleaved []float32
}

// NewALSAPlayer opens the default PCM device at sampleRate, stereo.
func NewALSAPlayer(sampleRate int, render RenderFunc) (*ALSAPlayer, error) {
	var cerr C.int
	handle := C.openPCM(C.CString("default"), &cerr)
	if cerr < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(cerr)))
	}

	if cerr = C.setupPCM(handle, C.uint(sampleRate), 2); cerr < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(cerr)))
	}

	return &ALSAPlayer{
		handle:      handle,
		render:      render,
		bufL:        make([]float32, alsaPeriodFrames),
		bufR:        make([]float32, alsaPeriodFrames),
		interleaved: make([]float32, alsaPeriodFrames*2),
	}, nil
}

func (ap *ALSAPlayer) writePeriod() error {
	ap.render(ap.bufL, ap.bufR, alsaPeriodFrames)
	for i := 0; i < alsaPeriodFrames; i++ {
		ap.interleaved[2*i] = ap.bufL[i]
		ap.interleaved[2*i+1] = ap.bufR[i]
	}

	frames := C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.interleaved[0])), C.int(alsaPeriodFrames))
	if frames < 0 {
		if frames == -C.EPIPE {
			C.snd_pcm_prepare(ap.handle)
			frames = C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.interleaved[0])), C.int(alsaPeriodFrames))
		}
		if frames < 0 {
			return fmt.Errorf("write failed: %s", C.GoString(C.snd_strerror(C.int(frames))))
		}
	}
	return nil
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

// Start launches the driver goroutine that repeatedly pulls a period of
// audio from the RenderFunc and writes it to ALSA.
func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.started {
		return
	}
	ap.started = true
	ap.playing = true
	ap.stopCh = make(chan struct{})
	stopCh := ap.stopCh
	go func() {
		for {
			select {
			case <-stopCh:
				return
			default:
				if err := ap.writePeriod(); err != nil {
					return
				}
			}
		}
	}()
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if !ap.playing {
		return
	}
	close(ap.stopCh)
	ap.playing = false
	ap.started = false
}

func (ap *ALSAPlayer) Close() {
	ap.Stop()
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}
