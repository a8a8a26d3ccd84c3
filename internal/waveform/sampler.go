// sampler.go - offline PCM reduction to a 50 Hz RMS envelope (C7).
package waveform

import "math"

// rmsWindowSize bounds how many frames are read per envelope sample.
const rmsWindowSize = 2048

// Sample reduces planar float32 PCM to a fixed-rate RMS envelope.
//
// framesPerSample = floor(totalFrames / (duration * sps)); each envelope
// sample reads up to rmsWindowSize frames starting at its offset. The
// envelope is normalised by its maximum unless every sample is zero, in
// which case the zero envelope is returned unchanged.
func Sample(channels [][]float32, totalFrames int, duration float64, trackID string, sps int) *Envelope {
	if sps <= 0 {
		sps = DefaultSamplesPerSecond
	}
	env := &Envelope{
		TrackID:          trackID,
		SamplesPerSecond: sps,
		DurationSeconds:  duration,
	}
	if totalFrames <= 0 || duration <= 0 || len(channels) == 0 {
		return env
	}

	framesPerSample := int(math.Floor(float64(totalFrames) / (duration * float64(sps))))
	if framesPerSample <= 0 {
		framesPerSample = 1
	}

	numSamples := totalFrames / framesPerSample
	if numSamples == 0 {
		numSamples = 1
	}

	samples := make([]float32, 0, numSamples)
	nch := float64(len(channels))
	for offset := 0; offset < totalFrames; offset += framesPerSample {
		end := offset + rmsWindowSize
		if end > totalFrames {
			end = totalFrames
		}
		if end <= offset {
			break
		}

		var sumSq float64
		count := 0
		for i := offset; i < end; i++ {
			var mono float64
			for _, ch := range channels {
				if i < len(ch) {
					mono += float64(ch[i])
				}
			}
			mono /= nch
			sumSq += mono * mono
			count++
		}
		if count == 0 {
			samples = append(samples, 0)
			continue
		}
		rms := math.Sqrt(sumSq / float64(count))
		samples = append(samples, float32(rms))
	}

	var maxVal float32
	for _, s := range samples {
		if s > maxVal {
			maxVal = s
		}
	}
	if maxVal > 0 {
		for i := range samples {
			samples[i] /= maxVal
		}
	}

	env.Samples = samples
	return env
}
