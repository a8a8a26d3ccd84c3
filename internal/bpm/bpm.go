// bpm.go - offline BPM estimator (C5): mono mixdown -> decimation ->
// energy envelope -> onset function -> autocorrelation -> octave
// correction. A pure function of (samples, channels, sampleRate); no
// dependency on internal/deck so it is runnable standalone offline or
// from a worker goroutine.
//
// Decimation by 4 is done without an anti-alias filter. This is an
// intentional approximation: the stage that follows is a coarse energy
// envelope, not a signal reconstruction, so aliasing distortion does
// not materially affect onset timing at the envelope's resolution.
package bpm

import "math"

const (
	decimationFactor = 4
	envelopeWindow   = 1024
	envelopeHop      = 512

	minBPM = 60.0
	maxBPM = 180.0
)

// Estimate runs the full pipeline and returns a BPM in [60, 180] rounded
// to 0.1, or ok=false if decoding/analysis cannot produce a result
// (fewer than 2 onset frames).
func Estimate(channels [][]float32, sampleRate int) (bpmOut float64, ok bool) {
	if len(channels) == 0 || sampleRate <= 0 {
		return 0, false
	}

	mono := monoMixdown(channels)
	decimated := decimate(mono, decimationFactor)
	decimatedRate := float64(sampleRate) / decimationFactor

	envelope := energyEnvelope(decimated, envelopeWindow, envelopeHop)
	if len(envelope) < 2 {
		return 0, false
	}

	onsets := onsetFunction(envelope)
	if len(onsets) < 2 {
		return 0, false
	}

	hopSeconds := envelopeHop / decimatedRate
	minLag := int(math.Floor(60.0 / (maxBPM * hopSeconds)))
	maxLag := int(math.Ceil(60.0 / (minBPM * hopSeconds)))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(onsets) {
		maxLag = len(onsets) - 1
	}
	if maxLag <= minLag {
		return 0, false
	}

	peakLag, peakRho := pickPeak(onsets, minLag, maxLag)
	if peakRho <= 0 {
		return 0, false
	}
	refinedLag := refinePeak(onsets, peakLag, minLag, maxLag)

	rawBPM := 60.0 / (refinedLag * hopSeconds)
	corrected := octaveCorrect(rawBPM, peakRho)

	return math.Round(corrected*10) / 10, true
}

func monoMixdown(channels [][]float32) []float32 {
	n := 0
	for _, ch := range channels {
		if len(ch) > n {
			n = len(ch)
		}
	}
	out := make([]float32, n)
	inv := 1.0 / float32(len(channels))
	for _, ch := range channels {
		for i, v := range ch {
			out[i] += v * inv
		}
	}
	return out
}

func decimate(samples []float32, factor int) []float32 {
	out := make([]float32, 0, len(samples)/factor+1)
	for i := 0; i < len(samples); i += factor {
		out = append(out, samples[i])
	}
	return out
}

func energyEnvelope(samples []float32, window, hop int) []float64 {
	if len(samples) == 0 {
		return nil
	}
	var out []float64
	maxVal := 0.0
	for start := 0; start < len(samples); start += hop {
		end := start + window
		if end > len(samples) {
			end = len(samples)
		}
		var sumSq float64
		for i := start; i < end; i++ {
			v := float64(samples[i])
			sumSq += v * v
		}
		rms := math.Sqrt(sumSq / float64(end-start))
		out = append(out, rms)
		if rms > maxVal {
			maxVal = rms
		}
	}
	if maxVal > 0 {
		for i := range out {
			out[i] /= maxVal
		}
	}
	return out
}

func onsetFunction(envelope []float64) []float64 {
	diff := make([]float64, len(envelope))
	for i := 1; i < len(envelope); i++ {
		d := envelope[i] - envelope[i-1]
		if d > 0 {
			diff[i] = d
		}
	}
	out := make([]float64, len(diff))
	for i := range diff {
		sum, n := 0.0, 0
		for k := -1; k <= 1; k++ {
			j := i + k
			if j >= 0 && j < len(diff) {
				sum += diff[j]
				n++
			}
		}
		if n > 0 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// autocorr returns the normalised autocorrelation at lag k: ρ(k) =
// Σ s[i]·s[i+k] / sqrt(Σ s[i]² · Σ s[i+k]²).
func autocorr(s []float64, k int) float64 {
	var num, sumA, sumB float64
	n := len(s) - k
	if n <= 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		a, b := s[i], s[i+k]
		num += a * b
		sumA += a * a
		sumB += b * b
	}
	denom := math.Sqrt(sumA * sumB)
	if denom == 0 {
		return 0
	}
	return num / denom
}

func pickPeak(s []float64, minLag, maxLag int) (bestLag int, bestRho float64) {
	bestLag = minLag
	bestRho = autocorr(s, minLag)
	for k := minLag + 1; k <= maxLag; k++ {
		rho := autocorr(s, k)
		if rho > bestRho {
			bestRho = rho
			bestLag = k
		}
	}
	return bestLag, bestRho
}

// refinePeak applies parabolic interpolation around the integer peak lag
// using ρ(k-1), ρ(k), ρ(k+1), clamped to the valid lag range.
func refinePeak(s []float64, peakLag, minLag, maxLag int) float64 {
	if peakLag <= minLag || peakLag >= maxLag {
		return float64(peakLag)
	}
	rm1 := autocorr(s, peakLag-1)
	r0 := autocorr(s, peakLag)
	rp1 := autocorr(s, peakLag+1)
	denom := rm1 - 2*r0 + rp1
	if denom == 0 {
		return float64(peakLag)
	}
	delta := 0.5 * (rm1 - rp1) / denom
	if delta < -1 || delta > 1 {
		return float64(peakLag)
	}
	return float64(peakLag) + delta
}

// octaveCorrect scores candidates at {0.5, 1, 2, 3}x the raw BPM,
// favouring the natural club-tempo range, and returns the best-scoring
// candidate.
func octaveCorrect(rawBPM, rho float64) float64 {
	candidates := []float64{rawBPM * 0.5, rawBPM, rawBPM * 2, rawBPM * 3}
	bestScore := math.Inf(-1)
	best := rawBPM
	for _, c := range candidates {
		score := rho
		if c >= 90 && c <= 140 {
			score *= 1.5
		}
		if c < 70 || c > 180 {
			score *= 0.5
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}
