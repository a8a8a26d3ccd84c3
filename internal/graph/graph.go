// graph.go - the audio graph (C3): sums both decks' rendered output
// through the mixer's gains into a stereo master. This is the function
// registered as the output device's pull callback; it must not allocate,
// lock, or touch the filesystem.
package graph

import (
	"github.com/deckengine/deckengine/internal/deck"
	"github.com/deckengine/deckengine/internal/mixer"
)

// Graph owns per-deck scratch buffers so the render callback never
// allocates regardless of the block size the output device requests
// (bounded by maxBlockFrames, sized generously for typical callback
// periods).
type Graph struct {
	DeckA, DeckB *deck.Deck
	Mixer        *mixer.State

	scratchAL, scratchAR []float32
	scratchBL, scratchBR []float32
}

const maxBlockFrames = 8192

// New wires a Graph around the given decks and mixer state.
func New(a, b *deck.Deck, m *mixer.State) *Graph {
	return &Graph{
		DeckA: a, DeckB: b, Mixer: m,
		scratchAL: make([]float32, maxBlockFrames),
		scratchAR: make([]float32, maxBlockFrames),
		scratchBL: make([]float32, maxBlockFrames),
		scratchBR: make([]float32, maxBlockFrames),
	}
}

// Render pulls nFrames from both decks, applies the mixer's per-deck
// gains and master volume, and writes the summed stereo result into
// outL/outR. nFrames must not exceed maxBlockFrames.
func (g *Graph) Render(outL, outR []float32, nFrames int) {
	if nFrames > maxBlockFrames {
		nFrames = maxBlockFrames
	}

	g.DeckA.Render(g.scratchAL[:nFrames], g.scratchAR[:nFrames], nFrames)
	g.DeckB.Render(g.scratchBL[:nFrames], g.scratchBR[:nFrames], nFrames)

	gainA, gainB := g.Mixer.Gains()
	fgA, fgB := float32(gainA), float32(gainB)

	for i := 0; i < nFrames; i++ {
		outL[i] = g.scratchAL[i]*fgA + g.scratchBL[i]*fgB
		outR[i] = g.scratchAR[i]*fgA + g.scratchBR[i]*fgB
	}
}
