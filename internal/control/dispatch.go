// dispatch.go - routes a resolved Action to the deck/mixer it targets.
// Both the MIDI binder and direct UI gestures funnel through Dispatch,
// so a physical controller and an on-screen button are indistinguishable
// once past this point.
package control

import (
	"github.com/deckengine/deckengine/internal/beatsync"
	"github.com/deckengine/deckengine/internal/deck"
	"github.com/deckengine/deckengine/internal/mixer"
)

// BPMLookup resolves a deck's stored original BPM, if known.
type BPMLookup func(DeckID) *float64

// Surfaces bundles the two decks and the mixer Dispatch mutates. It is
// the minimal view of engine state the control layer needs.
type Surfaces struct {
	DeckA, DeckB *deck.Deck
	Mixer        *mixer.State
	BPM          BPMLookup
}

func (s *Surfaces) deck(id DeckID) *deck.Deck {
	if id == DeckA {
		return s.DeckA
	}
	return s.DeckB
}

func (s *Surfaces) other(id DeckID) DeckID {
	if id == DeckA {
		return DeckB
	}
	return DeckA
}

// Dispatch applies a resolved Action to the targeted deck or mixer.
func (s *Surfaces) Dispatch(a Action) {
	d := s.deck(a.Deck)
	switch a.Kind {
	case TogglePlayPause:
		d.TogglePlayPause()
	case JumpToCue:
		d.JumpToCue()
	case SetCuePoint:
		d.SetCue()
	case Sync:
		leaderID := s.other(a.Deck)
		leader := s.deck(leaderID)
		follower := d
		var followerBPM, leaderBPM *float64
		if s.BPM != nil {
			followerBPM = s.BPM(a.Deck)
			leaderBPM = s.BPM(leaderID)
		}
		beatsync.Sync(follower, leader, followerBPM, leaderBPM)
	case TriggerHotCue:
		d.TriggerHotCue(a.HotCue)
	case JogTouch:
		// Jog touch pauses the platter's forward motion without stopping
		// playback state; treated as a momentary pause/resume pair by the
		// caller's gesture stream, so no deck-level state is needed here.
	case JogRotate:
		d.Seek(d.CurrentTime() + a.Value)
	case SetTempo:
		d.SetTempo(a.Value)
	case SetPitch:
		d.SetPitch(a.Value)
	case SetVolume:
		d.SetVolume(a.Value)
	case SetEQHigh:
		d.SetEQ(deck.EQHigh, a.Value)
	case SetEQMid:
		d.SetEQ(deck.EQMid, a.Value)
	case SetEQLow:
		d.SetEQ(deck.EQLow, a.Value)
	case SetCrossfader:
		s.Mixer.SetCrossfader(a.Value)
	case SetMasterVolume:
		s.Mixer.SetMasterVolume(a.Value)
	case ToggleHeadphoneCue:
		// Headphone cueing routes a monitor bus outside the graph this
		// module renders; out of scope for the summed stereo master.
	}
}
