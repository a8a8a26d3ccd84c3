// action.go - the explicit action vocabulary (C8) both MIDI and UI
// gestures are translated into before reaching the deck/mixer.
package control

// DeckID selects which deck an action targets.
type DeckID int

const (
	DeckA DeckID = iota
	DeckB
)

// Kind enumerates the action vocabulary.
type Kind int

const (
	TogglePlayPause Kind = iota
	JumpToCue
	SetCuePoint
	Sync
	TriggerHotCue
	JogTouch
	JogRotate
	SetTempo
	SetPitch
	SetVolume
	SetEQHigh
	SetEQMid
	SetEQLow
	SetCrossfader
	SetMasterVolume
	ToggleHeadphoneCue
)

// Action is the single type every control surface event is translated
// into. Not every field is meaningful for every Kind; Deck is ignored by
// the two mixer-global actions (SetCrossfader, SetMasterVolume).
type Action struct {
	Kind    Kind
	Deck    DeckID
	Value   float64 // setTempo/setPitch/setVolume/setEq*/setCrossfader/setMasterVolume/jogRotate
	HotCue  int     // triggerHotCue
	Touched bool    // jogTouch
}
