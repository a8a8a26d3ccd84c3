// midi.go - translates an inbound MIDI message stream into Actions via a
// learnable {channel, number} -> Binding table, as spec.md §4.8.
package control

import "gitlab.com/gomidi/midi/v2"

// MsgKind distinguishes the three MIDI message shapes this binder reacts
// to; noteOff is accepted but carries no Binding (only noteOn triggers
// an action).
type MsgKind int

const (
	MsgNoteOn MsgKind = iota
	MsgControlChange
	MsgPitchBend
)

// BindKey identifies one physical control: a channel plus either a note
// number or a CC number, depending on Kind.
type BindKey struct {
	Kind    MsgKind
	Channel uint8
	Number  uint8 // note or CC number; unused for MsgPitchBend
}

// Binding is what a BindKey resolves to: an action Kind, the deck it
// targets, and (for triggerHotCue) which slot.
type Binding struct {
	Kind   Kind
	Deck   DeckID
	HotCue int
}

// Binder owns the learnable mapping table and the two conversion rules
// (linear for volume/crossfader-style controls, centred dB for EQ) used
// to turn raw MIDI values into Action.Value.
type Binder struct {
	Surfaces *Surfaces
	bindings map[BindKey]Binding

	learning   bool
	learnSlot  Binding
	learnedKey *BindKey
}

// NewBinder returns a Binder with an empty mapping table.
func NewBinder(s *Surfaces) *Binder {
	return &Binder{Surfaces: s, bindings: make(map[BindKey]Binding)}
}

// Bind installs a mapping from a physical control to an action.
func (b *Binder) Bind(key BindKey, binding Binding) { b.bindings[key] = binding }

// Mappings returns the current key->binding table, for persistence as a
// flat key->label map (engine owns the actual encoding).
func (b *Binder) Mappings() map[BindKey]Binding { return b.bindings }

// BeginLearn puts the binder into MIDI-Learn mode: the next inbound
// note-on, CC or pitch-bend message, whether or not it is already bound,
// is bound to target instead of being dispatched.
func (b *Binder) BeginLearn(target Binding) {
	b.learning = true
	b.learnSlot = target
	b.learnedKey = nil
}

// LearnedKey returns the key captured by the most recent learn session,
// or nil if none has completed yet.
func (b *Binder) LearnedKey() *BindKey { return b.learnedKey }

// HandleMessage decodes one MIDI message and, if it resolves to a bound
// (or currently-learning) control, dispatches the corresponding Action.
func (b *Binder) HandleMessage(msg midi.Message) {
	var channel, key, velocity uint8
	if msg.GetNoteOn(&channel, &key, &velocity) {
		b.handle(BindKey{Kind: MsgNoteOn, Channel: channel, Number: key}, 1.0)
		return
	}

	var controller, value uint8
	if msg.GetControlChange(&channel, &controller, &value) {
		b.handle(BindKey{Kind: MsgControlChange, Channel: channel, Number: controller}, float64(value))
		return
	}

	var absolute uint16
	if msg.GetPitchBend(&channel, nil, &absolute) {
		b.handle(BindKey{Kind: MsgPitchBend, Channel: channel}, float64(absolute))
		return
	}
}

func (b *Binder) handle(k BindKey, rawValue float64) {
	if b.learning {
		b.bindings[k] = b.learnSlot
		b.learnedKey = &k
		b.learning = false
		return
	}

	binding, ok := b.bindings[k]
	if !ok {
		return
	}

	action := Action{Kind: binding.Kind, Deck: binding.Deck, HotCue: binding.HotCue}
	switch k.Kind {
	case MsgControlChange:
		action.Value = convertCC(binding.Kind, rawValue)
	case MsgPitchBend:
		action.Value = convertPitchBend(rawValue)
	}

	b.Surfaces.Dispatch(action)
}

// convertCC maps a raw 0-127 CC value according to the target action:
// linear [0,1] for volume/crossfader/master-volume, centred dB
// ((val-64)/64)*12 for the EQ bands.
func convertCC(kind Kind, raw float64) float64 {
	switch kind {
	case SetEQLow, SetEQMid, SetEQHigh:
		return (raw - 64) / 64 * 12
	default:
		return raw / 127
	}
}

// convertPitchBend maps a 14-bit-range pitch-bend value (centred at 8184,
// ±8184 full-scale) to a tempo multiplier: 1 + ((raw-8184)/8184)*0.41.
func convertPitchBend(raw float64) float64 {
	return 1 + ((raw-8184)/8184)*0.41
}
