package models

// ActionKind classifies a semantic key action for dispatch.
type ActionKind int

const (
	ActionNoop ActionKind = iota
	ActionDigit
	ActionCommit
	ActionPrint
)

var actionNames = map[ActionKind]string{
	ActionNoop:   "noop",
	ActionDigit:  "digit",
	ActionCommit: "commit",
	ActionPrint:  "print",
}

func (k ActionKind) String() string {
	if n, ok := actionNames[k]; ok {
		return n
	}
	return "unknown"
}

// KeyAction is what the key mapper hands to the input session. Digit is
// an ASCII character '0'..'9' and is only meaningful for ActionDigit.
type KeyAction struct {
	Kind  ActionKind
	Digit byte
}

// Keymap translates raw key codes into semantic actions. The tables are
// fixed at construction; nothing mutates a Keymap after DefaultKeymap.
type Keymap struct {
	enter  map[uint16]bool
	commit map[uint16]bool
	digits map[uint16]byte
}

// DefaultKeymap returns the layout of a standard USB numeric keypad:
// both Enter keys print, the '+' key commits, the digit block buffers.
func DefaultKeymap() Keymap {
	return Keymap{
		enter:  map[uint16]bool{28: true, 96: true},
		commit: map[uint16]bool{78: true},
		digits: map[uint16]byte{
			82: '0', 79: '1', 80: '2', 81: '3', 75: '4',
			76: '5', 77: '6', 71: '7', 72: '8', 73: '9',
		},
	}
}

// Map classifies one decoded event. Releases, autorepeats, non-key event
// types and unmapped codes all collapse to a no-op.
func (k Keymap) Map(ev RawEvent) KeyAction {
	if ev.Type != EvKey || ev.Value != ValPress {
		return KeyAction{Kind: ActionNoop}
	}
	switch {
	case k.enter[ev.Code]:
		return KeyAction{Kind: ActionPrint}
	case k.commit[ev.Code]:
		return KeyAction{Kind: ActionCommit}
	}
	if d, ok := k.digits[ev.Code]; ok {
		return KeyAction{Kind: ActionDigit, Digit: d}
	}
	return KeyAction{Kind: ActionNoop}
}
