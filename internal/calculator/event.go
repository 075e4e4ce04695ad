package calculator

import "fmt"

// EventKind enumerates the keypad inputs the engine understands.
type EventKind int

const (
	EventDigit EventKind = iota + 1
	EventDot
	EventOperator
	EventEquals
	EventClear
	EventBackspace
	EventToggleSign
	EventPercent
)

func (k EventKind) String() string {
	switch k {
	case EventDigit:
		return "digit"
	case EventDot:
		return "dot"
	case EventOperator:
		return "operator"
	case EventEquals:
		return "equals"
	case EventClear:
		return "clear"
	case EventBackspace:
		return "backspace"
	case EventToggleSign:
		return "toggle_sign"
	case EventPercent:
		return "percent"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a single keypad input. Digit is set only for EventDigit and
// Operator only for EventOperator.
type Event struct {
	Kind     EventKind
	Digit    byte
	Operator Operator
}

// DigitEvent returns the event for pressing digit d ('0'..'9').
func DigitEvent(d byte) Event { return Event{Kind: EventDigit, Digit: d} }

// OperatorEvent returns the event for pressing an operator key.
func OperatorEvent(op Operator) Event { return Event{Kind: EventOperator, Operator: op} }

// Simple events without payload.
var (
	DotEvent        = Event{Kind: EventDot}
	EqualsEvent     = Event{Kind: EventEquals}
	ClearEvent      = Event{Kind: EventClear}
	BackspaceEvent  = Event{Kind: EventBackspace}
	ToggleSignEvent = Event{Kind: EventToggleSign}
	PercentEvent    = Event{Kind: EventPercent}
)

// Label renders e the way it appears on a keypad.
func (e Event) Label() string {
	switch e.Kind {
	case EventDigit:
		return string(e.Digit)
	case EventDot:
		return "."
	case EventOperator:
		return e.Operator.Symbol()
	case EventEquals:
		return "="
	case EventClear:
		return "AC"
	case EventBackspace:
		return "⌫"
	case EventToggleSign:
		return "±"
	case EventPercent:
		return "%"
	default:
		return e.Kind.String()
	}
}

func (e Event) String() string {
	return e.Label()
}

// Reduce applies e to s. Unknown event kinds leave s unchanged.
func Reduce(s State, e Event) State {
	switch e.Kind {
	case EventDigit:
		return InputDigit(s, e.Digit)
	case EventDot:
		return InputDot(s)
	case EventOperator:
		return ChooseOperator(s, e.Operator)
	case EventEquals:
		return Equals(s)
	case EventClear:
		return Clear(s)
	case EventBackspace:
		return Backspace(s)
	case EventToggleSign:
		return ToggleSign(s)
	case EventPercent:
		return Percent(s)
	default:
		return s
	}
}

// Replay folds events over s and returns the final state together with the
// state observed after each event.
func Replay(s State, events []Event) (State, []State) {
	steps := make([]State, 0, len(events))
	for _, e := range events {
		s = Reduce(s, e)
		steps = append(steps, s)
	}
	return s, steps
}
