package keypad

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"keypad-calculator/internal/calculator"
)

// ErrUnknownKey is returned for labels that map to no keypad event.
var ErrUnknownKey = errors.New("unknown key")

// keyEvents maps normalized key labels to engine events. Digits are handled
// separately.
var keyEvents = map[string]calculator.Event{
	".": calculator.DotEvent,
	",": calculator.DotEvent,

	"+": calculator.OperatorEvent(calculator.Add),
	"-": calculator.OperatorEvent(calculator.Subtract),
	"−": calculator.OperatorEvent(calculator.Subtract),
	"*": calculator.OperatorEvent(calculator.Multiply),
	"x": calculator.OperatorEvent(calculator.Multiply),
	"×": calculator.OperatorEvent(calculator.Multiply),
	"/": calculator.OperatorEvent(calculator.Divide),
	"÷": calculator.OperatorEvent(calculator.Divide),

	"=":     calculator.EqualsEvent,
	"enter": calculator.EqualsEvent,

	"ac":    calculator.ClearEvent,
	"c":     calculator.ClearEvent,
	"clear": calculator.ClearEvent,
	"esc":   calculator.ClearEvent,

	"⌫":         calculator.BackspaceEvent,
	"backspace": calculator.BackspaceEvent,
	"bs":        calculator.BackspaceEvent,

	"±":   calculator.ToggleSignEvent,
	"+/-": calculator.ToggleSignEvent,
	"neg": calculator.ToggleSignEvent,

	"%": calculator.PercentEvent,
}

// ParseKey maps a keypad label to its event. Labels are NFKC-normalized, so
// fullwidth forms such as "５" and "＋" are accepted, and word labels are
// case-insensitive.
func ParseKey(label string) (calculator.Event, error) {
	key := strings.ToLower(strings.TrimSpace(norm.NFKC.String(label)))

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		return calculator.DigitEvent(key[0]), nil
	}

	if ev, ok := keyEvents[key]; ok {
		return ev, nil
	}

	return calculator.Event{}, fmt.Errorf("%w: %q", ErrUnknownKey, label)
}

// ParseKeys maps every label, failing on the first unknown one.
func ParseKeys(labels []string) ([]calculator.Event, error) {
	events := make([]calculator.Event, 0, len(labels))
	for i, l := range labels {
		ev, err := ParseKey(l)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
