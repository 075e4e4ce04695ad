package calculator

// Operator is a binary operation awaiting its right-hand operand.
type Operator int

const (
	// NoOperator marks the absence of a pending operation.
	NoOperator Operator = iota
	Add
	Subtract
	Multiply
	Divide
)

// Symbol returns the keypad glyph shown in the pending-expression annotation.
func (op Operator) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "−"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return ""
	}
}

// String returns the operator name used in logs, metrics and JSON.
func (op Operator) String() string {
	switch op {
	case Add:
		return "add"
	case Subtract:
		return "subtract"
	case Multiply:
		return "multiply"
	case Divide:
		return "divide"
	default:
		return "none"
	}
}

// Valid reports whether op is one of the four arithmetic operators.
func (op Operator) Valid() bool {
	return op >= Add && op <= Divide
}

// State is an immutable snapshot of the calculator. Transitions take a State
// by value and return the next one; the zero value is not a valid state, use
// NewState.
//
// Previous and Pending are set and cleared together: Pending == NoOperator
// if and only if HasPrevious is false.
type State struct {
	Current       string
	Previous      string
	HasPrevious   bool
	Pending       Operator
	JustEvaluated bool
}

// NewState returns the session-start state with a "0" display.
func NewState() State {
	return State{Current: zeroOperand}
}

// HasPending reports whether an operation is waiting for its second operand.
func (s State) HasPending() bool {
	return s.HasPrevious && s.Pending.Valid()
}

const zeroOperand = "0"

// View is the derived presentation of a State.
type View struct {
	Display    string `json:"display"`
	Expression string `json:"expression"`
}

// Display derives what a keypad front end renders for s: the current operand,
// plus "previous op" when an operation is pending.
func Display(s State) View {
	v := View{Display: s.Current}
	if s.HasPending() {
		v.Expression = s.Previous + " " + s.Pending.Symbol()
	}
	return v
}
