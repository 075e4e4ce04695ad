package calculator

import "strings"

// ---------------------------------------------------------------------------
// Operand entry
// ---------------------------------------------------------------------------

// InputDigit appends d to the current operand. A fresh result or a lone "0"
// is replaced rather than extended. Bytes outside '0'..'9' are ignored.
func InputDigit(s State, d byte) State {
	if d < '0' || d > '9' {
		return s
	}

	switch {
	case s.JustEvaluated:
		s.Current = string(d)
		s.JustEvaluated = false
	case s.Current == zeroOperand:
		s.Current = string(d)
	default:
		s.Current += string(d)
	}
	return s
}

// InputDot starts the fractional part. A second dot is a no-op.
func InputDot(s State) State {
	switch {
	case s.JustEvaluated:
		s.Current = "0."
		s.JustEvaluated = false
	case strings.Contains(s.Current, "."):
	default:
		s.Current += "."
	}
	return s
}

// Backspace drops the last character of the operand. After Equals it discards
// the result entirely.
func Backspace(s State) State {
	if s.JustEvaluated {
		s.Current = zeroOperand
		s.JustEvaluated = false
		return s
	}

	if len(s.Current) <= 1 {
		s.Current = zeroOperand
		return s
	}

	s.Current = s.Current[:len(s.Current)-1]
	if s.Current == "-" {
		s.Current = zeroOperand
	}
	return s
}

// ToggleSign negates the operand; "0" stays unsigned.
func ToggleSign(s State) State {
	switch {
	case strings.HasPrefix(s.Current, "-"):
		s.Current = s.Current[1:]
	case s.Current == zeroOperand:
	default:
		s.Current = "-" + s.Current
	}
	return s
}

// Percent divides the operand by 100.
func Percent(s State) State {
	s.Current = percentOf(s.Current)
	return s
}

// Clear returns the session-start state.
func Clear(State) State {
	return NewState()
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// operatorTransition is how ChooseOperator treats the pending operation.
type operatorTransition int

const (
	// freshTransition captures the current operand as the left-hand side.
	freshTransition operatorTransition = iota
	// chainTransition evaluates the pending operation first and carries its
	// result forward as the new left-hand side.
	chainTransition
)

func classifyOperator(s State) operatorTransition {
	if s.HasPending() && !s.JustEvaluated {
		return chainTransition
	}
	return freshTransition
}

// ChooseOperator selects op as the pending operation, evaluating any
// operation already pending when a second operand has been entered.
func ChooseOperator(s State, op Operator) State {
	if !op.Valid() {
		return s
	}

	switch classifyOperator(s) {
	case chainTransition:
		s.Previous = Evaluate(s.Previous, s.Current, s.Pending)
	case freshTransition:
		s.Previous = s.Current
		s.JustEvaluated = false
	}

	s.HasPrevious = true
	s.Current = zeroOperand
	s.Pending = op
	return s
}

// Equals applies the pending operation. Without one it is a no-op.
func Equals(s State) State {
	if !s.HasPending() {
		return s
	}

	return State{
		Current:       Evaluate(s.Previous, s.Current, s.Pending),
		JustEvaluated: true,
	}
}
