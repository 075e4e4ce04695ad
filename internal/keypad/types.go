package keypad

import "keypad-calculator/internal/calculator"

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys and
// POST /calculator/replay.
type KeysRequest struct {
	Keys []string `json:"keys"` // keypad labels, e.g. "7", "+", "=", "AC", "⌫"
}

// SessionResponse describes a session's current view.
type SessionResponse struct {
	SessionID     string `json:"session_id"`
	Display       string `json:"display"`
	Expression    string `json:"expression"`
	Pending       string `json:"pending,omitempty"`
	JustEvaluated bool   `json:"just_evaluated"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	A  string `json:"a"`
	B  string `json:"b"`
	Op string `json:"op"` // "+", "−", "×", "÷" or their ASCII forms
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	A         string `json:"a"`
	B         string `json:"b"`
	Operation string `json:"operation"`
	Result    string `json:"result"`
}

// ReplayStep records the view after one key of a replay.
type ReplayStep struct {
	Key        string `json:"key"`
	Display    string `json:"display"`
	Expression string `json:"expression"`
}

// ReplayResponse is the JSON response for POST /calculator/replay.
type ReplayResponse struct {
	Steps      []ReplayStep `json:"steps"`
	Display    string       `json:"display"`
	Expression string       `json:"expression"`
}

func newSessionResponse(id string, s calculator.State) SessionResponse {
	v := calculator.Display(s)
	resp := SessionResponse{
		SessionID:     id,
		Display:       v.Display,
		Expression:    v.Expression,
		JustEvaluated: s.JustEvaluated,
	}
	if s.HasPending() {
		resp.Pending = s.Pending.String()
	}
	return resp
}
