package keypad

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"keypad-calculator/internal/observability"
	"keypad-calculator/internal/session"
	"keypad-calculator/internal/testutil"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	if err := InitMetrics(); err != nil {
		t.Fatalf("initializing metrics: %v", err)
	}

	r := chi.NewRouter()
	NewHandler(session.New(time.Minute, time.Minute)).RegisterRoutes(r)
	return r
}

func postJSON(path, body string) *http.Request {
	return testutil.NewJSONRequest(http.MethodPost, path, body)
}

func createSession(t *testing.T, h http.Handler) SessionResponse {
	t.Helper()
	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/calculator/sessions", nil), h)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	return resp
}

func TestCreateSession(t *testing.T) {
	h := newTestRouter(t)

	resp := createSession(t, h)

	if resp.SessionID == "" {
		t.Fatal("expected session id")
	}
	if resp.Display != "0" || resp.Expression != "" {
		t.Fatalf("expected fresh view, got %+v", resp)
	}
}

func TestPressKeys(t *testing.T) {
	tests := []struct {
		name       string
		keys       string
		display    string
		expression string
		pending    string
	}{
		{name: "chained addition", keys: `["2","+","3","+","4","="]`, display: "9"},
		{name: "pending annotation", keys: `["1","2","÷"]`, display: "0", expression: "12 ÷", pending: "divide"},
		{name: "division by zero", keys: `["5","/","0","="]`, display: "Error"},
		{name: "precision", keys: `["0",".","1","+","0",".","2","="]`, display: "0.3"},
		{name: "percent", keys: `["5","0","%"]`, display: "0.5"},
		{name: "backspace after equals", keys: `["9","+","1","=","⌫"]`, display: "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestRouter(t)
			id := createSession(t, h).SessionID

			w := testutil.ExecuteRequest(postJSON("/calculator/sessions/"+id+"/keys", `{"keys":`+tc.keys+`}`), h)
			testutil.CheckResponseCode(t, http.StatusOK, w.Code)

			var resp SessionResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)

			if resp.SessionID != id {
				t.Fatalf("expected session %q, got %q", id, resp.SessionID)
			}
			if resp.Display != tc.display {
				t.Fatalf("expected display %q, got %q", tc.display, resp.Display)
			}
			if resp.Expression != tc.expression {
				t.Fatalf("expected expression %q, got %q", tc.expression, resp.Expression)
			}
			if resp.Pending != tc.pending {
				t.Fatalf("expected pending %q, got %q", tc.pending, resp.Pending)
			}
		})
	}
}

func TestPressKeysPersistsAcrossRequests(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h).SessionID

	for _, keys := range []string{`["7"]`, `["×"]`, `["6"]`, `["="]`} {
		w := testutil.ExecuteRequest(postJSON("/calculator/sessions/"+id+"/keys", `{"keys":`+keys+`}`), h)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	}

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Display != "42" || !resp.JustEvaluated {
		t.Fatalf("expected evaluated 42, got %+v", resp)
	}
}

func TestPressKeysUnknownKeyAppliesNothing(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h).SessionID

	w := testutil.ExecuteRequest(postJSON("/calculator/sessions/"+id+"/keys", `{"keys":["4","sqrt"]}`), h)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil), h)
	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Display != "0" {
		t.Fatalf("expected untouched display, got %q", resp.Display)
	}
}

func TestPressKeysRejectsEmptyKeys(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h).SessionID

	for _, body := range []string{`{"keys":[]}`, `{}`} {
		w := testutil.ExecuteRequest(postJSON("/calculator/sessions/"+id+"/keys", body), h)
		testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

		var errResp map[string]string
		testutil.DecodeJSONBody(t, w.Body, &errResp)
		if errResp["error"] != "no keys provided" {
			t.Fatalf("expected %q for %s, got %q", "no keys provided", body, errResp["error"])
		}
	}

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil), h)
	var resp SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Display != "0" || resp.Expression != "" {
		t.Fatalf("expected untouched session, got %+v", resp)
	}
}

func TestSessionErrors(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name string
		req  *http.Request
		code int
	}{
		{name: "get unknown", req: httptest.NewRequest(http.MethodGet, "/calculator/sessions/nope", nil), code: http.StatusNotFound},
		{name: "keys unknown session", req: postJSON("/calculator/sessions/nope/keys", `{"keys":["1"]}`), code: http.StatusNotFound},
		{name: "keys bad body", req: postJSON("/calculator/sessions/nope/keys", `{`), code: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.ExecuteRequest(tc.req, h)
			testutil.CheckResponseCode(t, tc.code, w.Code)

			var body map[string]string
			testutil.DecodeJSONBody(t, w.Body, &body)
			if body["error"] == "" {
				t.Fatal("expected error message in body")
			}
		})
	}
}

func TestDeleteSession(t *testing.T) {
	h := newTestRouter(t)
	id := createSession(t, h).SessionID

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/calculator/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+id, nil), h)
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestEvaluate(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		body   string
		code   int
		result string
	}{
		{body: `{"a":"0.1","b":"0.2","op":"+"}`, code: http.StatusOK, result: "0.3"},
		{body: `{"a":"5","b":"0","op":"÷"}`, code: http.StatusOK, result: "Error"},
		{body: `{"a":"7","b":"6","op":"x"}`, code: http.StatusOK, result: "42"},
		{body: `{"a":"7","b":"6","op":"="}`, code: http.StatusBadRequest},
		{body: `{"a":"7","b":"6","op":"^"}`, code: http.StatusBadRequest},
		{body: `not json`, code: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			w := testutil.ExecuteRequest(postJSON("/calculator/evaluate", tc.body), h)
			testutil.CheckResponseCode(t, tc.code, w.Code)
			if tc.code != http.StatusOK {
				return
			}

			var resp EvaluateResponse
			testutil.DecodeJSONBody(t, w.Body, &resp)
			if resp.Result != tc.result {
				t.Fatalf("expected result %q, got %q", tc.result, resp.Result)
			}
		})
	}
}

func TestReplay(t *testing.T) {
	h := newTestRouter(t)

	w := testutil.ExecuteRequest(postJSON("/calculator/replay", `{"keys":["2","+","3","+","4","="]}`), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp ReplayResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if len(resp.Steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(resp.Steps))
	}
	if resp.Steps[3].Expression != "5 +" {
		t.Fatalf("expected chained expression %q, got %q", "5 +", resp.Steps[3].Expression)
	}
	if resp.Display != "9" || resp.Expression != "" {
		t.Fatalf("expected final display 9, got %+v", resp)
	}
}

func TestReplayRejectsEmptyKeys(t *testing.T) {
	h := newTestRouter(t)

	w := testutil.ExecuteRequest(postJSON("/calculator/replay", `{"keys":[]}`), h)
	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)
}

func TestPressKeysLogsResult(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	h := newTestRouter(t)
	id := createSession(t, h).SessionID

	w := testutil.ExecuteRequest(postJSON("/calculator/sessions/"+id+"/keys", `{"keys":["8","×","2"]}`), h)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("keys applied").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["session_id"] != id {
		t.Fatalf("expected session_id %q, got %#v", id, fields["session_id"])
	}
	if fields["display"] != "2" {
		t.Fatalf("expected display %q, got %#v", "2", fields["display"])
	}
	if fields["expression"] != "8 ×" {
		t.Fatalf("expected expression %q, got %#v", "8 ×", fields["expression"])
	}
}
