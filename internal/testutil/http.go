// Package testutil holds HTTP helpers shared by the handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ExecuteRequest runs req through handler and returns the recorded response.
func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// NewJSONRequest builds a request whose body is body encoded as JSON. A nil
// body sends no content at all.
func NewJSONRequest(t testing.TB, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}

// CheckErrorBody asserts that body is the JSON error envelope written by the
// handlers and returns its message.
func CheckErrorBody(t testing.TB, body io.Reader) string {
	t.Helper()

	var payload map[string]string
	DecodeJSONBody(t, body, &payload)
	msg, ok := payload["error"]
	if !ok || msg == "" {
		t.Fatalf("expected error message in body, got %#v", payload)
	}
	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in JSON body")
	}
	return msg
}
