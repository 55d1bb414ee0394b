package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestRequest builds a request with an optional JSON body
func newTestRequest(method, path string, body any) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	raw, _ := json.Marshal(body)
	return httptest.NewRequest(method, path, bytes.NewReader(raw))
}

func TestRespondJSONEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		data   any
		check  func(*testing.T, map[string]any)
	}{
		{
			name:   "blocklist mutation result",
			status: http.StatusOK,
			data:   map[string]any{"domain": "reddit.com", "added": true},
			check: func(t *testing.T, body map[string]any) {
				data, ok := body["data"].(map[string]any)
				if !ok {
					t.Fatalf("data = %v, want object", body["data"])
				}
				if data["domain"] != "reddit.com" || data["added"] != true {
					t.Errorf("data = %v", data)
				}
			},
		},
		{
			name:   "list payload",
			status: http.StatusOK,
			data:   []string{"reddit.com", "youtube.com"},
			check: func(t *testing.T, body map[string]any) {
				data, ok := body["data"].([]any)
				if !ok || len(data) != 2 {
					t.Errorf("data = %v, want two entries", body["data"])
				}
			},
		},
		{
			name:   "created with nil data",
			status: http.StatusCreated,
			data:   nil,
			check: func(t *testing.T, body map[string]any) {
				if _, present := body["data"]; !present {
					t.Error("data field missing, want explicit null")
				}
				if body["data"] != nil {
					t.Errorf("data = %v, want null", body["data"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			respondJSON(w, tt.status, tt.data)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q, want application/json", ct)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if success, ok := body["success"].(bool); !ok || !success {
				t.Error("success not true")
			}
			stamp, ok := body["timestamp"].(string)
			if !ok {
				t.Fatal("timestamp missing")
			}
			if _, err := time.Parse(time.RFC3339, stamp); err != nil {
				t.Errorf("timestamp %q not RFC3339: %v", stamp, err)
			}
			tt.check(t, body)
		})
	}
}

func TestRespondJSONErrorEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		errorType string
		message   string
	}{
		{"limit missing", http.StatusNotFound, "Not Found", "No limit configured for example.com"},
		{"invalid entry", http.StatusBadRequest, "Bad Request", "Invalid block list entry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			respondJSONError(w, tt.status, tt.errorType, tt.message)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if success, ok := body["success"].(bool); !ok || success {
				t.Error("success not false")
			}
			if body["error"] != tt.errorType {
				t.Errorf("error = %v, want %q", body["error"], tt.errorType)
			}
			if body["message"] != tt.message {
				t.Errorf("message = %v, want %q", body["message"], tt.message)
			}
			if _, ok := body["timestamp"].(string); !ok {
				t.Error("timestamp missing")
			}
		})
	}
}

func TestRespondJSONErrorTruncatesLongMessage(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error",
		strings.Repeat("x", maxErrorMessageLen+100))

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	message, ok := body["message"].(string)
	if !ok {
		t.Fatal("message missing")
	}
	if len(message) != maxErrorMessageLen+len("...") {
		t.Errorf("message length = %d, want capped at %d plus ellipsis", len(message), maxErrorMessageLen)
	}
	if !strings.HasSuffix(message, "...") {
		t.Error("truncated message lacks ellipsis")
	}
}
