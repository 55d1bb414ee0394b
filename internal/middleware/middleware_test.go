package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func TestErrorHandlerNoPanic(t *testing.T) {
	t.Parallel()

	handler := ErrorHandler(zap.NewNop())(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestErrorHandlerPanicRecovery(t *testing.T) {
	t.Parallel()

	handler := ErrorHandler(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Success {
		t.Error("success = true in error body")
	}
	if body.Error != "Internal Server Error" {
		t.Errorf("error = %q", body.Error)
	}
	if body.Path != "/test" {
		t.Errorf("path = %q", body.Path)
	}
	if body.Timestamp == "" {
		t.Error("timestamp not set")
	}
}

func TestErrorHandlerNilMapPanic(t *testing.T) {
	t.Parallel()

	handler := ErrorHandler(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var nilMap map[string]string
		nilMap["key"] = "value"
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestLoggingPreservesStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{"ok", http.StatusOK},
		{"created", http.StatusCreated},
		{"not found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := Logging(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
	}{
		{"GET needs no content type", "GET", "", "", http.StatusOK},
		{"JSON POST accepted", "POST", "application/json", "{}", http.StatusOK},
		{"JSON with charset accepted", "POST", "application/json; charset=utf-8", "{}", http.StatusOK},
		{"bodyless POST accepted", "POST", "", "", http.StatusOK},
		{"text POST rejected", "POST", "text/plain", "hello", http.StatusUnsupportedMediaType},
		{"PUT without JSON rejected", "PUT", "application/xml", "<x/>", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := ContentType(okHandler())

			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tt.method, "/test", body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	t.Parallel()

	handler := MaxRequestSize(16)(okHandler())

	req := httptest.NewRequest("POST", "/test", strings.NewReader(strings.Repeat("x", 64)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversize status = %d, want 413", w.Code)
	}

	req = httptest.NewRequest("POST", "/test", strings.NewReader("small"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("small body status = %d, want 200", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := SecurityHeaders(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s = %q, want %q", header, got, value)
		}
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("unexpected HSTS header %q on plain HTTP", got)
	}
}

func TestCORSAllowsExtensionOrigins(t *testing.T) {
	t.Parallel()

	handler := CORS([]string{"http://localhost:3000"})(okHandler())

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"chrome extension", "chrome-extension://abcdefghijklmnop", true},
		{"firefox extension", "moz-extension://uuid-goes-here", true},
		{"listed origin", "http://localhost:3000", true},
		{"arbitrary website", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Origin", tt.origin)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			got := w.Header().Get("Access-Control-Allow-Origin")
			if tt.allowed && got == "" {
				t.Errorf("origin %q not allowed, want allowed", tt.origin)
			}
			if !tt.allowed && got != "" {
				t.Errorf("origin %q allowed with header %q, want blocked", tt.origin, got)
			}
		})
	}
}

func TestRateLimitInMemory(t *testing.T) {
	t.Parallel()

	mw, err := RateLimitInMemory("2-H")
	if err != nil {
		t.Fatalf("failed to build rate limiter: %v", err)
	}
	handler := mw(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "127.0.0.1:55555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Errorf("first two statuses = %v, want 200s", statuses[:2])
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("third status = %d, want 429", statuses[2])
	}
}

func TestRateLimitRejectsBadRate(t *testing.T) {
	t.Parallel()

	if _, err := RateLimitInMemory("not-a-rate"); err == nil {
		t.Error("expected error for malformed rate")
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  func(*http.Request)
		want   string
		remote string
	}{
		{
			name:   "remote addr fallback",
			setup:  func(r *http.Request) {},
			remote: "127.0.0.1:55555",
			want:   "127.0.0.1:55555",
		},
		{
			name: "x-forwarded-for first hop",
			setup: func(r *http.Request) {
				r.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
			},
			remote: "127.0.0.1:55555",
			want:   "10.0.0.1",
		},
		{
			name: "x-real-ip",
			setup: func(r *http.Request) {
				r.Header.Set("X-Real-IP", "10.0.0.3")
			},
			remote: "127.0.0.1:55555",
			want:   "10.0.0.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remote
			tt.setup(req)

			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
