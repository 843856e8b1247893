package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockServer creates an httptest.Server with common test patterns.
// It provides a fluent API for setting up expected request verification
// and response configuration.
type mockServer struct {
	t          *testing.T
	server     *httptest.Server
	handler    http.HandlerFunc
	expectPath string
	expectMeth string
}

// newMockServer creates a new mock server builder.
// Call .Build() to create the actual httptest.Server.
func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t}
}

// ExpectPath sets the expected request path and verifies it in the handler.
func (m *mockServer) ExpectPath(path string) *mockServer {
	m.expectPath = path
	return m
}

// ExpectGET verifies that the request uses the GET method.
func (m *mockServer) ExpectGET() *mockServer {
	m.expectMeth = http.MethodGet
	return m
}

// Handler sets a custom handler function. The function receives the writer
// and request after path/method verification has passed.
func (m *mockServer) Handler(h func(w http.ResponseWriter, r *http.Request)) *mockServer {
	m.handler = h
	return m
}

// RespondJSON sets up a handler that responds with JSON-encoded data.
func (m *mockServer) RespondJSON(v any) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(m.t, w, v)
	}
	return m
}

// RespondError sets up a handler that responds with the API error envelope.
func (m *mockServer) RespondError(code int, message string) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   map[string]string{"message": message, "code": "TEST"},
		})
	}
	return m
}

// Build creates and returns the httptest.Server.
// The server should be closed with defer srv.Close().
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.expectPath != "" {
			assert.Equal(m.t, m.expectPath, r.URL.Path, "unexpected request path")
		}
		if m.expectMeth != "" {
			assert.Equal(m.t, m.expectMeth, r.Method, "unexpected request method")
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	})

	m.server = httptest.NewServer(handler)
	return m.server
}

// respondJSON writes a JSON response with proper content-type header.
// Fails the test if JSON encoding fails instead of silently ignoring.
func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}
