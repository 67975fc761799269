// WhereToEat - Restaurant Picker Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wheretoeat

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/wheretoeat/internal/logging"
)

func serveRequestID(t *testing.T, header string) (responseID, contextID string) {
	t.Helper()

	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contextID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec.Header().Get(RequestIDHeader), contextID
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	responseID, contextID := serveRequestID(t, "")

	if _, err := uuid.Parse(responseID); err != nil {
		t.Errorf("Response X-Request-ID is not a valid UUID: %v", err)
	}
	if contextID != responseID {
		t.Errorf("Context ID (%s) doesn't match response header ID (%s)", contextID, responseID)
	}
}

func TestRequestID_UpstreamHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		preserve bool
	}{
		{"proxy id preserved", "existing-request-id-12345", true},
		{"uuid preserved", uuid.New().String(), true},
		{"oversized id replaced", strings.Repeat("x", maxRequestIDLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responseID, contextID := serveRequestID(t, tt.header)

			if got := responseID == tt.header; got != tt.preserve {
				t.Errorf("preserved = %v, want %v (response id %q)", got, tt.preserve, responseID)
			}
			if contextID != responseID {
				t.Errorf("context id %q != response id %q", contextID, responseID)
			}
		})
	}
}

func TestRequestID_FeedsLoggingContext(t *testing.T) {
	var fromLogging string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromLogging = logging.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "trace-me")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if fromLogging != "trace-me" {
		t.Errorf("logging request id = %q, want trace-me", fromLogging)
	}
}

func TestGetRequestID_WithoutID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	if id := GetRequestID(req.Context()); id != "" {
		t.Errorf("Expected empty string when no request ID in context, got: %s", id)
	}
}

func TestRequestID_MultipleRequests(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id, _ := serveRequestID(t, "")
		if ids[id] {
			t.Errorf("Duplicate request ID generated: %s", id)
		}
		ids[id] = true
	}
}
