package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func authedRequest(t *testing.T, j *JWTAuth, userID uuid.UUID) *http.Request {
	t.Helper()

	token, _, err := j.GenerateAccessToken(userID, "alice")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestJWTAuth_ValidToken(t *testing.T) {
	j := NewJWTAuth("test-secret", 30*time.Minute)
	userID := uuid.New()

	var gotUserID uuid.UUID
	handler := j.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(t, j, userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if gotUserID != userID {
		t.Errorf("Expected user ID %s in context, got %s", userID, gotUserID)
	}
}

func TestJWTAuth_GenerateAccessToken_ReportsTTL(t *testing.T) {
	j := NewJWTAuth("test-secret", 30*time.Minute)

	_, expiresIn, err := j.GenerateAccessToken(uuid.New(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if expiresIn != 1800 {
		t.Errorf("Expected 1800 seconds, got %d", expiresIn)
	}
}

func TestJWTAuth_RejectsBadRequests(t *testing.T) {
	j := NewJWTAuth("test-secret", 30*time.Minute)
	handler := j.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "UNAUTHORIZED"},
		{"not bearer", "Basic abc123", "UNAUTHORIZED"},
		{"garbage token", "Bearer not.a.jwt", "UNAUTHORIZED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", rr.Code)
			}

			var body map[string]map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode error body: %v", err)
			}
			if body["error"]["code"] != tc.wantCode {
				t.Errorf("Expected code %q, got %v", tc.wantCode, body["error"]["code"])
			}
		})
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	j := NewJWTAuth("test-secret", -time.Minute)
	handler := j.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(t, j, uuid.New()))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rr.Code)
	}

	var body map[string]map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"]["code"] != "TOKEN_EXPIRED" {
		t.Errorf("Expected TOKEN_EXPIRED, got %v", body["error"]["code"])
	}
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	issuer := NewJWTAuth("secret-one", 30*time.Minute)
	verifier := NewJWTAuth("secret-two", 30*time.Minute)

	handler := verifier.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, authedRequest(t, issuer, uuid.New()))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rr.Code)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Expected request ID to be set")
		}
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected request ID echoed in response")
	}
}

func TestRequestID_PreservesClientValue(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "client-id-42")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") != "client-id-42" {
		t.Errorf("Expected client request ID preserved, got %q", rr.Header().Get("X-Request-ID"))
	}
}
