//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/gokatarajesh/exam-engine/internal/auth/jwt"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

// actorToken mints a token with the secret the server under test was started with.
func actorToken(t *testing.T, actorID string) string {
	t.Helper()
	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret: []byte(envOrDefault("INTEGRATION_JWT_SECRET", "dev-secret")),
		Issuer: envOrDefault("INTEGRATION_JWT_ISSUER", "exam-engine"),
	})
	token, err := tokens.Issue(actorID, actorID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func makeAuthenticatedRequest(t *testing.T, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

// call performs the request, checks the status and decodes the body into out.
func call(t *testing.T, method, path, token string, payload interface{}, wantStatus int, out interface{}) {
	t.Helper()
	resp := makeAuthenticatedRequest(t, method, fmt.Sprintf("%s%s", baseURL(), path), token, payload)
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantStatus, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}

type errorBody struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Field   string                 `json:"field"`
	Details map[string]interface{} `json:"details"`
}
