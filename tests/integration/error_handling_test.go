//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
)

func TestUnauthorizedAccess(t *testing.T) {
	var body errorBody
	call(t, http.MethodGet, "/v1/fodder-pools", "", nil, http.StatusUnauthorized, &body)
	if body.Error != "authentication_required" {
		t.Fatalf("unexpected error code %q", body.Error)
	}

	call(t, http.MethodGet, "/v1/fodder-pools", "garbage", nil, http.StatusUnauthorized, &body)
	if body.Error != "invalid_token" {
		t.Fatalf("unexpected error code %q", body.Error)
	}
}

func TestNotFound(t *testing.T) {
	token := actorToken(t, "author-errors")
	var body errorBody
	call(t, http.MethodGet, "/v1/templates/"+uuid.NewString(), token, nil, http.StatusNotFound, &body)
	if body.Error != "not_found" {
		t.Fatalf("unexpected error code %q", body.Error)
	}
}

func TestInvalidID(t *testing.T) {
	token := actorToken(t, "author-errors")
	call(t, http.MethodGet, "/v1/actuals/not-a-uuid", token, nil, http.StatusBadRequest, nil)
}

func TestTemplateValidationFailure(t *testing.T) {
	token := actorToken(t, "author-errors")
	payload := map[string]interface{}{
		"userPromptType":   "text",
		"userResponseType": "multiple-choice-4",
		"exclusivityType":  "exam-practice-both",
		"userPromptText":   "Missing a pool",
		"validAnswers":     []map[string]interface{}{{"text": "answer"}},
	}
	var body errorBody
	call(t, http.MethodPost, "/v1/templates", token, payload, http.StatusUnprocessableEntity, &body)
	if body.Field != "validAnswers[0].fodderPoolId" {
		t.Fatalf("unexpected field %q", body.Field)
	}
}
