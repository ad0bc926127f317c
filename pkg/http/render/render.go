// Package render holds the JSON helpers shared by the HTTP handlers.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	httperrors "github.com/gokatarajesh/exam-engine/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// Decode reads a JSON body into dst, rejecting unknown fields. On failure it
// writes a 400 and returns false.
func Decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// UUIDParam parses a path value as a uuid. On failure it writes a 400 and
// returns false.
func UUIDParam(w http.ResponseWriter, name, raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidID, fmt.Sprintf("%s must be a uuid", name))
		return uuid.Nil, false
	}
	return id, true
}
