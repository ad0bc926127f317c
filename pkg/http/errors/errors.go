package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondError writes a standardized error response to the HTTP response writer
func RespondError(w http.ResponseWriter, status int, code, message string) {
	write(w, status, ErrorResponse{Error: code, Message: message})
}

// RespondValidationError writes a validation error response with field information
func RespondValidationError(w http.ResponseWriter, status int, code, message, field string) {
	write(w, status, ErrorResponse{Error: code, Message: message, Field: field})
}

// RespondErrorWithDetails writes an error response with additional details
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	write(w, status, ErrorResponse{Error: code, Message: message, Details: details})
}

// RespondDomainError maps the examerr taxonomy onto HTTP statuses. Anything
// outside the taxonomy is reported as an opaque internal error.
func RespondDomainError(w http.ResponseWriter, err error) {
	var (
		notFound     *examerr.NotFoundError
		invalid      *examerr.ValidationError
		insufficient *examerr.InsufficientFodderError
		illegal      *examerr.IllegalTransitionError
		consistency  *examerr.ConsistencyError
	)
	switch {
	case stderrors.As(err, &notFound):
		RespondNotFound(w, ErrCodeNotFound, notFound.Error())
	case stderrors.As(err, &invalid):
		RespondValidationError(w, http.StatusUnprocessableEntity, ErrCodeValidationFailed, invalid.Message, invalid.Field)
	case stderrors.As(err, &insufficient):
		RespondErrorWithDetails(w, http.StatusUnprocessableEntity, ErrCodeInsufficientFodder, insufficient.Error(), map[string]interface{}{
			"poolId":   insufficient.PoolID,
			"eligible": insufficient.Eligible,
			"required": insufficient.Required,
		})
	case stderrors.As(err, &consistency):
		RespondError(w, http.StatusUnprocessableEntity, ErrCodeInconsistentState, consistency.Error())
	case stderrors.As(err, &illegal):
		RespondErrorWithDetails(w, http.StatusConflict, ErrCodeIllegalTransition, illegal.Error(), map[string]interface{}{
			"entity": illegal.Entity,
			"from":   illegal.From,
			"action": illegal.Action,
		})
	default:
		RespondInternalError(w, "internal server error")
	}
}

// RespondInternalError writes an internal server error response
func RespondInternalError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// RespondNotFound writes a not found error response
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondUnauthorized writes an unauthorized error response
func RespondUnauthorized(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusUnauthorized, code, message)
}

// RespondBadRequest writes a bad request error response
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

func write(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
