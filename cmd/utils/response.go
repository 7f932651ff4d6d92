package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"message": message})
}

// RespondWithError maps domain errors to status codes. Unknown errors are
// logged and reported as a generic 500.
func RespondWithError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, ErrValidation):
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrNotFound):
		RespondWithJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrConflict):
		RespondWithJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		RespondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// DecodeJSON decodes the request body into dst and validates it.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewValidationError("", "Invalid request body")
	}
	return Validate(dst)
}
