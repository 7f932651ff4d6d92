package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   ErrorResponse
	}{
		{"validation", NewValidationError("shift", "must be morning or afternoon"), http.StatusBadRequest, ErrorResponse{Error: "must be morning or afternoon", Field: "shift"}},
		{"wrapped validation", fmt.Errorf("assign: %w", NewValidationError("companyId", "no availability")), http.StatusBadRequest, ErrorResponse{Error: "no availability", Field: "companyId"}},
		{"not found", NotFound("booking"), http.StatusNotFound, ErrorResponse{Error: "booking not found"}},
		{"conflict", fmt.Errorf("influencer 3 already booked: %w", ErrConflict), http.StatusConflict, ErrorResponse{Error: "influencer 3 already booked: conflict"}},
		{"internal", errors.New("database is locked"), http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondWithError(rr, tt.err)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d", rr.Code, tt.status)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body != tt.body {
				t.Errorf("body = %+v, want %+v", body, tt.body)
			}
		})
	}
}

func TestValidationErrorUnwraps(t *testing.T) {
	err := NewValidationError("day", "must be a weekday name")
	if !errors.Is(err, ErrValidation) {
		t.Error("validation error does not unwrap to ErrValidation")
	}
	if err.Error() != "day: must be a weekday name" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(NotFound("week"), ErrNotFound) {
		t.Error("NotFound does not wrap ErrNotFound")
	}
}
