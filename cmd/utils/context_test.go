package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/db/dbtest"
)

func TestAuthMiddleware(t *testing.T) {
	db := dbtest.New(t)
	active := models.User{FullName: "Ana", Email: "ana@admus.es", PasswordHash: "x", Active: true}
	inactive := models.User{FullName: "Luis", Email: "luis@admus.es", PasswordHash: "x", Active: true}
	db.Create(&active)
	db.Create(&inactive)
	db.Model(&inactive).Update("active", false)

	auth := NewAuthenticator(db, nil, "test-secret", time.Hour)
	other := NewAuthenticator(db, nil, "another-secret", time.Hour)

	var seen uint
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token := func(a *Authenticator, id uint) string {
		s, err := a.IssueToken(id)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		return s
	}

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + token(other, active.ID), "", http.StatusUnauthorized},
		{"inactive user", "Bearer " + token(auth, inactive.ID), "", http.StatusUnauthorized},
		{"unknown user", "Bearer " + token(auth, 999), "", http.StatusUnauthorized},
		{"active user", "Bearer " + token(auth, active.ID), "", http.StatusNoContent},
		{"query token", "", "?token=" + token(auth, active.ID), http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = 0
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if tt.status == http.StatusNoContent && seen != active.ID {
				t.Errorf("user in context = %d, want %d", seen, active.ID)
			}
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	if _, err := GetUserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for empty context")
	}
	id, err := GetUserIDFromContext(WithUserID(context.Background(), 7))
	if err != nil || id != 7 {
		t.Errorf("got %d, %v", id, err)
	}
}
