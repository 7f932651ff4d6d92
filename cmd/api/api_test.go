package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/admusproduccion/admus-server/config"
	"github.com/admusproduccion/admus-server/db/dbtest"
	"github.com/admusproduccion/admus-server/service/user"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	db := dbtest.New(t)
	if _, err := user.Create(db, "Admin", "admin@admus.es", "supersecret", "admin"); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Auth.SecretKey = "test-secret"
	cfg.Auth.TokenTTLMinutes = 5
	cfg.Uploads.Dir = t.TempDir()

	return NewApiServer(cfg, db, nil).Handler()
}

func call(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newServer(t)
	for _, path := range []string{
		"/api/v1/companies",
		"/api/v1/weeks/1",
		"/api/v1/company-links",
		"/api/v1/tasks",
		"/api/v1/dashboard/stats",
	} {
		if rr := call(h, http.MethodGet, path, "", ""); rr.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", path, rr.Code)
		}
	}
	for _, path := range []string{"/api/v1/metrics", "/api/v1/swagger/doc.json"} {
		if rr := call(h, http.MethodGet, path, "", ""); rr.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestScheduleFlow(t *testing.T) {
	h := newServer(t)

	rr := call(h, http.MethodPost, "/api/v1/login", "", `{"email": "admin@admus.es", "password": "supersecret"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rr.Code, rr.Body)
	}
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	json.NewDecoder(rr.Body).Decode(&login)
	token := login.AccessToken

	steps := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/api/v1/companies", `{"name": "A"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/influencers", `{"name": "X"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/weeks", `{"name": "2024-W10", "startDate": "2024-03-04"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/company-availability", `{"companyId": 1, "day": "monday", "shift": "morning"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/influencers/1/availability", `{"day": "monday", "shift": "morning"}`, http.StatusCreated},
		{http.MethodGet, "/api/v1/companies/1/availability", "", http.StatusOK},
		{http.MethodPost, "/api/v1/assignments", `{"companyId": 1, "day": "monday", "shift": "morning", "influencerId": 1}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/assignments", `{"companyId": 1, "day": "tuesday", "shift": "morning", "influencerId": 1}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/assignments/bulk", "", http.StatusOK},
		{http.MethodPost, "/api/v1/assignments/remove", `{"bookingId": 1}`, http.StatusOK},
		{http.MethodPost, "/api/v1/assignments/remove", `{"bookingId": 1}`, http.StatusNotFound},
	}
	for _, s := range steps {
		if rr := call(h, s.method, s.path, token, s.body); rr.Code != s.status {
			t.Fatalf("%s %s status = %d, want %d (%s)", s.method, s.path, rr.Code, s.status, rr.Body)
		}
	}

	rr = call(h, http.MethodGet, "/api/v1/weeks/1", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("week status = %d", rr.Code)
	}
	var composed struct {
		Stats struct {
			TotalCompanies   int `json:"totalCompanies"`
			TotalAssignments int `json:"totalAssignments"`
		} `json:"stats"`
	}
	json.NewDecoder(rr.Body).Decode(&composed)
	if composed.Stats.TotalCompanies != 1 || composed.Stats.TotalAssignments != 0 {
		t.Errorf("stats = %+v", composed.Stats)
	}
}
