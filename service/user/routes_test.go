package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/db/dbtest"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *mux.Router, *utils.Authenticator) {
	t.Helper()
	db := dbtest.New(t)
	auth := utils.NewAuthenticator(db, nil, "secret", time.Hour)
	h := NewHandler(db, auth)

	router := mux.NewRouter()
	h.RegisterPublicRoutes(router)
	protected := router.NewRoute().Subrouter()
	protected.Use(auth.Middleware)
	h.RegisterRoutes(protected)
	return db, router, auth
}

func request(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreateNormalisesEmail(t *testing.T) {
	db := dbtest.New(t)
	u, err := Create(db, "Ana", "  Ana@Admus.ES ", "supersecret", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "ana@admus.es" || u.Role != "staff" || !u.Active || u.PasswordHash == "supersecret" {
		t.Errorf("user = %+v", u)
	}
	if _, err := Create(db, "Ana 2", "ANA@admus.es", "supersecret", "admin"); !errors.Is(err, utils.ErrConflict) {
		t.Errorf("duplicate err = %v, want conflict", err)
	}
}

func TestLoginAndDeactivate(t *testing.T) {
	db, router, _ := setup(t)
	admin, _ := Create(db, "Admin", "admin@admus.es", "supersecret", "admin")
	staff, _ := Create(db, "Staff", "staff@admus.es", "staffsecret", "")

	login := func(email, password string) (int, string) {
		rr := request(router, http.MethodPost, "/login", "", fmt.Sprintf(`{"email": %q, "password": %q}`, email, password))
		var body struct {
			AccessToken string      `json:"accessToken"`
			User        models.User `json:"user"`
		}
		json.NewDecoder(rr.Body).Decode(&body)
		return rr.Code, body.AccessToken
	}

	if code, _ := login("admin@admus.es", "wrong"); code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d", code)
	}
	if code, _ := login("nobody@admus.es", "supersecret"); code != http.StatusUnauthorized {
		t.Errorf("unknown email status = %d", code)
	}

	code, adminToken := login("ADMIN@admus.es", "supersecret")
	if code != http.StatusOK || adminToken == "" {
		t.Fatalf("admin login status = %d", code)
	}
	_, staffToken := login("staff@admus.es", "staffsecret")

	if rr := request(router, http.MethodGet, "/me", staffToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("me status = %d", rr.Code)
	}

	rr := request(router, http.MethodPatch, fmt.Sprintf("/users/%d/status", staff.ID), adminToken, `{"active": false}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d, body %s", rr.Code, rr.Body)
	}

	if rr := request(router, http.MethodGet, "/me", staffToken, ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("deactivated token status = %d, want 401", rr.Code)
	}
	if code, _ := login("staff@admus.es", "staffsecret"); code != http.StatusForbidden {
		t.Errorf("deactivated login status = %d, want 403", code)
	}

	rr = request(router, http.MethodGet, "/users", adminToken, "")
	var users []models.User
	json.NewDecoder(rr.Body).Decode(&users)
	if len(users) != 2 || users[0].ID != admin.ID {
		t.Errorf("users = %+v", users)
	}
	if strings.Contains(rr.Body.String(), "password") {
		t.Error("password hash leaked in user list")
	}
}

func TestCreateUserRoute(t *testing.T) {
	db, router, auth := setup(t)
	admin, _ := Create(db, "Admin", "admin@admus.es", "supersecret", "admin")
	token, _ := auth.IssueToken(admin.ID)

	rr := request(router, http.MethodPost, "/users", token, `{"fullName": "Nuevo", "email": "nuevo@admus.es", "password": "short"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("short password status = %d, want 400", rr.Code)
	}
	rr = request(router, http.MethodPost, "/users", token, `{"fullName": "Nuevo", "email": "nuevo@admus.es", "password": "longenough"}`)
	if rr.Code != http.StatusCreated {
		t.Errorf("create status = %d, body %s", rr.Code, rr.Body)
	}
	rr = request(router, http.MethodPost, "/users", token, `{"fullName": "Otro", "email": "NUEVO@admus.es", "password": "longenough"}`)
	if rr.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rr.Code)
	}
}
