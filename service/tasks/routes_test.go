package tasks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/db/dbtest"
	"github.com/gorilla/mux"
)

func TestTaskRoutes(t *testing.T) {
	db := dbtest.New(t)
	company := models.Company{Name: "Acme"}
	db.Create(&company)
	user := models.User{FullName: "Ana", Email: "ana@admus.es", PasswordHash: "x", Active: true}
	db.Create(&user)

	router := mux.NewRouter()
	NewTaskHandler(db, NewCalendarService(db)).RegisterRoutes(router)
	send := func(method, path, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rr
	}

	rr := send(http.MethodPost, "/task-types", `{"name": "Grabación", "color": "#d32f2f"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create type status = %d, body %s", rr.Code, rr.Body)
	}
	if rr := send(http.MethodPost, "/task-types", `{"name": "Grabación"}`); rr.Code != http.StatusConflict {
		t.Errorf("duplicate type status = %d, want 409", rr.Code)
	}

	rr = send(http.MethodPost, "/tasks", fmt.Sprintf(`{"companyId": %d, "title": "Reel", "priority": "alta", "date": "2024-03-05"}`, company.ID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create task status = %d, body %s", rr.Code, rr.Body)
	}
	var task models.Task
	json.NewDecoder(rr.Body).Decode(&task)

	rr = send(http.MethodPost, "/tasks", fmt.Sprintf(`{"companyId": %d, "title": "x", "priority": "urgente", "date": "2024-03-05"}`, company.ID))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad priority status = %d, want 400", rr.Code)
	}

	rr = send(http.MethodPost, fmt.Sprintf("/tasks/%d/assignments", task.ID), fmt.Sprintf(`{"userId": %d, "detail": "editar"}`, user.ID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("assign status = %d, body %s", rr.Code, rr.Body)
	}
	var assignment models.TaskAssignment
	json.NewDecoder(rr.Body).Decode(&assignment)
	if assignment.Status != models.TaskPending {
		t.Errorf("status = %s", assignment.Status)
	}

	rr = send(http.MethodPatch, fmt.Sprintf("/task-assignments/%d", assignment.ID), `{"status": "completada"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update assignment status = %d", rr.Code)
	}
	json.NewDecoder(rr.Body).Decode(&assignment)
	if assignment.Status != models.TaskCompleted || assignment.Detail != "editar" {
		t.Errorf("assignment = %+v", assignment)
	}

	rr = send(http.MethodGet, "/tasks/calendar/month?year=2024&month=3", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("month status = %d", rr.Code)
	}
	var cal Calendar
	json.NewDecoder(rr.Body).Decode(&cal)
	if len(cal.Companies) != 1 || len(cal.Companies[0].Cells["2024-03-05"]) != 1 {
		t.Errorf("calendar = %+v", cal)
	}
	if rr := send(http.MethodGet, "/tasks/calendar/month?month=13", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("month=13 status = %d, want 400", rr.Code)
	}
	if rr := send(http.MethodGet, "/tasks/calendar/week/99", ""); rr.Code != http.StatusNotFound {
		t.Errorf("unknown week status = %d, want 404", rr.Code)
	}

	if rr := send(http.MethodDelete, fmt.Sprintf("/tasks/%d", task.ID), ""); rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}
	var left int64
	db.Model(&models.TaskAssignment{}).Count(&left)
	if left != 0 {
		t.Errorf("%d task assignments survived their task", left)
	}
}
