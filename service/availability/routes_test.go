package availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/db/dbtest"
	"github.com/admusproduccion/admus-server/service/events"
	"github.com/gorilla/mux"
)

func newRouter(t *testing.T) (*mux.Router, *events.Recorder, uint) {
	t.Helper()
	db := dbtest.New(t)
	company, _ := seedOwners(t, db)
	rec := &events.Recorder{}
	router := mux.NewRouter()
	NewAvailabilityHandler(NewStore(db), rec).RegisterRoutes(router)
	return router, rec, company.ID
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAddCompanyAvailabilityHandler(t *testing.T) {
	router, rec, companyID := newRouter(t)
	body := `{"companyId": ` + itoa(companyID) + `, "day": "lunes", "shift": "mañana"}`

	rr := post(router, "/company-availability", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first add status = %d, body %s", rr.Code, rr.Body)
	}
	var resp SlotResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Slots) != 1 || resp.Slots[0].Day != "monday" || resp.Slots[0].Shift != "morning" {
		t.Errorf("slots = %+v", resp.Slots)
	}

	rr = post(router, "/company-availability", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("second add status = %d, want 200", rr.Code)
	}
	if got := rec.Types(); len(got) != 1 || got[0] != events.AvailabilityAdded {
		t.Errorf("events = %v, want a single %s", got, events.AvailabilityAdded)
	}
}

func TestAddCompanyAvailabilityRejectsBadShift(t *testing.T) {
	router, _, companyID := newRouter(t)

	rr := post(router, "/company-availability", `{"companyId": `+itoa(companyID)+`, "day": "monday", "shift": "night"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp utils.ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Field != "shift" {
		t.Errorf("field = %q, want shift", resp.Field)
	}
}

func TestAddCompanyAvailabilityUnknownCompany(t *testing.T) {
	router, _, _ := newRouter(t)

	rr := post(router, "/company-availability", `{"companyId": 999, "day": "monday", "shift": "morning"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestClearAvailabilitiesHandler(t *testing.T) {
	router, rec, _ := newRouter(t)

	rr := post(router, "/influencers/1/availability", `{"day": "friday", "shift": "afternoon"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", rr.Code, rr.Body)
	}

	rr = post(router, "/availabilities/clear", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("clear status = %d", rr.Code)
	}
	var resp struct {
		Removed int64 `json:"removed"`
	}
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Removed != 1 {
		t.Errorf("removed = %d, want 1", resp.Removed)
	}

	req := httptest.NewRequest(http.MethodGet, "/influencers/1/availability", nil)
	got := httptest.NewRecorder()
	router.ServeHTTP(got, req)
	if strings.TrimSpace(got.Body.String()) != "[]" {
		t.Errorf("availability after clear = %s, want []", got.Body)
	}

	types := rec.Types()
	if types[len(types)-1] != events.AvailabilityCleared {
		t.Errorf("last event = %s", types[len(types)-1])
	}
}

func itoa(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
