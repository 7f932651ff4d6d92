package links

import (
	"encoding/json"
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

type linkPage struct {
	Data       []models.CompanyLink `json:"data"`
	Pagination utils.PaginationMeta `json:"pagination"`
}

func setup(t *testing.T) (*gorm.DB, *mux.Router, models.Company, models.Company) {
	t.Helper()
	db := dbtest.New(t)
	acme := models.Company{Name: "Acme Foods"}
	bistro := models.Company{Name: "Bistro Norte"}
	db.Create(&acme)
	db.Create(&bistro)

	seed := []models.CompanyLink{
		{CompanyID: acme.ID, Concept: "Pack reels marzo", URL: "https://pay.example.com/1", Amount: 300, Month: "2024-03", Status: models.LinkPending},
		{CompanyID: acme.ID, Concept: "Pack reels abril", URL: "https://pay.example.com/2", Amount: 300, Month: "2024-04", Status: models.LinkPaid},
		{CompanyID: bistro.ID, Concept: "Sesión de fotos", URL: "https://pay.example.com/3", Amount: 150, Month: "2024-03", Status: models.LinkPending},
	}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("seed links: %v", err)
	}

	router := mux.NewRouter()
	NewLinkHandler(db).RegisterRoutes(router)
	return db, router, acme, bistro
}

func get(t *testing.T, router http.Handler, query string) (int, linkPage) {
	t.Helper()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/company-links"+query, nil))
	var page linkPage
	if rr.Code == http.StatusOK {
		if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rr.Code, page
}

func TestGetLinksFilters(t *testing.T) {
	_, router, acme, _ := setup(t)

	tests := []struct {
		name  string
		query string
		total int64
	}{
		{"no filter", "", 3},
		{"company name, any case", "?search=BISTRO", 1},
		{"concept", "?search=reels", 2},
		{"month", "?month=2024-03", 2},
		{"search and month", "?search=acme&month=2024-04", 1},
		{"company id", fmt.Sprintf("?company=%d", acme.ID), 2},
		{"status", "?status=pagado", 1},
		{"nothing matches", "?search=zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, page := get(t, router, tt.query)
			if code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if page.Pagination.TotalItems != tt.total || int64(len(page.Data)) != tt.total {
				t.Errorf("total = %d, rows = %d, want %d", page.Pagination.TotalItems, len(page.Data), tt.total)
			}
		})
	}
}

func TestGetLinksPaginationAndCompany(t *testing.T) {
	_, router, _, _ := setup(t)

	code, page := get(t, router, "?per_page=2&page=2")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(page.Data) != 1 || page.Pagination.TotalPages != 2 || page.Pagination.HasNext || !page.Pagination.HasPrevious {
		t.Errorf("page = %+v", page.Pagination)
	}

	_, page = get(t, router, "?search=norte")
	if len(page.Data) != 1 || page.Data[0].Company == nil || page.Data[0].Company.Name != "Bistro Norte" {
		t.Errorf("data = %+v", page.Data)
	}
}

func TestGetLinksRejectsBadFilters(t *testing.T) {
	_, router, _, _ := setup(t)
	for _, q := range []string{"?month=2024-13", "?month=2024-3", "?month=march", "?status=void", "?company=x", "?page=0", "?page=99999999999999999"} {
		if code, _ := get(t, router, q); code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", q, code)
		}
	}
}

func TestUpdateStatusRoute(t *testing.T) {
	db, router, _, _ := setup(t)
	var link models.CompanyLink
	db.Where("status = ?", models.LinkPending).First(&link)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/company-links/%d/status", link.ID), strings.NewReader(`{"status": "pagado"}`))
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body)
	}

	var stored models.CompanyLink
	db.First(&stored, link.ID)
	if stored.Status != models.LinkPaid || stored.PaidAt == nil {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCreateLinkValidation(t *testing.T) {
	_, router, acme, _ := setup(t)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", fmt.Sprintf(`{"companyId": %d, "concept": "Reels mayo", "url": "https://pay.example.com/9", "amount": 120, "month": "2024-05"}`, acme.ID), http.StatusCreated},
		{"bad url", fmt.Sprintf(`{"companyId": %d, "concept": "x", "url": "not a url", "month": "2024-05"}`, acme.ID), http.StatusBadRequest},
		{"bad month", fmt.Sprintf(`{"companyId": %d, "concept": "x", "url": "https://a.b", "month": "05-2024"}`, acme.ID), http.StatusBadRequest},
		{"unknown company", `{"companyId": 999, "concept": "x", "url": "https://a.b", "month": "2024-05"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/company-links", strings.NewReader(tt.body)))
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rr.Code, tt.status, rr.Body)
			}
		})
	}
}

func TestSetStatus(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	link := models.CompanyLink{Status: models.LinkPending}

	SetStatus(&link, models.LinkPaid, now)
	if link.PaidAt == nil || !link.PaidAt.Equal(now) {
		t.Fatalf("paidAt = %v", link.PaidAt)
	}

	SetStatus(&link, models.LinkPaid, now.Add(time.Hour))
	if !link.PaidAt.Equal(now) {
		t.Errorf("paying twice moved paidAt to %v", link.PaidAt)
	}

	SetStatus(&link, models.LinkPending, now)
	if link.PaidAt != nil || link.Status != models.LinkPending {
		t.Errorf("link = %+v", link)
	}
}
