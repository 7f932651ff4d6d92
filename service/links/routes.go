package links

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// LinkFilter represents all possible filters for payment links
type LinkFilter struct {
	Search    string
	Month     string
	CompanyID uint
	Status    string
}

// ParseFilter reads search, month, company and status from the query string.
func ParseFilter(r *http.Request) (LinkFilter, error) {
	q := r.URL.Query()
	filter := LinkFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Month:  q.Get("month"),
		Status: q.Get("status"),
	}
	if filter.Month != "" {
		if err := utils.ValidateVar("month", filter.Month, "datetime=2006-01"); err != nil {
			return filter, err
		}
	}
	if filter.Status != "" && filter.Status != models.LinkPending && filter.Status != models.LinkPaid {
		return filter, utils.NewValidationError("status", "must be one of: pendiente pagado")
	}
	if v := q.Get("company"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filter, utils.NewValidationError("company", "invalid id")
		}
		filter.CompanyID = uint(id)
	}
	return filter, nil
}

// Apply narrows a company_links query. Search matches the concept or the
// company name, case-insensitively.
func (f LinkFilter) Apply(query *gorm.DB) *gorm.DB {
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		query = query.Joins("LEFT JOIN companies ON companies.id = company_links.company_id").
			Where("LOWER(company_links.concept) LIKE ? OR LOWER(companies.name) LIKE ?", term, term)
	}
	if f.Month != "" {
		query = query.Where("company_links.month = ?", f.Month)
	}
	if f.CompanyID != 0 {
		query = query.Where("company_links.company_id = ?", f.CompanyID)
	}
	if f.Status != "" {
		query = query.Where("company_links.status = ?", f.Status)
	}
	return query
}

type LinkHandler struct {
	db *gorm.DB
}

func NewLinkHandler(db *gorm.DB) *LinkHandler {
	return &LinkHandler{db: db}
}

func (h *LinkHandler) RegisterRoutes(router *mux.Router) {
	linkRouter := router.PathPrefix("/company-links").Subrouter()
	linkRouter.HandleFunc("", h.GetLinks).Methods("GET")
	linkRouter.HandleFunc("", h.CreateLink).Methods("POST")
	linkRouter.HandleFunc("/{id:[0-9]+}", h.GetLink).Methods("GET")
	linkRouter.HandleFunc("/{id:[0-9]+}", h.UpdateLink).Methods("PUT")
	linkRouter.HandleFunc("/{id:[0-9]+}", h.DeleteLink).Methods("DELETE")
	linkRouter.HandleFunc("/{id:[0-9]+}/status", h.UpdateStatus).Methods("PATCH")
}

type LinkRequest struct {
	CompanyID uint    `json:"companyId" validate:"required"`
	Concept   string  `json:"concept" validate:"required,max=255"`
	URL       string  `json:"url" validate:"required,url,max=500"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Month     string  `json:"month" validate:"required,datetime=2006-01"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendiente pagado"`
}

// SetStatus moves a link between pendiente and pagado, stamping PaidAt.
func SetStatus(link *models.CompanyLink, status string, now time.Time) {
	link.Status = status
	if status == models.LinkPaid {
		if link.PaidAt == nil {
			link.PaidAt = &now
		}
		return
	}
	link.PaidAt = nil
}

func (h *LinkHandler) find(r *http.Request) (models.CompanyLink, error) {
	var link models.CompanyLink
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return link, utils.NewValidationError("id", "invalid id")
	}
	err = h.db.WithContext(r.Context()).Preload("Company").First(&link, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return link, utils.NotFound("company link")
	}
	return link, err
}

func (h *LinkHandler) companyExists(r *http.Request, id uint) error {
	var count int64
	if err := h.db.WithContext(r.Context()).Model(&models.Company{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NotFound("company")
	}
	return nil
}

// GetLinks godoc
// @Summary Paginated payment links
// @Tags company-links
// @Produce json
// @Param search query string false "concept or company name"
// @Param month query string false "YYYY-MM"
// @Param company query int false "company id"
// @Param page query int false "page"
// @Param per_page query int false "page size"
// @Success 200 {object} utils.PaginatedResponse
// @Router /company-links [get]
func (h *LinkHandler) GetLinks(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	page, perPage, err := utils.ParsePaginationParams(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	db := h.db.WithContext(r.Context())

	var totalItems int64
	if err := filter.Apply(db.Model(&models.CompanyLink{})).Count(&totalItems).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var links []models.CompanyLink
	if err := filter.Apply(db.Model(&models.CompanyLink{})).Select("company_links.*").Preload("Company").
		Order("company_links.month DESC, company_links.id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&links).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.PaginatedResponse{
		Data:       links,
		Pagination: utils.NewPaginationMeta(page, perPage, totalItems),
	})
}

func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.companyExists(r, req.CompanyID); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	link := models.CompanyLink{
		CompanyID: req.CompanyID,
		Concept:   req.Concept,
		URL:       req.URL,
		Amount:    req.Amount,
		Month:     req.Month,
		Status:    models.LinkPending,
	}
	if err := h.db.WithContext(r.Context()).Create(&link).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, link)
}

func (h *LinkHandler) GetLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req LinkRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.companyExists(r, req.CompanyID); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	link.CompanyID = req.CompanyID
	link.Concept = req.Concept
	link.URL = req.URL
	link.Amount = req.Amount
	link.Month = req.Month
	link.Company = nil
	if err := h.db.WithContext(r.Context()).Save(&link).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	link, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req StatusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	SetStatus(&link, req.Status, time.Now())
	if err := h.db.WithContext(r.Context()).Model(&link).
		Select("status", "paid_at").
		Updates(map[string]interface{}{"status": link.Status, "paid_at": link.PaidAt}).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	link, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(&models.CompanyLink{}, link.ID).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Company link deleted successfully")
}
