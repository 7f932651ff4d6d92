package company

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CompanyHandler struct {
	db         *gorm.DB
	uploadsDir string
}

func NewCompanyHandler(db *gorm.DB, uploadsDir string) *CompanyHandler {
	return &CompanyHandler{db: db, uploadsDir: uploadsDir}
}

func (h *CompanyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/companies", h.GetCompanies).Methods("GET")
	router.HandleFunc("/companies", h.CreateCompany).Methods("POST")
	router.HandleFunc("/companies/all", h.GetAllCompanies).Methods("GET")
	router.HandleFunc("/companies/{id:[0-9]+}", h.GetCompany).Methods("GET")
	router.HandleFunc("/companies/{id:[0-9]+}", h.UpdateCompany).Methods("PUT")
	router.HandleFunc("/companies/{id:[0-9]+}", h.DeleteCompany).Methods("DELETE")
	router.HandleFunc("/companies/{id:[0-9]+}/logo", h.UploadLogo).Methods("POST")
}

// RegisterPublicRoutes serves uploaded logos without authentication.
func (h *CompanyHandler) RegisterPublicRoutes(router *mux.Router) {
	router.HandleFunc("/images/{filename}", h.ServeImage).Methods("GET")
}

type CompanyRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Address   string `json:"address" validate:"max=255"`
	Location  string `json:"location" validate:"max=255"`
	ValidFrom string `json:"validFrom" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   string `json:"validTo" validate:"omitempty,datetime=2006-01-02"`
}

func parseDate(s string) *datatypes.Date {
	if s == "" {
		return nil
	}
	t, _ := time.Parse("2006-01-02", s)
	d := datatypes.Date(t)
	return &d
}

func (req CompanyRequest) apply(c *models.Company) error {
	c.Name = req.Name
	c.Address = req.Address
	c.Location = req.Location
	c.ValidFrom = parseDate(req.ValidFrom)
	c.ValidTo = parseDate(req.ValidTo)
	if c.ValidFrom != nil && c.ValidTo != nil && time.Time(*c.ValidTo).Before(time.Time(*c.ValidFrom)) {
		return utils.NewValidationError("validTo", "must not be before validFrom")
	}
	return nil
}

func (h *CompanyHandler) find(r *http.Request) (models.Company, error) {
	var c models.Company
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return c, utils.NewValidationError("id", "invalid id")
	}
	err = h.db.WithContext(r.Context()).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c, utils.NotFound("company")
	}
	return c, err
}

func (h *CompanyHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := utils.ParsePaginationParams(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	query := h.db.WithContext(r.Context()).Model(&models.Company{})
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var companies []models.Company
	if err := query.Order("name ASC, id ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&companies).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.PaginatedResponse{
		Data:       companies,
		Pagination: utils.NewPaginationMeta(page, perPage, total),
	})
}

func (h *CompanyHandler) GetAllCompanies(w http.ResponseWriter, r *http.Request) {
	var companies []models.Company
	if err := h.db.WithContext(r.Context()).Order("id ASC").Find(&companies).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, companies)
}

func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var c models.Company
	if err := req.apply(&c); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Create(&c).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, c)
}

func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req CompanyRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := req.apply(&c); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Save(&c).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

// DeleteCompany removes the company with its availability and bookings.
func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	err = h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_type = ? AND owner_id = ?", models.OwnerCompany, c.ID).
			Delete(&models.Availability{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", c.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Company{}, c.ID).Error
	})
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	if err := utils.DeleteImage(c.LogoPath, h.uploadsDir); err != nil {
		log.Printf("Error deleting logo of company %d: %v", c.ID, err)
	}
	utils.RespondWithMessage(w, http.StatusOK, "Company deleted successfully")
}

func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	c, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	if err := r.ParseMultipartForm(utils.MaxImageSize + 1<<20); err != nil {
		utils.RespondWithError(w, utils.NewValidationError("logo", "Error parsing form"))
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		utils.RespondWithError(w, utils.NewValidationError("logo", "is required"))
		return
	}
	defer file.Close()

	logoURL, err := utils.SaveImage(file, header, h.uploadsDir)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	previous := c.LogoPath
	if err := h.db.WithContext(r.Context()).Model(&c).Update("logo_path", logoURL).Error; err != nil {
		utils.DeleteImage(logoURL, h.uploadsDir)
		utils.RespondWithError(w, err)
		return
	}
	if err := utils.DeleteImage(previous, h.uploadsDir); err != nil {
		log.Printf("Error deleting previous logo of company %d: %v", c.ID, err)
	}
	c.LogoPath = logoURL
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	if containsDotDot(filename) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	imagePath := filepath.Join(h.uploadsDir, filepath.Clean(filename))
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		http.Error(w, "Image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, imagePath)
}

func containsDotDot(v string) bool {
	if !filepath.IsAbs(v) {
		v = filepath.Clean(filepath.Join("/", v))
	}
	return filepath.Clean(v) != v
}
