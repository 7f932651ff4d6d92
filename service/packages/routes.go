package packages

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type PackageHandler struct {
	db *gorm.DB
}

func NewPackageHandler(db *gorm.DB) *PackageHandler {
	return &PackageHandler{db: db}
}

func (h *PackageHandler) RegisterRoutes(router *mux.Router) {
	packageRouter := router.PathPrefix("/packages").Subrouter()
	packageRouter.HandleFunc("", h.GetPackages).Methods("GET")
	packageRouter.HandleFunc("", h.CreatePackage).Methods("POST")
	packageRouter.HandleFunc("/{id:[0-9]+}", h.GetPackage).Methods("GET")
	packageRouter.HandleFunc("/{id:[0-9]+}", h.UpdatePackage).Methods("PUT")
	packageRouter.HandleFunc("/{id:[0-9]+}", h.DeletePackage).Methods("DELETE")
}

type PackageRequest struct {
	CompanyID uint    `json:"companyId" validate:"required"`
	Name      string  `json:"name" validate:"required,max=255"`
	Price     float64 `json:"price" validate:"gte=0"`
	Reels     int     `json:"reels" validate:"gte=0"`
	Posts     int     `json:"posts" validate:"gte=0"`
	Stories   int     `json:"stories" validate:"gte=0"`
	Videos    int     `json:"videos" validate:"gte=0"`
}

func (req PackageRequest) apply(p *models.Package) {
	p.CompanyID = req.CompanyID
	p.Name = req.Name
	p.Price = req.Price
	p.Reels = req.Reels
	p.Posts = req.Posts
	p.Stories = req.Stories
	p.Videos = req.Videos
}

func (h *PackageHandler) find(r *http.Request) (models.Package, error) {
	var p models.Package
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return p, utils.NewValidationError("id", "invalid id")
	}
	err = h.db.WithContext(r.Context()).Preload("Company").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, utils.NotFound("package")
	}
	return p, err
}

func (h *PackageHandler) companyExists(r *http.Request, id uint) error {
	var count int64
	if err := h.db.WithContext(r.Context()).Model(&models.Company{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NotFound("company")
	}
	return nil
}

func (h *PackageHandler) GetPackages(w http.ResponseWriter, r *http.Request) {
	query := h.db.WithContext(r.Context()).Preload("Company")
	if v := r.URL.Query().Get("companyId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondWithError(w, utils.NewValidationError("companyId", "invalid id"))
			return
		}
		query = query.Where("company_id = ?", id)
	}

	var packages []models.Package
	if err := query.Order("id ASC").Find(&packages).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, packages)
}

func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req PackageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.companyExists(r, req.CompanyID); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var p models.Package
	req.apply(&p)
	if err := h.db.WithContext(r.Context()).Create(&p).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

func (h *PackageHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req PackageRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.companyExists(r, req.CompanyID); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	req.apply(&p)
	p.Company = nil
	if err := h.db.WithContext(r.Context()).Save(&p).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	p, err := h.find(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.db.WithContext(r.Context()).Delete(&models.Package{}, p.ID).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Package deleted successfully")
}
