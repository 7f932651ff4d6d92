package dashboard

import (
	"context"
	"net/http"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type DashboardStats struct {
	TotalCompanies   int64   `json:"totalCompanies"`
	TotalInfluencers int64   `json:"totalInfluencers"`
	TotalBookings    int64   `json:"totalBookings"`
	PendingLinks     int64   `json:"pendingLinks"`
	PendingAmount    float64 `json:"pendingAmount"`
	PaidAmount       float64 `json:"paidAmount"`
}

// RegisterRoutes registers dashboard-related routes with Gorilla Mux
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("/stats", h.GetDashboardStats).Methods("GET")
}

func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := Collect(r.Context(), h.db)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func Collect(ctx context.Context, db *gorm.DB) (DashboardStats, error) {
	db = db.WithContext(ctx)
	var stats DashboardStats

	if err := db.Model(&models.Company{}).Count(&stats.TotalCompanies).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Influencer{}).Count(&stats.TotalInfluencers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.CompanyLink{}).Where("status = ?", models.LinkPending).Count(&stats.PendingLinks).Error; err != nil {
		return stats, err
	}

	var totals []struct {
		Status string
		Total  float64
	}
	if err := db.Model(&models.CompanyLink{}).
		Select("status, COALESCE(SUM(amount), 0) AS total").
		Group("status").
		Scan(&totals).Error; err != nil {
		return stats, err
	}
	for _, t := range totals {
		switch t.Status {
		case models.LinkPending:
			stats.PendingAmount = t.Total
		case models.LinkPaid:
			stats.PaidAmount = t.Total
		}
	}
	return stats, nil
}
