package week

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WeekHandler struct {
	db       *gorm.DB
	composer *Composer
	now      func() time.Time
}

func NewWeekHandler(db *gorm.DB, composer *Composer) *WeekHandler {
	return &WeekHandler{db: db, composer: composer, now: time.Now}
}

func (h *WeekHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/weeks", h.GetWeeks).Methods("GET")
	router.HandleFunc("/weeks", h.CreateWeek).Methods("POST")
	router.HandleFunc("/weeks/current", h.GetCurrentWeek).Methods("GET")
	router.HandleFunc("/weeks/{id:[0-9]+}", h.GetWeek).Methods("GET")
	router.HandleFunc("/weeks/{id:[0-9]+}", h.DeleteWeek).Methods("DELETE")
	router.HandleFunc("/weeks/{id:[0-9]+}/export", h.ExportWeek).Methods("GET")
}

type WeekRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, utils.NewValidationError("id", "invalid id")
	}
	return uint(id), nil
}

func (h *WeekHandler) GetWeeks(w http.ResponseWriter, r *http.Request) {
	var weeks []models.Week
	if err := h.db.WithContext(r.Context()).Order("start_date DESC").Find(&weeks).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, weeks)
}

func (h *WeekHandler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	var req WeekRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end := start.AddDate(0, 0, 6)
	if req.EndDate != "" {
		end, _ = time.Parse("2006-01-02", req.EndDate)
	}
	if end.Before(start) {
		utils.RespondWithError(w, utils.NewValidationError("endDate", "must not be before startDate"))
		return
	}

	week := models.Week{
		Name:      req.Name,
		StartDate: datatypes.Date(start),
		EndDate:   datatypes.Date(end),
	}
	if err := h.db.WithContext(r.Context()).Create(&week).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, week)
}

// GetWeek godoc
// @Summary Composed weekly schedule
// @Tags weeks
// @Produce json
// @Param id path int true "week id"
// @Success 200 {object} ComposedWeek
// @Failure 404 {object} utils.ErrorResponse
// @Router /weeks/{id} [get]
func (h *WeekHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	composed, err := h.composer.Compose(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, composed)
}

func (h *WeekHandler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.composer.Current(r.Context(), h.now())
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	composed, err := h.composer.Compose(r.Context(), week.ID)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, composed)
}

func (h *WeekHandler) DeleteWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	result := h.db.WithContext(r.Context()).Delete(&models.Week{}, id)
	if result.Error != nil {
		utils.RespondWithError(w, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(w, utils.NotFound("week"))
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Week deleted successfully")
}

func (h *WeekHandler) ExportWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	composed, err := h.composer.Compose(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=semana-%d.xlsx", composed.Week.ID))
	if err := WriteWorkbook(composed, w); err != nil {
		// headers already sent
		log.Printf("Error exporting week %d: %v", id, err)
	}
}
