package assignment

import (
	"net/http"
	"strconv"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/service/availability"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AssignmentHandler struct {
	db     *gorm.DB
	engine *Engine
}

func NewAssignmentHandler(db *gorm.DB, engine *Engine) *AssignmentHandler {
	return &AssignmentHandler{db: db, engine: engine}
}

func (h *AssignmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/assignments", h.GetAssignments).Methods("GET")
	router.HandleFunc("/assignments", h.Assign).Methods("POST")
	router.HandleFunc("/assignments/remove", h.Unassign).Methods("POST")
	router.HandleFunc("/assignments/slot/remove", h.ClearSlot).Methods("POST")
	router.HandleFunc("/assignments/bulk", h.BulkAssign).Methods("POST")
}

type UnassignRequest struct {
	BookingID uint `json:"bookingId" validate:"required"`
}

// Assign godoc
// @Summary Book one or more influencers into a company slot
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body AssignRequest true "assignment"
// @Success 201 {array} models.Booking
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /assignments [post]
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	bookings, err := h.engine.Assign(r.Context(), req)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, bookings)
}

// Unassign godoc
// @Summary Remove a single booking
// @Tags assignments
// @Accept json
// @Produce json
// @Param body body UnassignRequest true "booking"
// @Failure 404 {object} utils.ErrorResponse
// @Router /assignments/remove [post]
func (h *AssignmentHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	var req UnassignRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	booking, err := h.engine.Unassign(r.Context(), req.BookingID)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Assignment removed",
		"booking": booking,
	})
}

func (h *AssignmentHandler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	var req availability.CompanySlotRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	day, shift, err := availability.ParseSlot(req.Day, req.Shift)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	removed, err := h.engine.ClearSlot(r.Context(), req.CompanyID, day, shift)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Slot cleared",
		"removed": removed,
	})
}

// BulkAssign godoc
// @Summary Assign companies massively
// @Tags assignments
// @Produce json
// @Success 200 {object} BulkResult
// @Router /assignments/bulk [post]
func (h *AssignmentHandler) BulkAssign(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.BulkAssign(r.Context())
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

func (h *AssignmentHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := utils.ParsePaginationParams(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	query := h.db.WithContext(r.Context()).Model(&models.Booking{})
	q := r.URL.Query()
	if v := q.Get("companyId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondWithError(w, utils.NewValidationError("companyId", "invalid id"))
			return
		}
		query = query.Where("company_id = ?", id)
	}
	if v := q.Get("influencerId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondWithError(w, utils.NewValidationError("influencerId", "invalid id"))
			return
		}
		query = query.Where("influencer_id = ?", id)
	}
	if v := q.Get("day"); v != "" {
		day, err := models.ParseDay(v)
		if err != nil {
			utils.RespondWithError(w, utils.NewValidationError("day", "must be a weekday name"))
			return
		}
		query = query.Where("day = ?", day)
	}
	if v := q.Get("shift"); v != "" {
		shift, err := models.ParseShift(v)
		if err != nil {
			utils.RespondWithError(w, utils.NewValidationError("shift", "must be morning or afternoon"))
			return
		}
		query = query.Where("shift = ?", shift)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var bookings []models.Booking
	if err := query.Preload("Company").Preload("Influencer").
		Order("created_at ASC, id ASC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&bookings).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.PaginatedResponse{
		Data:       bookings,
		Pagination: utils.NewPaginationMeta(page, perPage, total),
	})
}
