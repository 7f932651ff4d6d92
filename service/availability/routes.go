package availability

import (
	"net/http"
	"strconv"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/service/events"
	"github.com/admusproduccion/admus-server/service/metrics"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	store    *Store
	notifier events.Notifier
}

func NewAvailabilityHandler(store *Store, notifier events.Notifier) *AvailabilityHandler {
	return &AvailabilityHandler{store: store, notifier: notifier}
}

func (h *AvailabilityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/company-availability", h.AddCompanyAvailability).Methods("POST")
	router.HandleFunc("/company-availability/remove", h.RemoveCompanyAvailability).Methods("POST")
	router.HandleFunc("/companies/{id:[0-9]+}/availability", h.GetCompanyAvailability).Methods("GET")
	router.HandleFunc("/influencers/{id:[0-9]+}/availability", h.GetInfluencerAvailability).Methods("GET")
	router.HandleFunc("/influencers/{id:[0-9]+}/availability", h.AddInfluencerAvailability).Methods("POST")
	router.HandleFunc("/influencers/{id:[0-9]+}/availability/remove", h.RemoveInfluencerAvailability).Methods("POST")
	router.HandleFunc("/availabilities/clear", h.ClearAvailabilities).Methods("POST")
}

type CompanySlotRequest struct {
	CompanyID uint   `json:"companyId" validate:"required"`
	Day       string `json:"day" validate:"required,weekday"`
	Shift     string `json:"shift" validate:"required,shift"`
}

type SlotRequest struct {
	Day   string `json:"day" validate:"required,weekday"`
	Shift string `json:"shift" validate:"required,shift"`
}

type SlotResponse struct {
	Availability models.Availability `json:"availability"`
	Slots        []Slot              `json:"slots"`
}

// ParseSlot normalises validated day and shift strings.
func ParseSlot(day, shift string) (models.Day, models.Shift, error) {
	d, err := models.ParseDay(day)
	if err != nil {
		return "", "", utils.NewValidationError("day", "must be a weekday name")
	}
	s, err := models.ParseShift(shift)
	if err != nil {
		return "", "", utils.NewValidationError("shift", "must be morning or afternoon")
	}
	return d, s, nil
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, utils.NewValidationError("id", "invalid id")
	}
	return uint(id), nil
}

func (h *AvailabilityHandler) add(w http.ResponseWriter, r *http.Request, owner Owner, day, shift string) {
	d, s, err := ParseSlot(day, shift)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	row, created, err := h.store.Add(r.Context(), owner, d, s)
	metrics.Observe("availability_add", err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	slots, err := h.store.List(r.Context(), owner)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.notifier.Notify(events.Event{Type: events.AvailabilityAdded, Payload: row})
	}
	utils.RespondWithJSON(w, status, SlotResponse{Availability: row, Slots: slots})
}

func (h *AvailabilityHandler) remove(w http.ResponseWriter, r *http.Request, owner Owner, day, shift string) {
	d, s, err := ParseSlot(day, shift)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	res, err := h.store.Remove(r.Context(), owner, d, s)
	metrics.Observe("availability_remove", err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	slots, err := h.store.List(r.Context(), owner)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	if res.Removed > 0 {
		h.notifier.Notify(events.Event{Type: events.AvailabilityRemoved, Payload: map[string]interface{}{
			"ownerType": owner.Type,
			"ownerId":   owner.ID,
			"day":       d,
			"shift":     s,
		}})
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"removed":         res.Removed,
		"bookingsRemoved": res.BookingsRemoved,
		"slots":           slots,
	})
}

func (h *AvailabilityHandler) list(w http.ResponseWriter, r *http.Request, ownerType models.OwnerType) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	slots, err := h.store.List(r.Context(), Owner{Type: ownerType, ID: id})
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, slots)
}

// AddCompanyAvailability godoc
// @Summary Mark a company slot as available
// @Tags availability
// @Accept json
// @Produce json
// @Param body body CompanySlotRequest true "slot"
// @Success 201 {object} SlotResponse
// @Router /company-availability [post]
func (h *AvailabilityHandler) AddCompanyAvailability(w http.ResponseWriter, r *http.Request) {
	var req CompanySlotRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	h.add(w, r, CompanyOwner(req.CompanyID), req.Day, req.Shift)
}

// RemoveCompanyAvailability godoc
// @Summary Remove a company slot and its bookings
// @Tags availability
// @Accept json
// @Produce json
// @Param body body CompanySlotRequest true "slot"
// @Router /company-availability/remove [post]
func (h *AvailabilityHandler) RemoveCompanyAvailability(w http.ResponseWriter, r *http.Request) {
	var req CompanySlotRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	h.remove(w, r, CompanyOwner(req.CompanyID), req.Day, req.Shift)
}

func (h *AvailabilityHandler) GetCompanyAvailability(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.OwnerCompany)
}

func (h *AvailabilityHandler) GetInfluencerAvailability(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.OwnerInfluencer)
}

func (h *AvailabilityHandler) AddInfluencerAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req SlotRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	h.add(w, r, InfluencerOwner(id), req.Day, req.Shift)
}

func (h *AvailabilityHandler) RemoveInfluencerAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req SlotRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	h.remove(w, r, InfluencerOwner(id), req.Day, req.Shift)
}

// ClearAvailabilities godoc
// @Summary Delete every influencer availability
// @Tags availability
// @Produce json
// @Router /availabilities/clear [post]
func (h *AvailabilityHandler) ClearAvailabilities(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.ClearInfluencers(r.Context())
	metrics.Observe("availability_clear", err)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	h.notifier.Notify(events.Event{Type: events.AvailabilityCleared, Payload: map[string]int64{"removed": removed}})
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Influencer availabilities cleared",
		"removed": removed,
	})
}
