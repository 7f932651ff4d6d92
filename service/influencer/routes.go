package influencer

import (
	"net/http"
	"strconv"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/admusproduccion/admus-server/service/availability"
	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

type InfluencerHandler struct {
	directory *Directory
}

func NewInfluencerHandler(directory *Directory) *InfluencerHandler {
	return &InfluencerHandler{directory: directory}
}

func (h *InfluencerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/influencers", h.GetInfluencers).Methods("GET")
	router.HandleFunc("/influencers", h.CreateInfluencer).Methods("POST")
	router.HandleFunc("/influencers/all", h.GetAllInfluencers).Methods("GET")
	router.HandleFunc("/influencers/eligible", h.GetEligibleInfluencers).Methods("GET")
	router.HandleFunc("/influencers/{id:[0-9]+}", h.GetInfluencer).Methods("GET")
	router.HandleFunc("/influencers/{id:[0-9]+}", h.UpdateInfluencer).Methods("PUT")
	router.HandleFunc("/influencers/{id:[0-9]+}", h.DeleteInfluencer).Methods("DELETE")
}

type InfluencerRequest struct {
	Name      string   `json:"name" validate:"required,max=255"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Phone     string   `json:"phone" validate:"omitempty,max=30"`
	Platforms []string `json:"platforms"`
}

func (req InfluencerRequest) model() models.Influencer {
	return models.Influencer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Platforms: pq.StringArray(req.Platforms),
	}
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, utils.NewValidationError("id", "invalid id")
	}
	return uint(id), nil
}

func (h *InfluencerHandler) GetInfluencers(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := utils.ParsePaginationParams(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	influencers, total, err := h.directory.Search(r.Context(), r.URL.Query().Get("search"), page, perPage)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.PaginatedResponse{
		Data:       influencers,
		Pagination: utils.NewPaginationMeta(page, perPage, total),
	})
}

func (h *InfluencerHandler) GetAllInfluencers(w http.ResponseWriter, r *http.Request) {
	influencers, err := h.directory.All(r.Context())
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, influencers)
}

// GetEligibleInfluencers godoc
// @Summary Influencers available for a company slot
// @Tags influencers
// @Produce json
// @Param companyId query int true "company"
// @Param day query string true "weekday"
// @Param shift query string true "shift"
// @Success 200 {array} models.Influencer
// @Router /influencers/eligible [get]
func (h *InfluencerHandler) GetEligibleInfluencers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID, err := strconv.ParseUint(q.Get("companyId"), 10, 64)
	if err != nil || companyID == 0 {
		utils.RespondWithError(w, utils.NewValidationError("companyId", "is required"))
		return
	}
	day, shift, err := availability.ParseSlot(q.Get("day"), q.Get("shift"))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	influencers, err := h.directory.Eligible(r.Context(), uint(companyID), day, shift)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, influencers)
}

func (h *InfluencerHandler) GetInfluencer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	influencer, err := h.directory.Get(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, influencer)
}

func (h *InfluencerHandler) CreateInfluencer(w http.ResponseWriter, r *http.Request) {
	var req InfluencerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	influencer := req.model()
	if err := h.directory.Create(r.Context(), &influencer); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, influencer)
}

func (h *InfluencerHandler) UpdateInfluencer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req InfluencerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	influencer, err := h.directory.Update(r.Context(), id, req.model())
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, influencer)
}

func (h *InfluencerHandler) DeleteInfluencer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.directory.Delete(r.Context(), id); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Influencer deleted successfully")
}
