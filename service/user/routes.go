package user

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	db   *gorm.DB
	auth *utils.Authenticator
}

func NewHandler(db *gorm.DB, auth *utils.Authenticator) *Handler {
	return &Handler{db: db, auth: auth}
}

// RegisterPublicRoutes exposes login, the only unauthenticated user route.
func (h *Handler) RegisterPublicRoutes(router *mux.Router) {
	router.HandleFunc("/login", h.handleLogin).Methods("POST")
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/me", h.GetMe).Methods("GET")
	router.HandleFunc("/users", h.GetUsers).Methods("GET")
	router.HandleFunc("/users", h.CreateUser).Methods("POST")
	router.HandleFunc("/users/{id:[0-9]+}/status", h.UpdateStatus).Methods("PATCH")
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

type StatusRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var user models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", strings.ToLower(req.Email)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(w, err)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.Active {
		http.Error(w, "Account disabled", http.StatusForbidden)
		return
	}

	accessToken, err := h.auth.IssueToken(user.ID)
	if err != nil {
		utils.RespondWithError(w, fmt.Errorf("generating access token: %w", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Login successful",
		"accessToken": accessToken,
		"user":        user,
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = utils.NotFound("user")
		}
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.db.WithContext(r.Context()).Order("id ASC").Find(&users).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	user, err := Create(h.db.WithContext(r.Context()), req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// UpdateStatus activates or deactivates a user. A deactivated user's tokens
// stop working on their next request.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, utils.NewValidationError("id", "invalid id"))
		return
	}
	var req StatusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	db := h.db.WithContext(r.Context())
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = utils.NotFound("user")
		}
		utils.RespondWithError(w, err)
		return
	}

	if err := db.Model(&user).Update("active", *req.Active).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	user.Active = *req.Active
	h.auth.Invalidate(r.Context(), user.ID)

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// Create hashes the password and stores an active user. Emails are unique
// case-insensitively.
func Create(db *gorm.DB, fullName, email, password, role string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if role == "" {
		role = "staff"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return models.User{}, err
	}
	if count > 0 {
		return models.User{}, fmt.Errorf("email %s already registered: %w", email, utils.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}
