package tasks

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/admusproduccion/admus-server/cmd/models"
	"github.com/admusproduccion/admus-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db       *gorm.DB
	calendar *CalendarService
}

func NewTaskHandler(db *gorm.DB, calendar *CalendarService) *TaskHandler {
	return &TaskHandler{db: db, calendar: calendar}
}

func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	taskRouter := router.PathPrefix("/tasks").Subrouter()
	taskRouter.HandleFunc("", h.GetTasks).Methods("GET")
	taskRouter.HandleFunc("", h.CreateTask).Methods("POST")
	taskRouter.HandleFunc("/calendar/month", h.GetMonth).Methods("GET")
	taskRouter.HandleFunc("/calendar/week/{weekId:[0-9]+}", h.GetWeek).Methods("GET")
	taskRouter.HandleFunc("/{id:[0-9]+}", h.GetTask).Methods("GET")
	taskRouter.HandleFunc("/{id:[0-9]+}", h.UpdateTask).Methods("PUT")
	taskRouter.HandleFunc("/{id:[0-9]+}", h.DeleteTask).Methods("DELETE")
	taskRouter.HandleFunc("/{id:[0-9]+}/assignments", h.AssignTask).Methods("POST")

	router.HandleFunc("/task-assignments/{id:[0-9]+}", h.UpdateAssignment).Methods("PATCH")

	router.HandleFunc("/task-types", h.GetTaskTypes).Methods("GET")
	router.HandleFunc("/task-types", h.CreateTaskType).Methods("POST")
	router.HandleFunc("/task-types/{id:[0-9]+}", h.DeleteTaskType).Methods("DELETE")
}

type TaskRequest struct {
	CompanyID   uint   `json:"companyId" validate:"required"`
	TaskTypeID  *uint  `json:"taskTypeId"`
	Title       string `json:"title" validate:"required,max=255"`
	Priority    string `json:"priority" validate:"omitempty,oneof=alta media baja"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

type TaskAssignmentRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Detail string `json:"detail"`
}

type AssignmentStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pendiente en_proceso completada"`
	Detail *string `json:"detail"`
}

type TaskTypeRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,max=20"`
}

func parseID(r *http.Request, key string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[key], 10, 64)
	if err != nil {
		return 0, utils.NewValidationError(key, "invalid id")
	}
	return uint(id), nil
}

func (h *TaskHandler) findTask(r *http.Request) (models.Task, error) {
	var task models.Task
	id, err := parseID(r, "id")
	if err != nil {
		return task, err
	}
	err = h.db.WithContext(r.Context()).
		Preload("Company").Preload("Type").Preload("Assignments.User").
		First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return task, utils.NotFound("task")
	}
	return task, err
}

func (h *TaskHandler) companyExists(r *http.Request, id uint) error {
	var count int64
	if err := h.db.WithContext(r.Context()).Model(&models.Company{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NotFound("company")
	}
	return nil
}

func (req TaskRequest) apply(task *models.Task) {
	date, _ := time.Parse(dateLayout, req.Date)
	task.CompanyID = req.CompanyID
	task.TaskTypeID = req.TaskTypeID
	task.Title = req.Title
	task.Description = req.Description
	task.Date = datatypes.Date(date)
	task.Priority = models.PriorityMedium
	if req.Priority != "" {
		task.Priority = models.Priority(req.Priority)
	}
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	page, perPage, err := utils.ParsePaginationParams(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	query := h.db.WithContext(r.Context()).Model(&models.Task{})
	if v := r.URL.Query().Get("companyId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			utils.RespondWithError(w, utils.NewValidationError("companyId", "invalid id"))
			return
		}
		query = query.Where("company_id = ?", id)
	}
	if v := r.URL.Query().Get("priority"); v != "" {
		query = query.Where("priority = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var tasks []models.Task
	if err := query.Preload("Company").Preload("Type").Preload("Assignments").
		Order("date DESC, id DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&tasks).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.PaginatedResponse{
		Data:       tasks,
		Pagination: utils.NewPaginationMeta(page, perPage, total),
	})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req TaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.companyExists(r, req.CompanyID); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var task models.Task
	req.apply(&task)
	if err := h.db.WithContext(r.Context()).Create(&task).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.findTask(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.findTask(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req TaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if err := h.companyExists(r, req.CompanyID); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	req.apply(&task)
	task.Company = nil
	task.Type = nil
	if err := h.db.WithContext(r.Context()).Omit("Assignments").Save(&task).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.findTask(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	tx := h.db.WithContext(r.Context()).Begin()
	if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(w, err)
		return
	}
	if err := tx.Delete(&models.Task{}, task.ID).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(w, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Task deleted successfully")
}

func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.findTask(r)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req TaskAssignmentRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	var user models.User
	if err := h.db.WithContext(r.Context()).First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = utils.NotFound("user")
		}
		utils.RespondWithError(w, err)
		return
	}

	assignment := models.TaskAssignment{
		TaskID: task.ID,
		UserID: user.ID,
		Status: models.TaskPending,
		Detail: req.Detail,
	}
	if err := h.db.WithContext(r.Context()).Create(&assignment).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	assignment.User = &user
	utils.RespondWithJSON(w, http.StatusCreated, assignment)
}

func (h *TaskHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var req AssignmentStatusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	db := h.db.WithContext(r.Context())
	var assignment models.TaskAssignment
	if err := db.First(&assignment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = utils.NotFound("task assignment")
		}
		utils.RespondWithError(w, err)
		return
	}

	assignment.Status = models.TaskStatus(req.Status)
	if req.Detail != nil {
		assignment.Detail = *req.Detail
	}
	if err := db.Save(&assignment).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, assignment)
}

func (h *TaskHandler) GetTaskTypes(w http.ResponseWriter, r *http.Request) {
	var types []models.TaskType
	if err := h.db.WithContext(r.Context()).Order("name ASC").Find(&types).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, types)
}

func (h *TaskHandler) CreateTaskType(w http.ResponseWriter, r *http.Request) {
	var req TaskTypeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, err)
		return
	}

	db := h.db.WithContext(r.Context())
	var count int64
	if err := db.Model(&models.TaskType{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if count > 0 {
		utils.RespondWithError(w, fmt.Errorf("task type %q already exists: %w", req.Name, utils.ErrConflict))
		return
	}

	taskType := models.TaskType{Name: req.Name, Color: req.Color}
	if err := db.Create(&taskType).Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, taskType)
}

func (h *TaskHandler) DeleteTaskType(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	tx := h.db.WithContext(r.Context()).Begin()
	if err := tx.Model(&models.Task{}).Where("task_type_id = ?", id).Update("task_type_id", nil).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(w, err)
		return
	}
	result := tx.Delete(&models.TaskType{}, id)
	if result.Error != nil {
		tx.Rollback()
		utils.RespondWithError(w, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(w, utils.NotFound("task type"))
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Task type deleted successfully")
}

// GetMonth godoc
// @Summary Tasks of a month grouped by company and date
// @Tags tasks
// @Produce json
// @Param year query int true "year"
// @Param month query int true "month 1-12"
// @Success 200 {object} Calendar
// @Router /tasks/calendar/month [get]
func (h *TaskHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			utils.RespondWithError(w, utils.NewValidationError("year", "invalid year"))
			return
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			utils.RespondWithError(w, utils.NewValidationError("month", "must be between 1 and 12"))
			return
		}
		month = m
	}

	cal, err := h.calendar.Month(r.Context(), year, time.Month(month))
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cal)
}

func (h *TaskHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "weekId")
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	var week models.Week
	if err := h.db.WithContext(r.Context()).First(&week, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = utils.NotFound("week")
		}
		utils.RespondWithError(w, err)
		return
	}

	cal, err := h.calendar.Week(r.Context(), week)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cal)
}
