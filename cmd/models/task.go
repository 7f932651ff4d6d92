package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baja"
)

// Rank orders priorities by severity, highest first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pendiente"
	TaskInProgress TaskStatus = "en_proceso"
	TaskCompleted  TaskStatus = "completada"
)

type TaskType struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"column:name;size:100;not null;uniqueIndex" json:"name"`
	Color string `gorm:"column:color;size:20" json:"color"`
}

type Task struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CompanyID   uint           `gorm:"column:company_id;not null;index" json:"companyId"`
	TaskTypeID  *uint          `gorm:"column:task_type_id" json:"taskTypeId,omitempty"`
	Title       string         `gorm:"column:title;size:255;not null" json:"title"`
	Priority    Priority       `gorm:"column:priority;size:10;not null;default:media" json:"priority"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Date        datatypes.Date `gorm:"column:date;not null;index" json:"date"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Company     *Company         `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Type        *TaskType        `gorm:"foreignKey:TaskTypeID" json:"type,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"assignments"`
}

type TaskAssignment struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	TaskID    uint       `gorm:"column:task_id;not null;index" json:"taskId"`
	UserID    uint       `gorm:"column:user_id;not null;index" json:"userId"`
	Status    TaskStatus `gorm:"column:status;size:20;not null;default:pendiente" json:"status"`
	Detail    string     `gorm:"column:detail;type:text" json:"detail"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
