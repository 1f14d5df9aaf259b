package model

import (
	"time"

	"github.com/google/uuid"
)

// Priority is the enumerated task priority, ordered Urgent > High >
// Medium > Low for display grouping.
type Priority string

const (
	PriorityUrgent Priority = "Urgent"
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// PriorityOrder maps priorities to their display rank, lowest first.
var PriorityOrder = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// PriorityGroups is the fixed grouping order for task listings.
var PriorityGroups = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

func ValidPriority(p string) bool {
	_, ok := PriorityOrder[Priority(p)]
	return ok
}

// Task is a care activity for one patient. Recurring tasks are reset
// to incomplete by an explicit daily reset, never by a timer.
type Task struct {
	Base
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	Name          string     `db:"name" json:"name"`
	Notes         string     `db:"notes" json:"notes"`
	Priority      Priority   `db:"priority" json:"priority"`
	ScheduledTime *TimeOfDay `db:"scheduled_time" json:"scheduled_time,omitempty"`
	Recurring     bool       `db:"recurring" json:"recurring"`
	Completed     bool       `db:"completed" json:"completed"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CompletedBy   *string    `db:"completed_by" json:"completed_by,omitempty"`
}

type CreateTaskRequest struct {
	Name          string `json:"name" binding:"required"`
	Priority      string `json:"priority" binding:"omitempty,priority"`
	ScheduledTime string `json:"scheduled_time" binding:"omitempty,timeofday"`
	Notes         string `json:"notes"`
	Recurring     bool   `json:"recurring"`
}

type ToggleTaskRequest struct {
	Completed bool `json:"completed"`
}

// TaskFilters selects which tasks a listing shows.
type TaskFilters struct {
	ShowCompleted bool       `json:"show_completed" form:"show_completed"`
	Priorities    []Priority `json:"priorities" form:"priorities"`
}

// TaskStats summarises a patient's checklist.
type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// TaskTemplates is the fixed list of common care activities offered
// when creating a task.
var TaskTemplates = []string{
	"Morning medication",
	"Breakfast",
	"Personal hygiene",
	"Dressing",
	"Morning activities",
	"Mid-morning medication",
	"Lunch",
	"Afternoon activities",
	"Afternoon medication",
	"Dinner",
	"Evening medication",
	"Evening routine",
	"Bedtime preparation",
	"Night medication",
	"Room check",
	"Vital signs check",
	"Fluid intake monitoring",
	"Comfort check",
}
