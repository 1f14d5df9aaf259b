package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Record event types written by the mutating operations.
const (
	EventPatientCreate        = "PATIENT_CREATE"
	EventMedicationCreate     = "MEDICATION_CREATE"
	EventMedicationStop       = "MEDICATION_STOP"
	EventMedicationGiven      = "MEDICATION_GIVEN"
	EventTaskCreate           = "TASK_CREATE"
	EventTaskComplete         = "TASK_COMPLETE"
	EventTaskDelete           = "TASK_DELETE"
	EventDailyLogCreate       = "DAILY_LOG_CREATE"
	EventMemoryCreate         = "MEMORY_CREATE"
	EventMemoryDelete         = "MEMORY_DELETE"
)

// OutboxEvent is a pending record event awaiting publication to the
// care-home integration feed.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}
