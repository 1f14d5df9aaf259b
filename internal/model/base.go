package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DateRange is a closed date interval, inclusive on both ends.
// Dates are ISO "2006-01-02" strings so they compare lexicographically.
type DateRange struct {
	Start string `json:"start" form:"start"`
	End   string `json:"end" form:"end"`
}

// Contains reports whether date falls within the range, bounds included.
func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}

func (r DateRange) IsZero() bool {
	return r.Start == "" && r.End == ""
}
