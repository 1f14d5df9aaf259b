package model

import (
	"github.com/google/uuid"
)

// MealSlot names the three tracked meals.
type MealSlot string

const (
	MealBreakfast MealSlot = "Breakfast"
	MealLunch     MealSlot = "Lunch"
	MealDinner    MealSlot = "Dinner"
)

// MealSlots is the fixed slot order.
var MealSlots = []MealSlot{MealBreakfast, MealLunch, MealDinner}

func ValidMealSlot(s string) bool {
	switch MealSlot(s) {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// Meal is one slot's consumption entry.
type Meal struct {
	Amount   string `json:"amount"`
	Calories int    `json:"calories"`
}

// MealAmounts is the five-point amount-consumed scale.
var MealAmounts = []string{"None", "25%", "50%", "75%", "100%"}

// Vitals is the fixed vitals block recorded with every log.
type Vitals struct {
	Temperature      float64 `db:"temperature" json:"temperature"`
	BloodPressure    string  `db:"blood_pressure" json:"blood_pressure"`
	HeartRate        int     `db:"heart_rate" json:"heart_rate"`
	OxygenSaturation int     `db:"oxygen_saturation" json:"oxygen_saturation"`
	Weight           float64 `db:"weight" json:"weight"`
}

// Status holds the enumerated wellbeing scales.
type Status struct {
	Mood             string `db:"mood" json:"mood"`
	SleepQuality     string `db:"sleep_quality" json:"sleep_quality"`
	Appetite         string `db:"appetite" json:"appetite"`
	ActivityLevel    string `db:"activity_level" json:"activity_level"`
	SocialEngagement string `db:"social_engagement" json:"social_engagement"`
}

// Fixed option lists for the status scales, ordered worst to best.
var (
	MoodScale     = []string{"Very Low", "Low", "Neutral", "Good", "Very Good"}
	SleepScale    = []string{"Very Poor", "Poor", "Fair", "Good", "Excellent"}
	AppetiteScale = []string{"None", "Poor", "Fair", "Good", "Excellent"}
	ActivityScale = []string{"Bedridden", "Limited", "Moderate", "Active", "Very Active"}
	SocialScale   = []string{"None", "Minimal", "Moderate", "Good", "Excellent"}
)

// OnScale reports whether value is one of the scale's labels.
func OnScale(scale []string, value string) bool {
	for _, s := range scale {
		if s == value {
			return true
		}
	}
	return false
}

// DailyLog is one logging event for a patient. Logs are immutable
// after creation and never deleted; multiple per day are permitted.
type DailyLog struct {
	Base
	PatientID     uuid.UUID         `db:"patient_id" json:"patient_id"`
	LogDate       string            `db:"log_date" json:"log_date"`
	LogTime       TimeOfDay         `db:"log_time" json:"log_time"`
	Vitals        Vitals            `db:"-" json:"vitals"`
	Status        Status            `db:"-" json:"status"`
	Meals         map[MealSlot]Meal `db:"-" json:"meals"`
	TotalCalories int               `db:"total_calories" json:"total_calories"`
	TotalFluidsML int               `db:"total_fluids_ml" json:"total_fluids_ml"`
	GeneralNotes  string            `db:"general_notes" json:"general_notes"`
	Incidents     string            `db:"incidents" json:"incidents"`
	LoggedBy      string            `db:"logged_by" json:"logged_by"`
}

type CreateDailyLogRequest struct {
	LogDate       string          `json:"log_date"`
	LogTime       string          `json:"log_time"`
	Vitals        Vitals          `json:"vitals"`
	Status        Status          `json:"status"`
	Meals         map[string]Meal `json:"meals"`
	TotalFluidsML int             `json:"total_fluids_ml"`
	GeneralNotes  string          `json:"general_notes"`
	Incidents     string          `json:"incidents"`
}
