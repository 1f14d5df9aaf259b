package model

// DashboardStats is the carer landing-page summary.
type DashboardStats struct {
	TotalPatients     int `db:"total_patients" json:"total_patients"`
	PendingTasks      int `db:"pending_tasks" json:"pending_tasks"`
	ActiveMedications int `db:"active_medications" json:"active_medications"`
	LogsToday         int `db:"logs_today" json:"logs_today"`
}
