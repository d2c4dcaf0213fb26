package domain

import "time"

// Settings is the per-user notification/appearance sub-record.
type Settings struct {
	DarkMode           bool `json:"darkMode"`
	PushAlerts         bool `json:"pushAlerts"`
	EmailReports       bool `json:"emailReports"`
	EmailNotifications bool `json:"emailNotifications"`
}

// DefaultSettings returns the settings assigned at registration.
func DefaultSettings() Settings {
	return Settings{
		DarkMode:           false,
		PushAlerts:         true,
		EmailReports:       false,
		EmailNotifications: true,
	}
}

// User is the domain entity for an account. PasswordHash never leaves
// the service layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Settings     Settings
	CreatedAt    time.Time
}
