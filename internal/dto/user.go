package dto

import (
	"time"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
)

// SignupRequest is the JSON body for POST /api/auth/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateSettingsRequest carries the independently optional settings
// fields. emailNotifications is intentionally not updatable here.
type UpdateSettingsRequest struct {
	DarkMode     *bool `json:"darkMode"`
	PushAlerts   *bool `json:"pushAlerts"`
	EmailReports *bool `json:"emailReports"`
}

// ChangePasswordRequest is the JSON body for PUT /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// UserResponse is the public-safe user view: never the password hash.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileUser extends the public view with settings and creation time
// for GET /api/auth/profile.
type ProfileUser struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Settings  dom.Settings `json:"settings"`
	CreatedAt time.Time    `json:"createdAt"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// ProfileResponse is returned by GET /api/auth/profile.
type ProfileResponse struct {
	User     ProfileUser  `json:"user"`
	Settings dom.Settings `json:"settings"`
}

// SettingsResponse is returned by PUT /api/auth/settings.
type SettingsResponse struct {
	Message  string       `json:"message"`
	User     UserResponse `json:"user"`
	Settings dom.Settings `json:"settings"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserToResponse maps a domain user to the public-safe view.
func UserToResponse(u dom.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserToProfile maps a domain user to the profile view.
func UserToProfile(u dom.User) ProfileUser {
	return ProfileUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Settings:  u.Settings,
		CreatedAt: u.CreatedAt,
	}
}
