package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
	"github.com/HailuBoc/student-task-manager/internal/repo"
	"github.com/HailuBoc/student-task-manager/internal/utils"
)

// minPasswordLen applies to registration and password changes.
const minPasswordLen = 6

// bcryptCost matches the digests produced by earlier deployments so
// existing hashes keep verifying.
const bcryptCost = 10

var (
	// ErrInvalidCredentials merges "no such user" and "wrong password"
	// so responses never confirm whether an email is registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingFields      = errors.New("name, email, and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// SettingsPatch carries the independently optional settings fields of
// an update; nil means "keep the stored value".
type SettingsPatch struct {
	DarkMode     *bool
	PushAlerts   *bool
	EmailReports *bool
}

// UserService owns identity: registration, credential checks, profile
// and settings access, password changes.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo) *UserService {
	return &UserService{repo: r}
}

// Register creates a user with a fresh password digest and default
// settings.
func (s *UserService) Register(ctx context.Context, name, email, password string) (dom.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return dom.User{}, ErrMissingFields
	}
	if len(password) < minPasswordLen {
		return dom.User{}, ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, name, email, string(hash), dom.DefaultSettings())
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// Authenticate checks email and password; returns the user if valid.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Profile returns the user record for the profile endpoint.
func (s *UserService) Profile(ctx context.Context, userID int64) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// UpdateSettings applies only the fields present in the patch and
// returns the updated user.
func (s *UserService) UpdateSettings(ctx context.Context, userID int64, patch SettingsPatch) (dom.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	settings := u.Settings
	if patch.DarkMode != nil {
		settings.DarkMode = *patch.DarkMode
	}
	if patch.PushAlerts != nil {
		settings.PushAlerts = *patch.PushAlerts
	}
	if patch.EmailReports != nil {
		settings.EmailReports = *patch.EmailReports
	}
	u, err = s.repo.UpdateSettings(ctx, userID, settings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// ChangePassword verifies the current password before replacing the
// stored digest.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingFields
	}
	if len(next) < minPasswordLen {
		return ErrPasswordTooShort
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}
