package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
	"github.com/HailuBoc/student-task-manager/internal/repo"
)

func newUserService() (*UserService, *repo.MemUserRepo) {
	r := repo.NewMemUserRepo()
	return NewUserService(r), r
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Amina", "amina@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Amina", u.Name)
	assert.Equal(t, dom.DefaultSettings(), u.Settings)
	assert.NotEqual(t, "secret123", u.PasswordHash, "plaintext must never be stored")

	got, err := svc.Authenticate(ctx, "amina@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.c", "secret123")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, "A", "a@b.c", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "First", "same@example.com", "secret123")
	require.NoError(t, err)

	// Conflict regardless of the other fields.
	_, err = svc.Register(ctx, "Second", "same@example.com", "different456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateMergesFailureCauses(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Amina", "amina@example.com", "secret123")
	require.NoError(t, err)

	// Unknown email and wrong password must be indistinguishable.
	_, errNoUser := svc.Authenticate(ctx, "nobody@example.com", "secret123")
	_, errBadPass := svc.Authenticate(ctx, "amina@example.com", "wrongpass")
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.ErrorIs(t, errBadPass, ErrInvalidCredentials)
}

func TestUpdateSettingsPartial(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Amina", "amina@example.com", "secret123")
	require.NoError(t, err)

	dark := true
	got, err := svc.UpdateSettings(ctx, u.ID, SettingsPatch{DarkMode: &dark})
	require.NoError(t, err)
	assert.True(t, got.Settings.DarkMode)
	// Untouched fields keep their defaults.
	assert.True(t, got.Settings.PushAlerts)
	assert.False(t, got.Settings.EmailReports)
	assert.True(t, got.Settings.EmailNotifications)

	off := false
	got, err = svc.UpdateSettings(ctx, u.ID, SettingsPatch{PushAlerts: &off})
	require.NoError(t, err)
	assert.True(t, got.Settings.DarkMode, "earlier change persists")
	assert.False(t, got.Settings.PushAlerts)
}

func TestUpdateSettingsUserGone(t *testing.T) {
	svc, r := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Amina", "amina@example.com", "secret123")
	require.NoError(t, err)
	r.Delete(u.ID)

	dark := true
	_, err = svc.UpdateSettings(ctx, u.ID, SettingsPatch{DarkMode: &dark})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Profile(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Amina", "amina@example.com", "oldpassword")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, "wrong", "newpassword")
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, u.ID, "oldpassword", "tiny")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	err = svc.ChangePassword(ctx, u.ID, "oldpassword", "newpassword")
	require.NoError(t, err)

	// New password works, old one does not.
	_, err = svc.Authenticate(ctx, "amina@example.com", "newpassword")
	assert.NoError(t, err)
	_, err = svc.Authenticate(ctx, "amina@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
