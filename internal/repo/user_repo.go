package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
)

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, name, email, passwordHash string, settings dom.Settings) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	UpdateSettings(ctx context.Context, id int64, settings dom.Settings) (dom.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

const userColumns = `id, name, email, password_hash,
	dark_mode, push_alerts, email_reports, email_notifications, created_at`

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (dom.User, error) {
	var u dom.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Settings.DarkMode, &u.Settings.PushAlerts,
		&u.Settings.EmailReports, &u.Settings.EmailNotifications,
		&u.CreatedAt)
	return u, err
}

// Create inserts a new user and returns it. Email uniqueness is
// enforced by the store; violations surface as pgconn errors.
func (r *PGUserRepo) Create(ctx context.Context, name, email, passwordHash string, settings dom.Settings) (dom.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, dark_mode, push_alerts, email_reports, email_notifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, name, email, passwordHash,
		settings.DarkMode, settings.PushAlerts, settings.EmailReports, settings.EmailNotifications))
}

// GetByEmail returns the user by email, case-sensitive as stored.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByID returns the user by id.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// UpdateSettings writes the full settings record and returns the user.
func (r *PGUserRepo) UpdateSettings(ctx context.Context, id int64, settings dom.Settings) (dom.User, error) {
	query := `
		UPDATE users
		SET dark_mode = $2, push_alerts = $3, email_reports = $4, email_notifications = $5
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(r.db.QueryRow(ctx, query, id,
		settings.DarkMode, settings.PushAlerts, settings.EmailReports, settings.EmailNotifications))
}

// UpdatePassword replaces the stored digest.
func (r *PGUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	return err
}
