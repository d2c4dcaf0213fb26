package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
)

// TaskRepo provides task persistence. Every query is scoped by the
// owning user id; a task belonging to someone else behaves exactly
// like a task that does not exist.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, userID, id int64) error
}

const taskColumns = `id, user_id, title, description, priority, due_date, completed, created_at, updated_at`

// PGTaskRepo implements TaskRepo with Postgres.
type PGTaskRepo struct {
	db *pgxpool.Pool
}

// NewPGTaskRepo returns a new PGTaskRepo.
func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func scanTask(row interface{ Scan(...any) error }) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
		&t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, priority, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, t.Priority, t.DueDate, t.Completed))
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return scanTask(r.db.QueryRow(ctx, query, id, userID))
}

// orderClause maps a sort key to SQL. Priority sorts low < medium <
// high via CASE; due date ascending; default is newest first.
func orderClause(sort dom.SortKey) string {
	switch sort {
	case dom.SortPriority:
		return `ORDER BY CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 END ASC, created_at DESC`
	case dom.SortDueDate:
		return `ORDER BY due_date ASC, created_at DESC`
	}
	return `ORDER BY created_at DESC`
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}
	switch status {
	case dom.StatusPending:
		query += ` AND completed = FALSE`
	case dom.StatusCompleted:
		query += ` AND completed = TRUE`
	}
	query += ` ` + orderClause(sort)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, priority = $5, due_date = $6, completed = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Description, patch.Priority, patch.DueDate, patch.Completed))
}

// Delete removes the task. Reports pgx.ErrNoRows when no owned task
// matched so the service can map it to not-found.
func (r *PGTaskRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
