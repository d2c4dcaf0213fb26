package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
)

// In-memory implementations of UserRepo and TaskRepo with the same
// observable semantics as the Postgres ones, including pgx.ErrNoRows
// on misses and a unique-violation error on duplicate emails. They
// back the test suites and make the stack runnable without a database.

// MemUserRepo is an in-memory UserRepo.
type MemUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]dom.User
}

// NewMemUserRepo returns an empty in-memory user store.
func NewMemUserRepo() *MemUserRepo {
	return &MemUserRepo{nextID: 1, users: make(map[int64]dom.User)}
}

func (r *MemUserRepo) Create(_ context.Context, name, email, passwordHash string, settings dom.Settings) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	u := dom.User{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Settings:     settings,
		CreatedAt:    time.Now().UTC(),
	}
	r.nextID++
	r.users[u.ID] = u
	return u, nil
}

func (r *MemUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *MemUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemUserRepo) UpdateSettings(_ context.Context, id int64, settings dom.Settings) (dom.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.Settings = settings
	r.users[id] = u
	return u, nil
}

func (r *MemUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

// Delete removes a user. Not part of UserRepo (the API never deletes
// accounts); tests use it to simulate a user that no longer exists.
func (r *MemUserRepo) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// MemTaskRepo is an in-memory TaskRepo.
type MemTaskRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]dom.Task
}

// NewMemTaskRepo returns an empty in-memory task store.
func NewMemTaskRepo() *MemTaskRepo {
	return &MemTaskRepo{nextID: 1, tasks: make(map[int64]dom.Task)}
}

func (r *MemTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	t.ID = r.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	r.nextID++
	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemTaskRepo) GetByID(_ context.Context, userID, id int64) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *MemTaskRepo) List(_ context.Context, userID int64, status dom.StatusFilter, sortKey dom.SortKey) ([]dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Task
	for _, t := range r.tasks {
		if t.UserID != userID {
			continue
		}
		switch status {
		case dom.StatusPending:
			if t.Completed {
				continue
			}
		case dom.StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		list = append(list, t)
	}
	switch sortKey {
	case dom.SortPriority:
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Priority.Rank() != list[j].Priority.Rank() {
				return list[i].Priority.Rank() < list[j].Priority.Rank()
			}
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	case dom.SortDueDate:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].DueDate.Before(list[j].DueDate)
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].ID > list[j].ID
			}
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	}
	return list, nil
}

func (r *MemTaskRepo) Update(_ context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.Title = strings.TrimSpace(patch.Title)
	t.Description = strings.TrimSpace(patch.Description)
	t.Priority = patch.Priority
	t.DueDate = patch.DueDate
	t.Completed = patch.Completed
	t.UpdatedAt = time.Now().UTC()
	r.tasks[id] = t
	return t, nil
}

func (r *MemTaskRepo) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}
