package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/HailuBoc/student-task-manager/internal/cache"
	dom "github.com/HailuBoc/student-task-manager/internal/domain"
	"github.com/HailuBoc/student-task-manager/internal/repo"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrMissingTaskData = errors.New("title, description, and due date are required")
	ErrBadPriority     = errors.New("priority must be low, medium or high")
)

// listCache is the slice of cache.TaskCache the service needs.
type listCache interface {
	GetList(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey) ([]dom.Task, bool, error)
	SetList(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey, list []dom.Task) error
	Invalidate(ctx context.Context, userID int64) error
}

// TaskService owns per-user task records. Every operation takes the
// authenticated user's id and stays inside that user's records.
type TaskService struct {
	repo  repo.TaskRepo
	cache listCache
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache) *TaskService {
	s := &TaskService{repo: r}
	if c != nil {
		s.cache = c
	}
	return s
}

// Create stores a new task. Priority defaults to medium.
func (s *TaskService) Create(ctx context.Context, userID int64, title, description string, priority dom.Priority, dueDate *time.Time) (dom.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" || dueDate == nil {
		return dom.Task{}, ErrMissingTaskData
	}
	if priority == "" {
		priority = dom.PriorityMedium
	}
	if !priority.Valid() {
		return dom.Task{}, ErrBadPriority
	}

	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     *dueDate,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the user's tasks filtered and ordered at query time.
// Concurrent identical reads collapse through singleflight; results
// are cached per (user, filter, sort) until the next write.
func (s *TaskService) List(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey) ([]dom.Task, error) {
	if s.cache == nil {
		return s.repo.List(ctx, userID, status, sort)
	}
	key := fmt.Sprintf("list:%d:%s:%s", userID, status, sort)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, ok, err := s.cache.GetList(ctx, userID, status, sort); err == nil && ok {
			return list, nil
		}
		list, err := s.repo.List(ctx, userID, status, sort)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, userID, status, sort, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Task), nil
}

// GetByID returns a single owned task.
func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// TaskPatch carries the updatable fields; nil means "keep".
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *dom.Priority
	DueDate     *time.Time
	Completed   *bool
}

// Update applies the patch to an owned task. updatedAt refreshes on
// every call, even a no-op patch.
func (s *TaskService) Update(ctx context.Context, userID, id int64, patch TaskPatch) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	next := existing
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return dom.Task{}, ErrBadPriority
		}
		next.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		next.DueDate = *patch.DueDate
	}
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}
	t, err := s.repo.Update(ctx, userID, id, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
