package client

import (
	"context"
	"sort"
	"strings"
	"time"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
	"github.com/HailuBoc/student-task-manager/internal/dto"
)

// TaskAPI is the slice of Client the store needs. *Client satisfies it.
type TaskAPI interface {
	ListTasks(ctx context.Context, status dom.StatusFilter, sort dom.SortKey) ([]dto.TaskResponse, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error)
	UpdateTask(ctx context.Context, id int64, req dto.UpdateTaskRequest) (dto.TaskResponse, error)
	DeleteTask(ctx context.Context, id int64) error
}

// TaskStore holds the local copy of the task list and its derived
// view. The local list is a cache invalidated by the latest successful
// response: every mutation reconciles the server's returned record,
// and concurrent in-flight mutations on one record are unordered —
// the last response to arrive wins. Callers needing strict ordering
// must serialize requests per record.
//
// Not safe for concurrent use; it models a single-threaded UI loop.
type TaskStore struct {
	api   TaskAPI
	tasks []dto.TaskResponse

	query  string
	status dom.StatusFilter
	sort   dom.SortKey
}

// NewTaskStore returns an empty store backed by api.
func NewTaskStore(api TaskAPI) *TaskStore {
	return &TaskStore{api: api}
}

// Refresh replaces the local list with the server's, dropping any
// manual reorder.
func (s *TaskStore) Refresh(ctx context.Context) error {
	list, err := s.api.ListTasks(ctx, dom.StatusAll, dom.SortCreatedAt)
	if err != nil {
		return err
	}
	s.tasks = list
	return nil
}

// Tasks returns the unfiltered local list in its current order.
func (s *TaskStore) Tasks() []dto.TaskResponse { return s.tasks }

// SetQuery sets the text-search filter.
func (s *TaskStore) SetQuery(q string) { s.query = q }

// SetStatus sets the status filter.
func (s *TaskStore) SetStatus(f dom.StatusFilter) { s.status = f }

// SetSort sets the sort key.
func (s *TaskStore) SetSort(k dom.SortKey) { s.sort = k }

// Query returns the current search text.
func (s *TaskStore) Query() string { return s.query }

// Status returns the current status filter.
func (s *TaskStore) Status() dom.StatusFilter { return s.status }

// Sort returns the current sort key.
func (s *TaskStore) Sort() dom.SortKey { return s.sort }

// View recomputes the derived list: search filter, then status
// filter, then sort. Pure with respect to the stored list; the result
// is a fresh slice and never the source of truth.
func (s *TaskStore) View() []dto.TaskResponse {
	filtered := make([]dto.TaskResponse, 0, len(s.tasks))
	search := strings.ToLower(strings.TrimSpace(s.query))
	for _, t := range s.tasks {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		switch s.status {
		case dom.StatusPending:
			if t.Completed {
				continue
			}
		case dom.StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		filtered = append(filtered, t)
	}

	switch s.sort {
	case dom.SortPriority:
		sort.SliceStable(filtered, func(i, j int) bool {
			return dom.Priority(filtered[i].Priority).Rank() < dom.Priority(filtered[j].Priority).Rank()
		})
	case dom.SortDueDate:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].DueDate.Before(filtered[j].DueDate)
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}
	return filtered
}

// Create posts a new task and prepends the server record locally.
func (s *TaskStore) Create(ctx context.Context, req dto.CreateTaskRequest) (dto.TaskResponse, error) {
	t, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	s.tasks = append([]dto.TaskResponse{t}, s.tasks...)
	return t, nil
}

// Update patches a task and reconciles the returned record in place.
func (s *TaskStore) Update(ctx context.Context, id int64, req dto.UpdateTaskRequest) (dto.TaskResponse, error) {
	t, err := s.api.UpdateTask(ctx, id, req)
	if err != nil {
		return dto.TaskResponse{}, err
	}
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i] = t
			break
		}
	}
	return t, nil
}

// ToggleComplete flips a task's completed flag through the API.
func (s *TaskStore) ToggleComplete(ctx context.Context, id int64) (dto.TaskResponse, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			next := !t.Completed
			return s.Update(ctx, id, dto.UpdateTaskRequest{Completed: &next})
		}
	}
	return dto.TaskResponse{}, &APIError{Status: 404, Message: "Task not found"}
}

// Delete removes a task remotely and locally.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return nil
}

// Move reorders the local list only; the order is never persisted and
// the next Refresh rebuilds it from the server.
func (s *TaskStore) Move(from, to int) {
	if from < 0 || from >= len(s.tasks) || to < 0 || to >= len(s.tasks) || from == to {
		return
	}
	t := s.tasks[from]
	s.tasks = append(s.tasks[:from], s.tasks[from+1:]...)
	rest := append([]dto.TaskResponse{}, s.tasks[to:]...)
	s.tasks = append(append(s.tasks[:to:to], t), rest...)
}

// Overdue reports whether a task's due date has passed without it
// being completed. Presentation-only, same rule as the server domain.
func Overdue(t dto.TaskResponse, now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}
