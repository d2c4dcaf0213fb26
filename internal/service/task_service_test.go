package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/HailuBoc/student-task-manager/internal/domain"
	"github.com/HailuBoc/student-task-manager/internal/repo"
)

func newTaskService() *TaskService {
	return NewTaskService(repo.NewMemTaskRepo(), nil)
}

func due(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestCreateDefaultsAndRoundTrip(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Essay", "Write history essay", "", due("2025-12-01"))
	require.NoError(t, err)
	assert.Equal(t, dom.PriorityMedium, created.Priority, "priority defaults to medium")
	assert.False(t, created.Completed)
	assert.NotZero(t, created.ID)

	got, err := svc.GetByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Essay", got.Title)
	assert.Equal(t, "Write history essay", got.Description)
	assert.True(t, got.DueDate.Equal(*due("2025-12-01")))
}

func TestCreateValidation(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "", "desc", dom.PriorityLow, due("2026-01-01"))
	assert.ErrorIs(t, err, ErrMissingTaskData)

	_, err = svc.Create(ctx, 1, "title", "   ", dom.PriorityLow, due("2026-01-01"))
	assert.ErrorIs(t, err, ErrMissingTaskData)

	_, err = svc.Create(ctx, 1, "title", "desc", dom.PriorityLow, nil)
	assert.ErrorIs(t, err, ErrMissingTaskData)

	_, err = svc.Create(ctx, 1, "title", "desc", "urgent", due("2026-01-01"))
	assert.ErrorIs(t, err, ErrBadPriority)
}

func TestOwnershipIsolation(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	mine, err := svc.Create(ctx, 1, "Mine", "owned by user 1", dom.PriorityHigh, due("2026-03-01"))
	require.NoError(t, err)

	// Another user sees not-found on every operation against it.
	_, err = svc.GetByID(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	title := "stolen"
	_, err = svc.Update(ctx, 2, mine.ID, TaskPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// And the owner still has it, untouched.
	got, err := svc.GetByID(ctx, 1, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)

	// Other users' lists never include it.
	list, err := svc.List(ctx, 2, dom.StatusAll, dom.SortCreatedAt)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListFilters(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	a, err := svc.Create(ctx, 1, "a", "d", dom.PriorityLow, due("2026-01-01"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, 1, "b", "d", dom.PriorityLow, due("2026-01-02"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "c", "d", dom.PriorityLow, due("2026-01-03"))
	require.NoError(t, err)

	done := true
	_, err = svc.Update(ctx, 1, a.ID, TaskPatch{Completed: &done})
	require.NoError(t, err)

	pending, err := svc.List(ctx, 1, dom.StatusPending, dom.SortCreatedAt)
	require.NoError(t, err)
	completed, err := svc.List(ctx, 1, dom.StatusCompleted, dom.SortCreatedAt)
	require.NoError(t, err)
	all, err := svc.List(ctx, 1, dom.StatusAll, dom.SortCreatedAt)
	require.NoError(t, err)

	require.Len(t, completed, 1)
	assert.Equal(t, a.ID, completed[0].ID)
	require.Len(t, pending, 2)
	for _, task := range pending {
		assert.False(t, task.Completed)
		assert.NotEqual(t, a.ID, task.ID)
	}
	// Union of both filters is the full set.
	assert.Len(t, all, len(pending)+len(completed))
	_ = b
}

func TestListSorting(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, "later", "d", dom.PriorityHigh, due("2026-06-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "soon", "d", dom.PriorityLow, due("2026-01-15"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, "middle", "d", dom.PriorityMedium, due("2026-03-01"))
	require.NoError(t, err)

	byPriority, err := svc.List(ctx, 1, dom.StatusAll, dom.SortPriority)
	require.NoError(t, err)
	for i := 1; i < len(byPriority); i++ {
		assert.LessOrEqual(t, byPriority[i-1].Priority.Rank(), byPriority[i].Priority.Rank())
	}

	byDue, err := svc.List(ctx, 1, dom.StatusAll, dom.SortDueDate)
	require.NoError(t, err)
	for i := 1; i < len(byDue); i++ {
		assert.False(t, byDue[i].DueDate.Before(byDue[i-1].DueDate))
	}

	newest, err := svc.List(ctx, 1, dom.StatusAll, dom.SortCreatedAt)
	require.NoError(t, err)
	for i := 1; i < len(newest); i++ {
		assert.False(t, newest[i].CreatedAt.After(newest[i-1].CreatedAt))
	}
}

func TestUpdateRefreshesTimestamp(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Essay", "Write history essay", dom.PriorityHigh, due("2025-12-01"))
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	done := true
	updated, err := svc.Update(ctx, 1, created.ID, TaskPatch{Completed: &done})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.True(t, updated.UpdatedAt.After(created.CreatedAt))
	// Fields not in the patch are untouched.
	assert.Equal(t, "Essay", updated.Title)
	assert.Equal(t, dom.PriorityHigh, updated.Priority)
}

// memListCache mirrors the redis cache contract: a stored empty list
// is a hit, only an absent key is a miss.
type memListCache struct {
	entries map[string][]dom.Task
}

func newMemListCache() *memListCache {
	return &memListCache{entries: map[string][]dom.Task{}}
}

func cacheKey(userID int64, status dom.StatusFilter, sort dom.SortKey) string {
	return fmt.Sprintf("%d:%s:%s", userID, status, sort)
}

func (c *memListCache) GetList(_ context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey) ([]dom.Task, bool, error) {
	list, ok := c.entries[cacheKey(userID, status, sort)]
	return list, ok, nil
}

func (c *memListCache) SetList(_ context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey, list []dom.Task) error {
	if list == nil {
		list = []dom.Task{}
	}
	c.entries[cacheKey(userID, status, sort)] = list
	return nil
}

func (c *memListCache) Invalidate(_ context.Context, _ int64) error {
	c.entries = map[string][]dom.Task{}
	return nil
}

// countingTaskRepo counts List calls to observe cache hits.
type countingTaskRepo struct {
	repo.TaskRepo
	lists int
}

func (r *countingTaskRepo) List(ctx context.Context, userID int64, status dom.StatusFilter, sort dom.SortKey) ([]dom.Task, error) {
	r.lists++
	return r.TaskRepo.List(ctx, userID, status, sort)
}

func TestListCachesEmptyResults(t *testing.T) {
	store := &countingTaskRepo{TaskRepo: repo.NewMemTaskRepo()}
	svc := &TaskService{repo: store, cache: newMemListCache()}
	ctx := context.Background()

	first, err := svc.List(ctx, 1, dom.StatusAll, dom.SortCreatedAt)
	require.NoError(t, err)
	assert.Empty(t, first)
	assert.Equal(t, 1, store.lists)

	// The empty result is served from cache, not re-fetched.
	second, err := svc.List(ctx, 1, dom.StatusAll, dom.SortCreatedAt)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 1, store.lists)

	// A write invalidates, so the next read sees the new task.
	created, err := svc.Create(ctx, 1, "fresh", "d", dom.PriorityLow, due("2026-04-01"))
	require.NoError(t, err)
	third, err := svc.List(ctx, 1, dom.StatusAll, dom.SortCreatedAt)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.Equal(t, created.ID, third[0].ID)
	assert.Equal(t, 2, store.lists)
}

func TestDelete(t *testing.T) {
	svc := newTaskService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "gone soon", "d", dom.PriorityLow, due("2026-02-01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	_, err = svc.GetByID(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 1, created.ID), ErrNotFound)
}
