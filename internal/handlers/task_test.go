package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HailuBoc/student-task-manager/internal/dto"
)

func createTask(t *testing.T, r *gin.Engine, token string, body gin.H) dto.TaskResponse {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/api/tasks", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var task dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	return task
}

func listTasks(t *testing.T, r *gin.Engine, token, query string) []dto.TaskResponse {
	t.Helper()
	rec := doJSON(t, r, http.MethodGet, "/api/tasks"+query, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	return list
}

func TestCreateTaskScenario(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")

	task := createTask(t, r, token, gin.H{
		"title":       "Essay",
		"description": "Write history essay",
		"priority":    "high",
		"dueDate":     "2025-12-01",
	})
	assert.NotZero(t, task.ID)
	assert.False(t, task.Completed)
	assert.Equal(t, "Essay", task.Title)
	assert.Equal(t, "Write history essay", task.Description)
	assert.Equal(t, "high", task.Priority)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), task.DueDate.UTC())
}

func TestCreateTaskValidation(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")

	for _, body := range []gin.H{
		{"description": "d", "dueDate": "2026-01-01"},
		{"title": "t", "dueDate": "2026-01-01"},
		{"title": "t", "description": "d"},
	} {
		rec := doJSON(t, r, http.MethodPost, "/api/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Title, description, and due date are required", decode(t, rec)["error"])
	}
}

func TestTaskDefaultPriority(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")

	task := createTask(t, r, token, gin.H{
		"title": "t", "description": "d", "dueDate": "2026-01-01",
	})
	assert.Equal(t, "medium", task.Priority)
}

func TestUpdateTaskCompletion(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")
	task := createTask(t, r, token, gin.H{
		"title": "Essay", "description": "Write history essay", "priority": "high", "dueDate": "2025-12-01",
	})

	time.Sleep(5 * time.Millisecond)
	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", task.ID), token, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated dto.TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Completed)
	assert.True(t, updated.UpdatedAt.After(task.CreatedAt))
	assert.Equal(t, "Essay", updated.Title, "fields outside the patch stay put")
}

func TestOwnershipIsolationOverHTTP(t *testing.T) {
	r := newTestRouter()
	owner := signup(t, r, "Owner", "owner@example.com", "secret123")
	other := signup(t, r, "Other", "other@example.com", "secret123")

	task := createTask(t, r, owner, gin.H{
		"title": "private", "description": "d", "dueDate": "2026-01-01",
	})
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	rec := doJSON(t, r, http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, r, http.MethodPut, path, other, gin.H{"title": "stolen"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, r, http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The owner's record survived all of that.
	rec = doJSON(t, r, http.MethodGet, path, owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListFilterAndSortParams(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")

	a := createTask(t, r, token, gin.H{"title": "a", "description": "d", "priority": "high", "dueDate": "2026-06-01"})
	createTask(t, r, token, gin.H{"title": "b", "description": "d", "priority": "low", "dueDate": "2026-01-15"})
	createTask(t, r, token, gin.H{"title": "c", "description": "d", "priority": "medium", "dueDate": "2026-03-01"})

	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/tasks/%d", a.ID), token, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	pending := listTasks(t, r, token, "?status=pending")
	completed := listTasks(t, r, token, "?status=completed")
	all := listTasks(t, r, token, "")
	assert.Len(t, pending, 2)
	assert.Len(t, completed, 1)
	assert.Len(t, all, 3)

	byPriority := listTasks(t, r, token, "?sortBy=priority")
	require.Len(t, byPriority, 3)
	assert.Equal(t, []string{"low", "medium", "high"},
		[]string{byPriority[0].Priority, byPriority[1].Priority, byPriority[2].Priority})

	byDue := listTasks(t, r, token, "?sortBy=dueDate")
	for i := 1; i < len(byDue); i++ {
		assert.False(t, byDue[i].DueDate.Before(byDue[i-1].DueDate))
	}
}

func TestEmptyListIsArray(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")

	rec := doJSON(t, r, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())
}

func TestDeleteTask(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")
	task := createTask(t, r, token, gin.H{"title": "t", "description": "d", "dueDate": "2026-01-01"})
	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	rec := doJSON(t, r, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully", decode(t, rec)["message"])

	rec = doJSON(t, r, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decode(t, rec)["error"])
}

func TestBadTaskID(t *testing.T) {
	r := newTestRouter()
	token := signup(t, r, "Amina", "amina@example.com", "secret123")

	rec := doJSON(t, r, http.MethodGet, "/api/tasks/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
