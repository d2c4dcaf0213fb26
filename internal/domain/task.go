package domain

import "time"

// Priority is the task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank maps priorities onto low < medium < high for sorting.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

// StatusFilter selects tasks by completion state in list queries.
type StatusFilter string

const (
	StatusAll       StatusFilter = ""
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// ParseStatusFilter maps a query value to a filter. Unknown values
// mean "all", matching the original API's lenient query handling.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case StatusPending, StatusCompleted:
		return StatusFilter(s)
	}
	return StatusAll
}

// SortKey selects the ordering of list results.
type SortKey string

const (
	SortCreatedAt SortKey = "" // created_at DESC, the default
	SortPriority  SortKey = "priority"
	SortDueDate   SortKey = "dueDate"
)

// ParseSortKey maps a query value to a sort key, defaulting to
// newest-first on anything unrecognized.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriority, SortDueDate:
		return SortKey(s)
	}
	return SortCreatedAt
}

// Task is an owned record. Ownership (UserID) is set at creation and
// never changes; every query against tasks is scoped by it.
type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Priority    Priority
	DueDate     time.Time
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overdue reports whether the task's due date has passed without
// completion. Derived at presentation time, never stored.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}
