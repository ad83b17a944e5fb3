package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusOnHold     TaskStatus = "ON_HOLD"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// Color for UI display.
func (s TaskStatus) Color() string {
	return statusColors[s]
}

var statusColors = map[TaskStatus]string{
	StatusNotStarted: "gray",
	StatusInProgress: "blue",
	StatusCompleted:  "green",
	StatusOnHold:     "yellow",
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) Valid() bool {
	_, ok := priorityLevels[p]
	return ok
}

// Level for sorting (higher = more urgent).
func (p TaskPriority) Level() int {
	return priorityLevels[p]
}

func (p TaskPriority) Color() string {
	return priorityColors[p]
}

var priorityLevels = map[TaskPriority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
	PriorityUrgent: 4,
}

var priorityColors = map[TaskPriority]string{
	PriorityLow:    "gray",
	PriorityMedium: "blue",
	PriorityHigh:   "orange",
	PriorityUrgent: "red",
}

// Task represents the structure of a task in the system.
type Task struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	CompletionNote string       `json:"completion_note,omitempty"`
	CreatedByID    string       `json:"created_by_id"`
	AssignedToID   string       `json:"assigned_to_id"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	Comments []TaskComment `json:"comments,omitempty"`
}

// TaskComment is an append-only comment attached to a task.
type TaskComment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	Statuses   []TaskStatus
	Priorities []TaskPriority
	AssignedTo []string
	CreatedBy  []string
	Search     string
	Overdue    bool
	DateFrom   *time.Time
	DateTo     *time.Time

	// Non-admin actors only see tasks they created or are assigned to.
	VisibleToID string
}

type CreateTaskInput struct {
	Title        string       `json:"title" binding:"required"`
	Description  string       `json:"description"`
	Priority     TaskPriority `json:"priority"`
	DueDate      *time.Time   `json:"due_date"`
	AssignedToID string       `json:"assigned_to_id" binding:"required"`
}

type UpdateTaskInput struct {
	Title          *string       `json:"title"`
	Description    *string       `json:"description"`
	Priority       *TaskPriority `json:"priority"`
	DueDate        *time.Time    `json:"due_date"`
	AssignedToID   *string       `json:"assigned_to_id"`
	Status         *TaskStatus   `json:"status"`
	CompletionNote string        `json:"completion_note"`
}
