package services

import (
	"strings"
	"time"

	"crmhub/internal/models"
)

// Allowed task status transitions. COMPLETED is terminal.
var taskTransitions = map[models.TaskStatus]map[models.TaskStatus]bool{
	models.StatusNotStarted: {models.StatusInProgress: true, models.StatusOnHold: true},
	models.StatusInProgress: {models.StatusCompleted: true, models.StatusOnHold: true, models.StatusNotStarted: true},
	models.StatusOnHold:     {models.StatusInProgress: true, models.StatusNotStarted: true},
	models.StatusCompleted:  {},
}

// CanTransition reports whether from -> to is an allowed edge. A no-op
// transition (from == to) is always accepted and never checked against
// the table.
func CanTransition(from, to models.TaskStatus) bool {
	if from == to {
		return true
	}
	nexts, ok := taskTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

// ApplyStatusTransition validates the requested transition and applies it to
// the task in place. Entering COMPLETED requires a non-empty completion note
// and stamps CompletedAt. The function knows nothing about the caller's role;
// authorization happens before it is invoked.
func ApplyStatusTransition(task *models.Task, to models.TaskStatus, completionNote string, now time.Time) error {
	if to == task.Status {
		// other fields may still be updated by the caller
		task.UpdatedAt = now
		return nil
	}
	if !CanTransition(task.Status, to) {
		return &models.InvalidStatusTransitionError{From: task.Status, To: to}
	}
	if to == models.StatusCompleted && strings.TrimSpace(completionNote) == "" {
		return &models.MissingCompletionNoteError{}
	}

	task.Status = to
	if to == models.StatusCompleted {
		completed := now
		task.CompletedAt = &completed
		task.CompletionNote = completionNote
	}
	task.UpdatedAt = now
	return nil
}

// ValidateDueDate rejects due dates at or before now. Applies to every write
// that carries a due date, independent of status transitions.
func ValidateDueDate(due *time.Time, now time.Time) error {
	if due == nil {
		return nil
	}
	if !due.After(now) {
		return &models.InvalidDueDateError{DueDate: *due}
	}
	return nil
}
