package models

import (
	"fmt"
	"time"
)

// Fixed error-message strings returned to API clients. Existing callers parse
// these, so the text must not change.
const (
	MsgInvalidAssignee         = "Cannot assign task to user at same or higher level"
	MsgTaskNotFound            = "Task not found or access denied"
	MsgInvalidStatusTransition = "Invalid status transition"
	MsgMissingCompletionNote   = "Completion note required when marking task complete"
	MsgUnauthorized            = "Insufficient permissions for this operation"
	MsgInvalidDueDate          = "Due date must be in the future"
)

// UnauthorizedError: the actor lacks permission for the requested operation.
type UnauthorizedError struct {
	Op string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("insufficient permissions: %s", e.Op)
}

// InvalidAssigneeError: assignment violates the role hierarchy. Carries both
// roles so the caller can log or display them.
type InvalidAssigneeError struct {
	AssignerRole Role
	AssigneeRole Role
}

func (e *InvalidAssigneeError) Error() string {
	return fmt.Sprintf("users with role %s cannot assign tasks to users with role %s",
		e.AssignerRole, e.AssigneeRole)
}

// InvalidStatusTransitionError: the requested transition is not in the table.
type InvalidStatusTransitionError struct {
	From TaskStatus
	To   TaskStatus
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// MissingCompletionNoteError: a task was marked COMPLETED without a note.
type MissingCompletionNoteError struct{}

func (e *MissingCompletionNoteError) Error() string {
	return MsgMissingCompletionNote
}

// InvalidDueDateError: due date is not strictly in the future.
type InvalidDueDateError struct {
	DueDate time.Time
}

func (e *InvalidDueDateError) Error() string {
	return fmt.Sprintf("due date %s is not in the future", e.DueDate.Format(time.RFC3339))
}

// InactiveAssigneeError: the target user account is deactivated.
type InactiveAssigneeError struct {
	UserID string
}

func (e *InactiveAssigneeError) Error() string {
	return fmt.Sprintf("cannot assign task to inactive user %s", e.UserID)
}

// TaskNotFoundError doubles as access-denied for viewers without permission,
// so a probing client cannot distinguish hidden tasks from missing ones.
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.TaskID)
}

// AssigneeNotFoundError: the requested assignee does not exist.
type AssigneeNotFoundError struct {
	UserID string
}

func (e *AssigneeNotFoundError) Error() string {
	return fmt.Sprintf("assigned user %s not found", e.UserID)
}
