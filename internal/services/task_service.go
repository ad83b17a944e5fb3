package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"crmhub/internal/authz"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

const maxCommentLength = 2000

// TaskService defines the interface for task-related business logic. Every
// operation takes the acting user; authorization runs before any mutation.
type TaskService interface {
	Create(ctx context.Context, actor models.User, in models.CreateTaskInput) (*models.Task, error)
	GetByID(ctx context.Context, actor models.User, id string) (*models.Task, error)
	List(ctx context.Context, actor models.User, filter models.TaskFilter, limit, offset int) ([]models.Task, int, error)
	Update(ctx context.Context, actor models.User, id string, in models.UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, actor models.User, id string) error
	UpdateStatus(ctx context.Context, actor models.User, id string, to models.TaskStatus, completionNote string) (*models.Task, error)
	UpdateAssignee(ctx context.Context, actor models.User, id, assigneeID string) (*models.Task, error)
	AddComment(ctx context.Context, actor models.User, id, text string) (*models.TaskComment, error)
	ListComments(ctx context.Context, actor models.User, id string, limit, offset int) ([]models.TaskComment, int, error)
	AssignableUsers(ctx context.Context, actor models.User) ([]models.User, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	users    repositories.UserRepository
	notifier TaskNotifier
	now      func() time.Time
}

// TaskNotifier delivers task event notifications. May be a no-op.
type TaskNotifier interface {
	TaskAssigned(ctx context.Context, task *models.Task)
	TaskStatusChanged(ctx context.Context, task *models.Task, from models.TaskStatus)
}

// NewTaskService creates a new instance of TaskService. notifier may be nil.
func NewTaskService(repo repositories.TaskRepository, users repositories.UserRepository, notifier TaskNotifier) TaskService {
	return &taskService{repo: repo, users: users, notifier: notifier, now: time.Now}
}

func (s *taskService) Create(ctx context.Context, actor models.User, in models.CreateTaskInput) (*models.Task, error) {
	assignee, err := s.loadAssignee(ctx, in.AssignedToID)
	if err != nil {
		return nil, err
	}
	if err := authz.ValidateTaskAssignment(actor.Role, assignee.Role); err != nil {
		return nil, err
	}
	now := s.now()
	if err := ValidateDueDate(in.DueDate, now); err != nil {
		return nil, err
	}

	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, fmt.Errorf("invalid priority %q", in.Priority)
	}

	task := &models.Task{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		Status:       models.StatusNotStarted,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
		CreatedByID:  actor.ID,
		AssignedToID: assignee.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TaskAssigned(ctx, task)
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, actor models.User, id string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &models.TaskNotFoundError{TaskID: id}
	}
	if !authz.CanViewTask(actor, task) {
		return nil, &models.UnauthorizedError{Op: "view task"}
	}

	comments, _, err := s.repo.FindComments(ctx, id, 100, 0)
	if err != nil {
		return nil, err
	}
	task.Comments = comments
	return task, nil
}

func (s *taskService) List(ctx context.Context, actor models.User, filter models.TaskFilter, limit, offset int) ([]models.Task, int, error) {
	// non-admins only see tasks they created or are assigned to
	if actor.Role != models.RoleAdmin {
		filter.VisibleToID = actor.ID
	}
	return s.repo.FindAll(ctx, filter, limit, offset)
}

func (s *taskService) Update(ctx context.Context, actor models.User, id string, in models.UpdateTaskInput) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &models.TaskNotFoundError{TaskID: id}
	}
	if !authz.CanEditTask(actor, task) {
		return nil, &models.UnauthorizedError{Op: "edit task"}
	}

	now := s.now()
	update := *task

	if in.AssignedToID != nil && *in.AssignedToID != task.AssignedToID {
		assignee, err := s.loadAssignee(ctx, *in.AssignedToID)
		if err != nil {
			return nil, err
		}
		if err := authz.ValidateTaskAssignment(actor.Role, assignee.Role); err != nil {
			return nil, err
		}
		update.AssignedToID = assignee.ID
	}
	if in.DueDate != nil {
		if err := ValidateDueDate(in.DueDate, now); err != nil {
			return nil, err
		}
		update.DueDate = in.DueDate
	}
	if in.Title != nil {
		update.Title = *in.Title
	}
	if in.Description != nil {
		update.Description = *in.Description
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("invalid priority %q", *in.Priority)
		}
		update.Priority = *in.Priority
	}

	fromStatus := task.Status
	if in.Status != nil {
		if err := ApplyStatusTransition(&update, *in.Status, in.CompletionNote, now); err != nil {
			return nil, err
		}
	} else {
		update.UpdatedAt = now
	}

	if err := s.repo.Update(ctx, &update); err != nil {
		return nil, err
	}

	if s.notifier != nil && in.Status != nil && update.Status != fromStatus {
		s.notifier.TaskStatusChanged(ctx, &update, fromStatus)
	}
	return &update, nil
}

func (s *taskService) Delete(ctx context.Context, actor models.User, id string) error {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return &models.TaskNotFoundError{TaskID: id}
	}
	if !authz.CanDeleteTask(actor, task) {
		return &models.UnauthorizedError{Op: "delete task"}
	}
	return s.repo.Delete(ctx, id)
}

func (s *taskService) UpdateStatus(ctx context.Context, actor models.User, id string, to models.TaskStatus, completionNote string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &models.TaskNotFoundError{TaskID: id}
	}
	if !authz.CanUpdateTaskStatus(actor, task) {
		return nil, &models.UnauthorizedError{Op: "update task status"}
	}

	from := task.Status
	if err := ApplyStatusTransition(task, to, completionNote, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.notifier != nil && task.Status != from {
		s.notifier.TaskStatusChanged(ctx, task, from)
	}
	return task, nil
}

func (s *taskService) UpdateAssignee(ctx context.Context, actor models.User, id, assigneeID string) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &models.TaskNotFoundError{TaskID: id}
	}
	if !authz.CanEditTask(actor, task) {
		return nil, &models.UnauthorizedError{Op: "assign task"}
	}

	assignee, err := s.loadAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if err := authz.ValidateTaskAssignment(actor.Role, assignee.Role); err != nil {
		return nil, err
	}

	task.AssignedToID = assignee.ID
	task.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TaskAssigned(ctx, task)
	}
	return task, nil
}

func (s *taskService) AddComment(ctx context.Context, actor models.User, id, text string) (*models.TaskComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment cannot be empty")
	}
	if len(text) > maxCommentLength {
		return nil, fmt.Errorf("comment too long (max %d characters)", maxCommentLength)
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &models.TaskNotFoundError{TaskID: id}
	}
	if !authz.CanViewTask(actor, task) {
		return nil, &models.UnauthorizedError{Op: "comment on task"}
	}

	comment := &models.TaskComment{
		ID:        uuid.NewString(),
		TaskID:    id,
		UserID:    actor.ID,
		Comment:   text,
		CreatedAt: s.now(),
	}
	if err := s.repo.StoreComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *taskService) ListComments(ctx context.Context, actor models.User, id string, limit, offset int) ([]models.TaskComment, int, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if task == nil {
		return nil, 0, &models.TaskNotFoundError{TaskID: id}
	}
	if !authz.CanViewTask(actor, task) {
		return nil, 0, &models.UnauthorizedError{Op: "view task comments"}
	}
	return s.repo.FindComments(ctx, id, limit, offset)
}

func (s *taskService) AssignableUsers(ctx context.Context, actor models.User) ([]models.User, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return authz.GetAssignableUsers(actor, users), nil
}

func (s *taskService) loadAssignee(ctx context.Context, id string) (*models.User, error) {
	assignee, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, &models.AssigneeNotFoundError{UserID: id}
	}
	if !assignee.IsActive {
		return nil, &models.InactiveAssigneeError{UserID: id}
	}
	return assignee, nil
}
