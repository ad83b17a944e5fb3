package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/models"
)

// in-memory fakes

type fakeTaskRepo struct {
	tasks    map[string]*models.Task
	comments []models.TaskComment
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*models.Task{}}
}

func (r *fakeTaskRepo) Store(ctx context.Context, task *models.Task) error {
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) FindByID(ctx context.Context, id string) (*models.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) FindAll(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]models.Task, int, error) {
	var out []models.Task
	for _, t := range r.tasks {
		if filter.VisibleToID != "" && t.CreatedByID != filter.VisibleToID && t.AssignedToID != filter.VisibleToID {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (r *fakeTaskRepo) Update(ctx context.Context, task *models.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return errors.New("no such task")
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) StoreComment(ctx context.Context, comment *models.TaskComment) error {
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeTaskRepo) FindComments(ctx context.Context, taskID string, limit, offset int) ([]models.TaskComment, int, error) {
	var out []models.TaskComment
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (r *fakeTaskRepo) CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	m := map[models.TaskStatus]int{}
	for _, t := range r.tasks {
		m[t.Status]++
	}
	return m, nil
}

func (r *fakeTaskRepo) CountByPriority(ctx context.Context) (map[models.TaskPriority]int, error) {
	m := map[models.TaskPriority]int{}
	for _, t := range r.tasks {
		m[t.Priority]++
	}
	return m, nil
}

func (r *fakeTaskRepo) CountOverdue(ctx context.Context) (int, error) { return 0, nil }

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter models.UserFilter, limit, offset int) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) ListActive(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Deactivate(ctx context.Context, id string) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

func (r *fakeUserRepo) GetCount(ctx context.Context) (int, error) { return len(r.users), nil }

func (r *fakeUserRepo) GetCountByRole(ctx context.Context, role models.Role) (int, error) {
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) UpdateRefresh(ctx context.Context, id, token string, expiresAt time.Time) error {
	if u, ok := r.users[id]; ok {
		u.RefreshToken = &token
		u.RefreshExpiresAt = &expiresAt
		u.RefreshRevoked = false
	}
	return nil
}

func (r *fakeUserRepo) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	for _, u := range r.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) RevokeRefresh(ctx context.Context, id string) error {
	if u, ok := r.users[id]; ok {
		u.RefreshRevoked = true
	}
	return nil
}

type recordingNotifier struct {
	assigned      []string
	statusChanges []string
}

func (n *recordingNotifier) TaskAssigned(ctx context.Context, task *models.Task) {
	n.assigned = append(n.assigned, task.ID)
}

func (n *recordingNotifier) TaskStatusChanged(ctx context.Context, task *models.Task, from models.TaskStatus) {
	n.statusChanges = append(n.statusChanges, task.ID)
}

// fixture

var (
	admin   = &models.User{ID: "u-admin", Role: models.RoleAdmin, IsActive: true}
	editor  = &models.User{ID: "u-editor", Role: models.RoleEditor, IsActive: true}
	viewer  = &models.User{ID: "u-viewer", Role: models.RoleViewer, IsActive: true}
	partner = &models.User{ID: "u-partner", Role: models.RolePartner, IsActive: true}
)

func newTestTaskService(t *testing.T) (TaskService, *fakeTaskRepo, *fakeUserRepo, *recordingNotifier) {
	t.Helper()
	taskRepo := newFakeTaskRepo()
	userRepo := newFakeUserRepo(admin, editor, viewer, partner)
	notifier := &recordingNotifier{}
	svc := NewTaskService(taskRepo, userRepo, notifier)
	return svc, taskRepo, userRepo, notifier
}

func futureDate() *time.Time {
	t := time.Now().Add(48 * time.Hour)
	return &t
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("editor assigns down the hierarchy", func(t *testing.T) {
		svc, repo, _, notifier := newTestTaskService(t)

		task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
			Title:        "Follow up with the new partner",
			AssignedToID: viewer.ID,
			DueDate:      futureDate(),
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusNotStarted, task.Status)
		assert.Equal(t, models.PriorityMedium, task.Priority)
		assert.Equal(t, editor.ID, task.CreatedByID)
		assert.Equal(t, viewer.ID, task.AssignedToID)
		assert.NotEmpty(t, task.ID)

		stored, _ := repo.FindByID(ctx, task.ID)
		require.NotNil(t, stored)
		assert.Equal(t, []string{task.ID}, notifier.assigned)
	})

	t.Run("upward assignment is rejected", func(t *testing.T) {
		svc, _, _, _ := newTestTaskService(t)

		_, err := svc.Create(ctx, *viewer, models.CreateTaskInput{
			Title:        "Escalate",
			AssignedToID: editor.ID,
		})
		var invalidAssignee *models.InvalidAssigneeError
		require.ErrorAs(t, err, &invalidAssignee)
		assert.Equal(t, models.RoleViewer, invalidAssignee.AssignerRole)
		assert.Equal(t, models.RoleEditor, invalidAssignee.AssigneeRole)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		svc, _, _, _ := newTestTaskService(t)

		_, err := svc.Create(ctx, *admin, models.CreateTaskInput{
			Title:        "Ghost",
			AssignedToID: "u-nobody",
		})
		var notFound *models.AssigneeNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "u-nobody", notFound.UserID)
	})

	t.Run("inactive assignee", func(t *testing.T) {
		svc, _, userRepo, _ := newTestTaskService(t)
		require.NoError(t, userRepo.Deactivate(ctx, partner.ID))

		_, err := svc.Create(ctx, *admin, models.CreateTaskInput{
			Title:        "For a ghost",
			AssignedToID: partner.ID,
		})
		var inactive *models.InactiveAssigneeError
		require.ErrorAs(t, err, &inactive)
	})

	t.Run("past due date", func(t *testing.T) {
		svc, _, _, _ := newTestTaskService(t)
		past := time.Now().Add(-time.Hour)

		_, err := svc.Create(ctx, *admin, models.CreateTaskInput{
			Title:        "Yesterday",
			AssignedToID: editor.ID,
			DueDate:      &past,
		})
		var badDue *models.InvalidDueDateError
		require.ErrorAs(t, err, &badDue)
	})
}

func TestTaskVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestTaskService(t)

	task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
		Title:        "Visible to creator and assignee",
		AssignedToID: viewer.ID,
	})
	require.NoError(t, err)

	t.Run("creator can view", func(t *testing.T) {
		got, err := svc.GetByID(ctx, *editor, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, got.ID)
	})

	t.Run("assignee can view", func(t *testing.T) {
		_, err := svc.GetByID(ctx, *viewer, task.ID)
		require.NoError(t, err)
	})

	t.Run("admin can view anything", func(t *testing.T) {
		_, err := svc.GetByID(ctx, *admin, task.ID)
		require.NoError(t, err)
	})

	t.Run("unrelated user is denied", func(t *testing.T) {
		_, err := svc.GetByID(ctx, *partner, task.ID)
		var unauthorized *models.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := svc.GetByID(ctx, *admin, "t-missing")
		var notFound *models.TaskNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("non-admin list is scoped", func(t *testing.T) {
		tasks, total, err := svc.List(ctx, *partner, models.TaskFilter{}, 20, 0)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, tasks)
	})
}

func TestUpdateStatusFlow(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (TaskService, *models.Task, *recordingNotifier) {
		svc, _, _, notifier := newTestTaskService(t)
		task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
			Title:        "Status machine",
			AssignedToID: viewer.ID,
		})
		require.NoError(t, err)
		notifier.assigned = nil
		return svc, task, notifier
	}

	t.Run("assignee moves task forward", func(t *testing.T) {
		svc, task, notifier := setup(t)

		got, err := svc.UpdateStatus(ctx, *viewer, task.ID, models.StatusInProgress, "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, got.Status)
		assert.Equal(t, []string{task.ID}, notifier.statusChanges)
	})

	t.Run("completion requires a note", func(t *testing.T) {
		svc, task, _ := setup(t)
		_, err := svc.UpdateStatus(ctx, *viewer, task.ID, models.StatusInProgress, "")
		require.NoError(t, err)

		_, err = svc.UpdateStatus(ctx, *viewer, task.ID, models.StatusCompleted, "   ")
		var missingNote *models.MissingCompletionNoteError
		require.ErrorAs(t, err, &missingNote)

		got, err := svc.UpdateStatus(ctx, *viewer, task.ID, models.StatusCompleted, "shipped")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
		assert.Equal(t, "shipped", got.CompletionNote)
		require.NotNil(t, got.CompletedAt)
	})

	t.Run("invalid transition", func(t *testing.T) {
		svc, task, _ := setup(t)

		_, err := svc.UpdateStatus(ctx, *viewer, task.ID, models.StatusCompleted, "early")
		var badTransition *models.InvalidStatusTransitionError
		require.ErrorAs(t, err, &badTransition)
		assert.Equal(t, models.StatusNotStarted, badTransition.From)
		assert.Equal(t, models.StatusCompleted, badTransition.To)
	})

	t.Run("bystander cannot change status", func(t *testing.T) {
		svc, task, _ := setup(t)

		_, err := svc.UpdateStatus(ctx, *partner, task.ID, models.StatusInProgress, "")
		var unauthorized *models.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})

	t.Run("self transition does not notify", func(t *testing.T) {
		svc, task, notifier := setup(t)

		got, err := svc.UpdateStatus(ctx, *viewer, task.ID, models.StatusNotStarted, "")
		require.NoError(t, err)
		assert.Equal(t, models.StatusNotStarted, got.Status)
		assert.Empty(t, notifier.statusChanges)
	})
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()

	t.Run("assignee cannot edit fields", func(t *testing.T) {
		svc, _, _, _ := newTestTaskService(t)
		task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
			Title:        "Editable",
			AssignedToID: viewer.ID,
		})
		require.NoError(t, err)

		newTitle := "Renamed"
		_, err = svc.Update(ctx, *viewer, task.ID, models.UpdateTaskInput{Title: &newTitle})
		var unauthorized *models.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})

	t.Run("creator edits title and priority", func(t *testing.T) {
		svc, _, _, _ := newTestTaskService(t)
		task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
			Title:        "Editable",
			AssignedToID: viewer.ID,
		})
		require.NoError(t, err)

		newTitle := "Renamed"
		urgent := models.PriorityUrgent
		got, err := svc.Update(ctx, *editor, task.ID, models.UpdateTaskInput{
			Title:    &newTitle,
			Priority: &urgent,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, models.PriorityUrgent, got.Priority)
	})

	t.Run("reassignment revalidates hierarchy", func(t *testing.T) {
		svc, _, _, _ := newTestTaskService(t)
		task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
			Title:        "Reassign me",
			AssignedToID: viewer.ID,
		})
		require.NoError(t, err)

		adminID := admin.ID
		_, err = svc.Update(ctx, *editor, task.ID, models.UpdateTaskInput{AssignedToID: &adminID})
		var invalidAssignee *models.InvalidAssigneeError
		require.ErrorAs(t, err, &invalidAssignee)
	})
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := newTestTaskService(t)

	task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
		Title:        "Short-lived",
		AssignedToID: viewer.ID,
	})
	require.NoError(t, err)

	t.Run("assignee cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, *viewer, task.ID)
		var unauthorized *models.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})

	t.Run("creator deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, *editor, task.ID))
		got, _ := repo.FindByID(ctx, task.ID)
		assert.Nil(t, got)
	})
}

func TestTaskComments(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestTaskService(t)

	task, err := svc.Create(ctx, *editor, models.CreateTaskInput{
		Title:        "Discussed",
		AssignedToID: viewer.ID,
	})
	require.NoError(t, err)

	t.Run("participants can comment", func(t *testing.T) {
		c, err := svc.AddComment(ctx, *viewer, task.ID, "on it")
		require.NoError(t, err)
		assert.Equal(t, viewer.ID, c.UserID)

		comments, total, err := svc.ListComments(ctx, *editor, task.ID, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, comments, 1)
		assert.Equal(t, "on it", comments[0].Comment)
	})

	t.Run("empty comment is rejected", func(t *testing.T) {
		_, err := svc.AddComment(ctx, *viewer, task.ID, "   ")
		require.Error(t, err)
	})

	t.Run("outsiders cannot comment", func(t *testing.T) {
		_, err := svc.AddComment(ctx, *partner, task.ID, "hi")
		var unauthorized *models.UnauthorizedError
		require.ErrorAs(t, err, &unauthorized)
	})
}

func TestAssignableUsersEndpointSemantics(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestTaskService(t)

	users, err := svc.AssignableUsers(ctx, *editor)
	require.NoError(t, err)

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.NotContains(t, ids, editor.ID)
	assert.NotContains(t, ids, admin.ID)
	assert.ElementsMatch(t, []string{viewer.ID, partner.ID}, ids)
}
