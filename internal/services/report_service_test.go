package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/models"
)

func TestGetSummary(t *testing.T) {
	ctx := context.Background()

	userRepo := newFakeUserRepo(admin, editor, viewer, partner)
	taskRepo := newFakeTaskRepo()
	leadRepo := newFakeLeadRepo()

	now := time.Now()
	for i, status := range []models.TaskStatus{
		models.StatusCompleted, models.StatusCompleted,
		models.StatusInProgress, models.StatusNotStarted,
	} {
		require.NoError(t, taskRepo.Store(ctx, &models.Task{
			ID:           string(rune('a' + i)),
			Title:        "t",
			Status:       status,
			Priority:     models.PriorityMedium,
			CreatedByID:  admin.ID,
			AssignedToID: editor.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}))
	}
	require.NoError(t, leadRepo.Create(ctx, &models.Lead{ID: "l1", Rating: models.RatingHot}))
	require.NoError(t, leadRepo.Create(ctx, &models.Lead{ID: "l2", Rating: models.RatingCold}))

	svc := NewReportService(userRepo, taskRepo, leadRepo)
	sum, err := svc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, sum.TotalUsers)
	assert.Equal(t, 1, sum.UsersByRole[models.RoleAdmin])
	assert.Equal(t, 4, sum.TotalTasks)
	assert.Equal(t, 2, sum.TasksByStatus[models.StatusCompleted])
	assert.InDelta(t, 0.5, sum.CompletionRate, 1e-9)
	assert.Equal(t, 2, sum.TotalLeads)
	assert.Equal(t, 1, sum.LeadsByRating[models.RatingHot])
}

func TestGetTaskAnalytics(t *testing.T) {
	ctx := context.Background()
	taskRepo := newFakeTaskRepo()

	svc := NewReportService(newFakeUserRepo(), taskRepo, newFakeLeadRepo())

	t.Run("empty store", func(t *testing.T) {
		ta, err := svc.GetTaskAnalytics(ctx)
		require.NoError(t, err)
		assert.Zero(t, ta.Total)
		assert.Zero(t, ta.CompletionRate)
	})

	t.Run("with tasks", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, taskRepo.Store(ctx, &models.Task{
			ID: "t1", Title: "t", Status: models.StatusCompleted,
			Priority: models.PriorityHigh, CreatedAt: now, UpdatedAt: now,
		}))
		require.NoError(t, taskRepo.Store(ctx, &models.Task{
			ID: "t2", Title: "t", Status: models.StatusOnHold,
			Priority: models.PriorityLow, CreatedAt: now, UpdatedAt: now,
		}))

		ta, err := svc.GetTaskAnalytics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, ta.Total)
		assert.Equal(t, 1, ta.ByPriority[models.PriorityHigh])
		assert.InDelta(t, 0.5, ta.CompletionRate, 1e-9)
	})
}
