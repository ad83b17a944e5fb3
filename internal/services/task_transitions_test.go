package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.TaskStatus
		want     bool
	}{
		{models.StatusNotStarted, models.StatusInProgress, true},
		{models.StatusNotStarted, models.StatusOnHold, true},
		{models.StatusNotStarted, models.StatusCompleted, false},
		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusInProgress, models.StatusOnHold, true},
		{models.StatusInProgress, models.StatusNotStarted, true},
		{models.StatusOnHold, models.StatusInProgress, true},
		{models.StatusOnHold, models.StatusNotStarted, true},
		{models.StatusOnHold, models.StatusCompleted, false},
		{models.StatusCompleted, models.StatusInProgress, false},
		{models.StatusCompleted, models.StatusNotStarted, false},
		{models.StatusCompleted, models.StatusOnHold, false},
		// self-transitions always pass, even from the terminal state
		{models.StatusCompleted, models.StatusCompleted, true},
		{models.StatusOnHold, models.StatusOnHold, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestApplyStatusTransition_Completed(t *testing.T) {
	now := time.Now()
	task := &models.Task{Status: models.StatusOnHold}

	// ON_HOLD has no edge to COMPLETED
	err := ApplyStatusTransition(task, models.StatusCompleted, "done", now)
	var trErr *models.InvalidStatusTransitionError
	require.ErrorAs(t, err, &trErr)
	assert.Equal(t, models.StatusOnHold, trErr.From)
	assert.Equal(t, models.StatusCompleted, trErr.To)

	task.Status = models.StatusInProgress

	// missing note
	err = ApplyStatusTransition(task, models.StatusCompleted, "", now)
	var noteErr *models.MissingCompletionNoteError
	require.ErrorAs(t, err, &noteErr)
	assert.Equal(t, models.StatusInProgress, task.Status, "failed transition must not mutate status")
	assert.Nil(t, task.CompletedAt)

	// whitespace-only note counts as missing
	err = ApplyStatusTransition(task, models.StatusCompleted, "   ", now)
	require.ErrorAs(t, err, &noteErr)

	// with note
	require.NoError(t, ApplyStatusTransition(task, models.StatusCompleted, "finished", now))
	assert.Equal(t, models.StatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
	assert.Equal(t, "finished", task.CompletionNote)
	assert.Equal(t, now, task.UpdatedAt)
}

func TestApplyStatusTransition_TerminalCompleted(t *testing.T) {
	now := time.Now()
	for _, to := range []models.TaskStatus{models.StatusNotStarted, models.StatusInProgress, models.StatusOnHold} {
		task := &models.Task{Status: models.StatusCompleted}
		err := ApplyStatusTransition(task, to, "", now)
		var trErr *models.InvalidStatusTransitionError
		require.ErrorAs(t, err, &trErr, "COMPLETED -> %s must fail", to)
	}
}

func TestApplyStatusTransition_SelfTransition(t *testing.T) {
	now := time.Now()
	task := &models.Task{Status: models.StatusCompleted}

	// no table check, no completion side effects
	require.NoError(t, ApplyStatusTransition(task, models.StatusCompleted, "", now))
	assert.Nil(t, task.CompletedAt)
	assert.Empty(t, task.CompletionNote)
	assert.Equal(t, now, task.UpdatedAt)

	task = &models.Task{Status: models.StatusInProgress}
	require.NoError(t, ApplyStatusTransition(task, models.StatusInProgress, "ignored", now))
	assert.Equal(t, models.StatusInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestValidateDueDate(t *testing.T) {
	now := time.Now()

	require.NoError(t, ValidateDueDate(nil, now))

	future := now.Add(time.Hour)
	require.NoError(t, ValidateDueDate(&future, now))

	past := now.Add(-time.Minute)
	var dueErr *models.InvalidDueDateError
	require.ErrorAs(t, ValidateDueDate(&past, now), &dueErr)

	// strictly greater: equal to now is rejected
	exact := now
	require.ErrorAs(t, ValidateDueDate(&exact, now), &dueErr)
	assert.Equal(t, now, dueErr.DueDate)
}
