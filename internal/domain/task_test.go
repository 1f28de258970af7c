package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	now := time.Now()
	base := NewTaskParams{
		ID: "task-1", FirmID: "firm-1", EventID: "event-1", AssignedTo: "user-1",
		Title: "Edit highlights", TaskType: "editing",
	}

	task, err := NewTask(base, now)
	require.NoError(t, err)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.Equal(t, TaskPriorityMedium, task.Priority)
	assert.Nil(t, task.CompletedAt)

	missing := base
	missing.AssignedTo = ""
	_, err = NewTask(missing, now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTask_SetStatus(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	task := &Task{Status: TaskStatusPending}

	task.SetStatus(TaskStatusCompleted, now)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	for _, s := range []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusOverdue} {
		task.SetStatus(TaskStatusCompleted, now)
		task.SetStatus(s, now.Add(time.Minute))
		assert.Nil(t, task.CompletedAt, s)
		assert.Equal(t, s, task.Status)
	}
}

func TestTask_IsOverdueAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&Task{Status: TaskStatusPending, DueDate: &past}).IsOverdueAt(now))
	assert.True(t, (&Task{Status: TaskStatusInProgress, DueDate: &past}).IsOverdueAt(now))
	assert.False(t, (&Task{Status: TaskStatusCompleted, DueDate: &past}).IsOverdueAt(now))
	assert.False(t, (&Task{Status: TaskStatusPending, DueDate: &future}).IsOverdueAt(now))
	assert.False(t, (&Task{Status: TaskStatusPending}).IsOverdueAt(now))
}

func TestParseTaskPriority(t *testing.T) {
	p, err := ParseTaskPriority("")
	require.NoError(t, err)
	assert.Equal(t, TaskPriorityMedium, p)

	p, err = ParseTaskPriority("URGENT")
	require.NoError(t, err)
	assert.Equal(t, TaskPriorityUrgent, p)

	_, err = ParseTaskPriority("critical")
	assert.ErrorIs(t, err, ErrValidation)
}
