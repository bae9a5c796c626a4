package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	minPrice := 500000.0
	filter := &SourceAFilter{MinPrice: &minPrice}

	task, err := NewTask("bay area sweep", true, false, filter, nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "bay area sweep", task.Name)
	assert.Equal(t, TaskStatusPending, task.Status)
	assert.True(t, task.SourceAEnabled)
	assert.False(t, task.SourceBEnabled)
	assert.Same(t, filter, task.SourceAFilter)
	assert.Nil(t, task.SourceBFilter)
	assert.Nil(t, task.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), task.CreatedAt, time.Minute)
}

func TestNewTask_EmptyName(t *testing.T) {
	task, err := NewTask("", true, true, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTaskName)
	assert.Nil(t, task)
}

func TestTaskValidate(t *testing.T) {
	now := time.Now().UTC()

	valid := func() *Task {
		return &Task{
			ID:        uuid.New(),
			Name:      "all sources",
			Status:    TaskStatusPending,
			CreatedAt: now,
		}
	}

	tests := []struct {
		name    string
		mutate  func(task *Task)
		wantErr error
	}{
		{
			name:    "valid pending task",
			mutate:  func(task *Task) {},
			wantErr: nil,
		},
		{
			name:    "missing ID",
			mutate:  func(task *Task) { task.ID = uuid.Nil },
			wantErr: ErrEmptyTaskID,
		},
		{
			name:    "unknown status",
			mutate:  func(task *Task) { task.Status = "paused" },
			wantErr: ErrInvalidTaskStatus,
		},
		{
			name: "completed without completion time",
			mutate: func(task *Task) {
				task.Status = TaskStatusCompleted
			},
			wantErr: ErrTaskCompletedAtState,
		},
		{
			name: "failed with completion time",
			mutate: func(task *Task) {
				task.Status = TaskStatusFailed
				task.CompletedAt = &now
			},
			wantErr: ErrTaskCompletedAtState,
		},
		{
			name: "completed with completion time",
			mutate: func(task *Task) {
				task.Status = TaskStatusCompleted
				task.CompletedAt = &now
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid()
			tt.mutate(task)
			err := task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTaskStatusIsTerminal(t *testing.T) {
	assert.False(t, TaskStatusPending.IsTerminal())
	assert.False(t, TaskStatusInProgress.IsTerminal())
	assert.True(t, TaskStatusCompleted.IsTerminal())
	assert.True(t, TaskStatusFailed.IsTerminal())
}
