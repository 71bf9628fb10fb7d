package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyStatus_StampsOnCompletion(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	task := Task{Status: TaskStatusPending}

	task.ApplyStatus(TaskStatusCompleted, now)

	assert.Equal(t, TaskStatusCompleted, task.Status)
	assert.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)
}

func TestApplyStatus_NoStampOnNonCompletion(t *testing.T) {
	now := time.Now()
	task := Task{Status: TaskStatusPending}

	task.ApplyStatus(TaskStatusInProgress, now)

	assert.Equal(t, TaskStatusInProgress, task.Status)
	assert.Nil(t, task.CompletedAt)
}

func TestApplyStatus_CompletedToCompletedKeepsStamp(t *testing.T) {
	first := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	task := Task{Status: TaskStatusPending}
	task.ApplyStatus(TaskStatusCompleted, first)
	task.ApplyStatus(TaskStatusCompleted, later)

	assert.Equal(t, first, *task.CompletedAt)
}

func TestApplyStatus_ReopenKeepsStamp(t *testing.T) {
	first := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	task := Task{Status: TaskStatusPending}
	task.ApplyStatus(TaskStatusCompleted, first)
	task.ApplyStatus(TaskStatusInProgress, later)

	assert.Equal(t, TaskStatusInProgress, task.Status)
	assert.NotNil(t, task.CompletedAt, "reopening must not clear the stamp")
	assert.Equal(t, first, *task.CompletedAt)
}

func TestApplyStatus_RecompletionRestamps(t *testing.T) {
	first := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	task := Task{Status: TaskStatusPending}
	task.ApplyStatus(TaskStatusCompleted, first)
	task.ApplyStatus(TaskStatusPending, first.Add(time.Hour))
	task.ApplyStatus(TaskStatusCompleted, second)

	assert.Equal(t, second, *task.CompletedAt, "a fresh transition into completed re-stamps")
}

func TestParseTaskStatus(t *testing.T) {
	for _, valid := range []string{"pending", "in-progress", "completed"} {
		status, ok := ParseTaskStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, TaskStatus(valid), status)
	}

	for _, invalid := range []string{"", "done", "PENDING", "in_progress", "archived"} {
		_, ok := ParseTaskStatus(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParseTaskPriority(t *testing.T) {
	for _, valid := range []string{"low", "medium", "high"} {
		priority, ok := ParseTaskPriority(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, TaskPriority(valid), priority)
	}

	for _, invalid := range []string{"", "urgent", "High", "critical"} {
		_, ok := ParseTaskPriority(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "company", "user"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "superadmin", "Admin", "manager"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}
