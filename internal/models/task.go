package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus decodes a status string into the closed enum.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), true
	}
	return "", false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority decodes a priority string into the closed enum.
func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), true
	}
	return "", false
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	CreatorID   uint64       `gorm:"column:user_id;not null;index" json:"creator_id"`
	CompanyID   *uint64      `gorm:"index" json:"company_id"`
	AssignedTo  *uint64      `gorm:"index" json:"assigned_to"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	DueDate     *time.Time   `json:"due_date"`
	Notes       string       `gorm:"type:text" json:"notes"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Creator  User     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Company  *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Assignee *User    `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
}

// ApplyStatus moves the task to the next status and stamps CompletedAt on
// the transition into completed. The timestamp is sticky: it is neither
// refreshed while the task stays completed nor cleared when the task moves
// back to an earlier status.
func (t *Task) ApplyStatus(next TaskStatus, now time.Time) {
	if next == TaskStatusCompleted && t.Status != TaskStatusCompleted {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	t.Status = next
}
