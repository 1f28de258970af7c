package domain

import (
	"strings"
	"time"
)

// TaskStatus is the state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOverdue    TaskStatus = "overdue"
)

// ParseTaskStatus converts untrusted input into a TaskStatus
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusOverdue:
		return st, nil
	default:
		return "", NewValidationError("status", "must be one of pending, in_progress, completed, overdue")
	}
}

// IsOpen reports whether work on the task is still outstanding
func (s TaskStatus) IsOpen() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

// TaskPriority ranks tasks
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// ParseTaskPriority converts untrusted input into a TaskPriority; empty means medium
func ParseTaskPriority(s string) (TaskPriority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TaskPriorityMedium, nil
	}
	switch p := TaskPriority(s); p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return p, nil
	default:
		return "", NewValidationError("priority", "must be one of low, medium, high, urgent")
	}
}

// Task is a unit of work on an event assigned to one user
type Task struct {
	ID          string       `json:"id"`
	FirmID      string       `json:"firmId"`
	EventID     string       `json:"eventId"`
	AssignedTo  string       `json:"assignedTo"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	TaskType    string       `json:"taskType"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CompletedAt *time.Time   `json:"completedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// OwnerFirmID returns the owning firm
func (t *Task) OwnerFirmID() string { return t.FirmID }

// NewTaskParams carries the fields needed to assign a task
type NewTaskParams struct {
	ID          string
	FirmID      string
	EventID     string
	AssignedTo  string
	Title       string
	Description string
	TaskType    string
	Priority    TaskPriority
	DueDate     *time.Time
}

// NewTask validates params and builds a pending task
func NewTask(p NewTaskParams, now time.Time) (*Task, error) {
	t := &Task{
		ID:          p.ID,
		FirmID:      p.FirmID,
		EventID:     p.EventID,
		AssignedTo:  p.AssignedTo,
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		TaskType:    strings.TrimSpace(p.TaskType),
		Status:      TaskStatusPending,
		Priority:    p.Priority,
		DueDate:     p.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	if t.EventID == "" {
		return nil, NewValidationError("eventId", "is required")
	}
	if t.AssignedTo == "" {
		return nil, NewValidationError("assignedTo", "is required")
	}
	if len([]rune(t.Title)) < 2 {
		return nil, NewValidationError("title", "must be at least 2 characters")
	}
	if t.TaskType == "" {
		return nil, NewValidationError("taskType", "is required")
	}
	return t, nil
}

// SetStatus moves the task to status. Completing stamps completedAt; any other status clears it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	if status == TaskStatusCompleted {
		completed := now
		t.CompletedAt = &completed
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}

// IsOverdueAt reports whether an open task has passed its due date
func (t *Task) IsOverdueAt(now time.Time) bool {
	return t.Status.IsOpen() && t.DueDate != nil && t.DueDate.Before(now)
}

// TaskWithDetails is the read model for task listings
type TaskWithDetails struct {
	Task
	AssignedUser *User         `json:"assignedUser"`
	Event        *EventSummary `json:"event"`
}
