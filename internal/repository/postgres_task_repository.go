package repository

import (
	"context"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

const taskColumns = `t.id, t.firm_id, t.event_id, t.assigned_to, t.title, t.description, t.task_type, t.status, t.priority,
	t.due_date, t.completed_at, t.created_at, t.updated_at`

func taskDest(t *domain.Task) []any {
	return []any{
		&t.ID, &t.FirmID, &t.EventID, &t.AssignedTo, &t.Title, &t.Description, &t.TaskType, &t.Status, &t.Priority,
		&t.DueDate, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	}
}

// PostgresTaskRepository implements TaskRepository using PostgreSQL
type PostgresTaskRepository struct {
	q querier
}

// Create creates a new task
func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, firm_id, event_id, assigned_to, title, description, task_type, status, priority,
			due_date, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.q.Exec(ctx, query,
		task.ID,
		task.FirmID,
		task.EventID,
		task.AssignedTo,
		task.Title,
		task.Description,
		task.TaskType,
		task.Status,
		task.Priority,
		task.DueDate,
		task.CompletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves a task by ID
func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task := &domain.Task{}
	err := r.q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id).Scan(taskDest(task)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

const taskDetailsQuery = `
	SELECT ` + taskColumns + `, ` + userColumns + `, ` + eventColumns + `, ` + clientColumns + `
	FROM tasks t
	JOIN users u ON u.id = t.assigned_to
	JOIN events e ON e.id = t.event_id
	JOIN clients c ON c.id = e.client_id
`

// ListByFirm lists the firm's tasks with assignee and event, newest first
func (r *PostgresTaskRepository) ListByFirm(ctx context.Context, firmID string) ([]*domain.TaskWithDetails, error) {
	return r.listWithDetails(ctx, taskDetailsQuery+`WHERE t.firm_id = $1 ORDER BY t.created_at DESC, t.id`, firmID)
}

// ListByAssignee lists tasks assigned to userID within firmID, newest first
func (r *PostgresTaskRepository) ListByAssignee(ctx context.Context, firmID, userID string) ([]*domain.TaskWithDetails, error) {
	return r.listWithDetails(ctx, taskDetailsQuery+`WHERE t.firm_id = $1 AND t.assigned_to = $2 ORDER BY t.created_at DESC, t.id`, firmID, userID)
}

func (r *PostgresTaskRepository) listWithDetails(ctx context.Context, query string, args ...any) ([]*domain.TaskWithDetails, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.TaskWithDetails, 0)
	for rows.Next() {
		view := &domain.TaskWithDetails{
			AssignedUser: &domain.User{},
			Event:        &domain.EventSummary{Client: &domain.Client{}},
		}
		dest := taskDest(&view.Task)
		dest = append(dest, userDest(view.AssignedUser)...)
		dest = append(dest, eventDest(&view.Event.Event)...)
		dest = append(dest, clientDest(view.Event.Client)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		tasks = append(tasks, view)
	}
	return tasks, rows.Err()
}

// ListOverdue lists open tasks of all firms whose due date has passed
func (r *PostgresTaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	return queryTasks(ctx, r.q, `
		SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.status IN ('pending', 'in_progress') AND t.due_date < $1
		ORDER BY t.due_date, t.id
	`, now)
}

// UpdateStatus persists status, completedAt and updatedAt
func (r *PostgresTaskRepository) UpdateStatus(ctx context.Context, task *domain.Task) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE tasks SET status = $2, completed_at = $3, updated_at = $4 WHERE id = $1
	`, task.ID, task.Status, task.CompletedAt, task.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("task")
	}
	return nil
}

func queryTasks(ctx context.Context, q querier, query string, args ...any) ([]*domain.Task, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task := &domain.Task{}
		if err := rows.Scan(taskDest(task)...); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
