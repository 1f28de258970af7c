package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/internal/sheets"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"go.uber.org/zap"
)

// TaskService defines the interface for task operations
type TaskService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateTaskRequest) (*domain.TaskWithDetails, error)
	List(ctx context.Context, firmID string) ([]*domain.TaskWithDetails, error)
	// ListMine returns the tasks assigned to the actor
	ListMine(ctx context.Context, actor Actor) ([]*domain.TaskWithDetails, error)
	// Get loads a task by id without a firm filter; callers check ownership
	Get(ctx context.Context, id string) (*domain.Task, error)
	UpdateStatus(ctx context.Context, actor Actor, task *domain.Task, status string) (*domain.Task, error)
	// MarkOverdue flags open tasks of every firm whose due date has passed
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

type taskService struct {
	store    repository.Store
	activity *ActivityRecorder
	mirror   sheets.Mirror
	log      *logger.Logger
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store, activity *ActivityRecorder, mirror sheets.Mirror) TaskService {
	return &taskService{store: store, activity: activity, mirror: mirror, log: logger.Get(), now: time.Now}
}

func (s *taskService) Create(ctx context.Context, actor Actor, req *dto.CreateTaskRequest) (*domain.TaskWithDetails, error) {
	priority, err := domain.ParseTaskPriority(req.Priority)
	if err != nil {
		return nil, err
	}
	dueDate, err := dto.ParseOptionalDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}

	event, err := s.store.Events().GetByID(ctx, req.EventID)
	if err != nil {
		return nil, storageErr("get event", err)
	}
	if event == nil || event.FirmID != actor.FirmID {
		return nil, ErrEventNotFound
	}
	assignee, err := firmMember(ctx, s.store.Users(), actor.FirmID, req.AssignedTo, domain.NotFound("assignee"))
	if err != nil {
		return nil, err
	}
	client, err := s.store.Clients().GetByID(ctx, event.ClientID)
	if err != nil {
		return nil, storageErr("get client", err)
	}

	task, err := domain.NewTask(domain.NewTaskParams{
		ID:          uuid.New().String(),
		FirmID:      actor.FirmID,
		EventID:     event.ID,
		AssignedTo:  assignee.ID,
		Title:       req.Title,
		Description: req.Description,
		TaskType:    req.TaskType,
		Priority:    priority,
		DueDate:     dueDate,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, storageErr("create task", err)
	}

	s.activity.Record(ctx, s.activity.Entry(actor, domain.ActionTaskAssigned, domain.EntityTask, task.ID,
		fmt.Sprintf("Assigned %s to %s for %s", task.Title, assignee.FullName(), event.Title)))
	s.mirror.Enqueue(sheets.TaskRow(task, event.Title, assignee.FullName()))

	return &domain.TaskWithDetails{
		Task:         *task,
		AssignedUser: assignee,
		Event:        &domain.EventSummary{Event: *event, Client: client},
	}, nil
}

func (s *taskService) List(ctx context.Context, firmID string) ([]*domain.TaskWithDetails, error) {
	tasks, err := s.store.Tasks().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

func (s *taskService) ListMine(ctx context.Context, actor Actor) ([]*domain.TaskWithDetails, error) {
	tasks, err := s.store.Tasks().ListByAssignee(ctx, actor.FirmID, actor.UserID)
	if err != nil {
		return nil, storageErr("list my tasks", err)
	}
	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.store.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, storageErr("get task", err)
	}
	return task, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, actor Actor, task *domain.Task, status string) (*domain.Task, error) {
	next, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}

	updated := *task
	previous := updated.Status
	updated.SetStatus(next, s.now())
	if err := s.store.Tasks().UpdateStatus(ctx, &updated); err != nil {
		return nil, storageErr("update task status", err)
	}

	s.activity.Record(ctx, s.activity.Entry(actor, domain.ActionTaskUpdated, domain.EntityTask, task.ID,
		fmt.Sprintf("Task %s moved from %s to %s", task.Title, previous, next)))
	return &updated, nil
}

func (s *taskService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.store.Tasks().ListOverdue(ctx, now)
	if err != nil {
		return 0, storageErr("list overdue tasks", err)
	}

	marked := 0
	for _, candidate := range candidates {
		var entry *domain.ActivityLog
		err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
			task, err := tx.Tasks().GetByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			// the task may have been completed since it was listed
			if task == nil || !task.IsOverdueAt(now) {
				return nil
			}
			task.SetStatus(domain.TaskStatusOverdue, now)
			if err := tx.Tasks().UpdateStatus(ctx, task); err != nil {
				return err
			}
			entry = s.activity.Entry(Actor{UserID: task.AssignedTo, FirmID: task.FirmID},
				domain.ActionTaskOverdue, domain.EntityTask, task.ID,
				fmt.Sprintf("Task %s is overdue", task.Title))
			return s.activity.AppendTx(ctx, tx, entry)
		})
		if err != nil {
			s.log.WithContext(ctx).Error("failed to mark task overdue",
				zap.String("task_id", candidate.ID),
				zap.Error(err),
			)
			continue
		}
		if entry != nil {
			s.activity.Published(ctx, entry)
			marked++
		}
	}
	return marked, nil
}
