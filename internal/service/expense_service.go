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
)

// ExpenseService defines the interface for expense operations
type ExpenseService interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateExpenseRequest) (*domain.Expense, error)
	List(ctx context.Context, firmID string) ([]*domain.Expense, error)
}

type expenseService struct {
	store    repository.Store
	activity *ActivityRecorder
	mirror   sheets.Mirror
	now      func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(store repository.Store, activity *ActivityRecorder, mirror sheets.Mirror) ExpenseService {
	return &expenseService{store: store, activity: activity, mirror: mirror, now: time.Now}
}

func (s *expenseService) Create(ctx context.Context, actor Actor, req *dto.CreateExpenseRequest) (*domain.Expense, error) {
	var expenseDate time.Time
	if req.ExpenseDate != "" {
		var err error
		if expenseDate, err = dto.ParseDate("expenseDate", req.ExpenseDate); err != nil {
			return nil, err
		}
	}

	expense, err := domain.NewExpense(domain.NewExpenseParams{
		ID:          uuid.New().String(),
		FirmID:      actor.FirmID,
		CreatedBy:   actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		ExpenseDate: expenseDate,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Expenses().Create(ctx, expense); err != nil {
		return nil, storageErr("create expense", err)
	}

	s.activity.Record(ctx, s.activity.Entry(actor, domain.ActionExpenseAdded, domain.EntityExpense, expense.ID,
		fmt.Sprintf("Added %s expense %s (%s)", expense.Category, expense.Title, expense.Amount.StringFixed(2))))
	s.mirror.Enqueue(sheets.ExpenseRow(expense))
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, firmID string) ([]*domain.Expense, error) {
	expenses, err := s.store.Expenses().ListByFirm(ctx, firmID)
	if err != nil {
		return nil, storageErr("list expenses", err)
	}
	return expenses, nil
}
