package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

const expenseColumns = `x.id, x.firm_id, x.created_by, x.title, x.description, x.amount, x.category, x.expense_date, x.created_at`

func expenseDest(e *domain.Expense) []any {
	return []any{&e.ID, &e.FirmID, &e.CreatedBy, &e.Title, &e.Description, &e.Amount, &e.Category, &e.ExpenseDate, &e.CreatedAt}
}

// PostgresExpenseRepository implements ExpenseRepository using PostgreSQL
type PostgresExpenseRepository struct {
	q querier
}

// Create records an expense
func (r *PostgresExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, firm_id, created_by, title, description, amount, category, expense_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.Exec(ctx, query,
		expense.ID,
		expense.FirmID,
		expense.CreatedBy,
		expense.Title,
		expense.Description,
		expense.Amount,
		expense.Category,
		expense.ExpenseDate,
		expense.CreatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves an expense by ID
func (r *PostgresExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	expense := &domain.Expense{}
	err := r.q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses x WHERE x.id = $1`, id).Scan(expenseDest(expense)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return expense, nil
}

// ListByFirm lists the firm's expenses, most recent first
func (r *PostgresExpenseRepository) ListByFirm(ctx context.Context, firmID string) ([]*domain.Expense, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses x
		WHERE x.firm_id = $1
		ORDER BY x.expense_date DESC, x.created_at DESC, x.id
	`, firmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense := &domain.Expense{}
		if err := rows.Scan(expenseDest(expense)...); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}
