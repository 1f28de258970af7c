package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrDuplicate is returned when a unique key (firm pin, user email) already exists
var ErrDuplicate = fmt.Errorf("duplicate record: %w", domain.ErrConflict)

// ErrFirmAssigned is returned by SetFirm when the user already belongs to a firm
var ErrFirmAssigned = fmt.Errorf("user already assigned to a firm: %w", domain.ErrConflict)

// Single-record getters return (nil, nil) when the record does not exist.
// They do not filter by firm; ownership is enforced by the caller.

// FirmRepository defines data access for firms
type FirmRepository interface {
	Create(ctx context.Context, firm *domain.Firm) error
	GetByID(ctx context.Context, id string) (*domain.Firm, error)
	GetByPin(ctx context.Context, pin string) (*domain.Firm, error)
	// ListActive returns active firms ordered by name
	ListActive(ctx context.Context) ([]*domain.Firm, error)
	ExistsByPin(ctx context.Context, pin string) (bool, error)
	SetSpreadsheetID(ctx context.Context, id, spreadsheetID string) error
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListByFirm returns the firm's users ordered by creation time
	ListByFirm(ctx context.Context, firmID string) ([]*domain.User, error)
	// SetFirm assigns a firmless user to firmID; it never moves a user between firms
	SetFirm(ctx context.Context, userID, firmID string) error
}

// ClientRepository defines data access for clients
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	// ListByFirm returns the firm's clients, newest first
	ListByFirm(ctx context.Context, firmID string) ([]*domain.Client, error)
}

// EventRepository defines data access for events
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// GetByIDForUpdate locks the row for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error)
	// GetWithDetails returns the event with client, crew, tasks and payments attached
	GetWithDetails(ctx context.Context, id string) (*domain.EventWithClient, error)
	// ListByFirm returns the firm's events with related records attached, latest event date first
	ListByFirm(ctx context.Context, firmID string) ([]*domain.EventWithClient, error)
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus, updatedAt time.Time) error
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// TaskRepository defines data access for tasks
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// ListByFirm returns the firm's tasks with assignee and event attached, newest first
	ListByFirm(ctx context.Context, firmID string) ([]*domain.TaskWithDetails, error)
	// ListByAssignee returns tasks assigned to userID within firmID, newest first
	ListByAssignee(ctx context.Context, firmID, userID string) ([]*domain.TaskWithDetails, error)
	// ListOverdue returns open tasks of every firm whose due date is before now
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error)
	// UpdateStatus persists status, completedAt and updatedAt
	UpdateStatus(ctx context.Context, task *domain.Task) error
}

// PaymentRepository defines data access for payments
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	// ListByFirm returns the firm's payments with their event, newest first
	ListByFirm(ctx context.Context, firmID string) ([]*domain.PaymentWithEvent, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error)
}

// ExpenseRepository defines data access for expenses
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	// ListByFirm returns the firm's expenses, most recent expense date first
	ListByFirm(ctx context.Context, firmID string) ([]*domain.Expense, error)
}

// ActivityRepository is the append-only activity log
type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.ActivityLog) error
	// ListByFirm returns up to limit entries, newest first
	ListByFirm(ctx context.Context, firmID string, limit int) ([]*domain.ActivityWithUser, error)
}

// QuotationRepository defines data access for quotations
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id string) (*domain.Quotation, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Quotation, error)
	ListByFirm(ctx context.Context, firmID string) ([]*domain.Quotation, error)
	// Update persists status, eventId and updatedAt
	Update(ctx context.Context, q *domain.Quotation) error
}

// StatsRepository is the aggregation engine. Each method is a single pass over the firm's data.
type StatsRepository interface {
	DashboardCounts(ctx context.Context, firmID string, window domain.StatsWindow) (domain.DashboardCounts, error)
	FinancialSummary(ctx context.Context, firmID string) (domain.FinancialSummary, error)
}

// Repositories groups the entity repositories that can take part in a transaction
type Repositories interface {
	Firms() FirmRepository
	Users() UserRepository
	Clients() ClientRepository
	Events() EventRepository
	Tasks() TaskRepository
	Payments() PaymentRepository
	Expenses() ExpenseRepository
	Activity() ActivityRepository
	Quotations() QuotationRepository
}

// Store is the injected storage backend
type Store interface {
	Repositories
	Stats() StatsRepository
	// WithTx runs fn against repositories bound to one transaction.
	// A non-nil error from fn rolls back every write made through tx.
	WithTx(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
	Close()
}
