package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

const paymentColumns = `p.id, p.firm_id, p.event_id, p.received_by, p.amount, p.payment_method, p.payment_date, p.notes, p.created_at`

func paymentDest(p *domain.Payment) []any {
	return []any{&p.ID, &p.FirmID, &p.EventID, &p.ReceivedBy, &p.Amount, &p.PaymentMethod, &p.PaymentDate, &p.Notes, &p.CreatedAt}
}

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	q querier
}

// Create records a payment
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, firm_id, event_id, received_by, amount, payment_method, payment_date, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.Exec(ctx, query,
		payment.ID,
		payment.FirmID,
		payment.EventID,
		payment.ReceivedBy,
		payment.Amount,
		payment.PaymentMethod,
		payment.PaymentDate,
		payment.Notes,
		payment.CreatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves a payment by ID
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	payment := &domain.Payment{}
	err := r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id).Scan(paymentDest(payment)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return payment, nil
}

// ListByFirm lists the firm's payments with their event, newest first
func (r *PostgresPaymentRepository) ListByFirm(ctx context.Context, firmID string) ([]*domain.PaymentWithEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+`, `+eventColumns+`, `+clientColumns+`
		FROM payments p
		JOIN events e ON e.id = p.event_id
		JOIN clients c ON c.id = e.client_id
		WHERE p.firm_id = $1
		ORDER BY p.payment_date DESC, p.created_at DESC, p.id
	`, firmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.PaymentWithEvent, 0)
	for rows.Next() {
		view := &domain.PaymentWithEvent{Event: &domain.EventSummary{Client: &domain.Client{}}}
		dest := paymentDest(&view.Payment)
		dest = append(dest, eventDest(&view.Event.Event)...)
		dest = append(dest, clientDest(view.Event.Client)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		payments = append(payments, view)
	}
	return payments, rows.Err()
}

// ListByEvent lists payments against one event, newest first
func (r *PostgresPaymentRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	return queryPayments(ctx, r.q, `
		SELECT `+paymentColumns+`
		FROM payments p
		WHERE p.event_id = $1
		ORDER BY p.payment_date DESC, p.created_at DESC, p.id
	`, eventID)
}

func queryPayments(ctx context.Context, q querier, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*domain.Payment, 0)
	for rows.Next() {
		payment := &domain.Payment{}
		if err := rows.Scan(paymentDest(payment)...); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
