package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

const quotationColumns = `q.id, q.firm_id, q.client_id, q.created_by, q.title, q.description, q.event_type, q.event_date,
	q.venue, q.total_amount, q.valid_until, q.status, q.event_id, q.created_at, q.updated_at`

func quotationDest(q *domain.Quotation) []any {
	return []any{
		&q.ID, &q.FirmID, &q.ClientID, &q.CreatedBy, &q.Title, &q.Description, &q.EventType, &q.EventDate,
		&q.Venue, &q.TotalAmount, &q.ValidUntil, &q.Status, &q.EventID, &q.CreatedAt, &q.UpdatedAt,
	}
}

// PostgresQuotationRepository implements QuotationRepository using PostgreSQL
type PostgresQuotationRepository struct {
	q querier
}

// Create creates a new quotation
func (r *PostgresQuotationRepository) Create(ctx context.Context, q *domain.Quotation) error {
	query := `
		INSERT INTO quotations (id, firm_id, client_id, created_by, title, description, event_type, event_date,
			venue, total_amount, valid_until, status, event_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.q.Exec(ctx, query,
		q.ID,
		q.FirmID,
		q.ClientID,
		q.CreatedBy,
		q.Title,
		q.Description,
		q.EventType,
		q.EventDate,
		q.Venue,
		q.TotalAmount,
		q.ValidUntil,
		q.Status,
		q.EventID,
		q.CreatedAt,
		q.UpdatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves a quotation by ID
func (r *PostgresQuotationRepository) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	return r.getOne(ctx, `SELECT `+quotationColumns+` FROM quotations q WHERE q.id = $1`, id)
}

// GetByIDForUpdate retrieves a quotation and locks its row
func (r *PostgresQuotationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Quotation, error) {
	return r.getOne(ctx, `SELECT `+quotationColumns+` FROM quotations q WHERE q.id = $1 FOR UPDATE`, id)
}

func (r *PostgresQuotationRepository) getOne(ctx context.Context, query, id string) (*domain.Quotation, error) {
	quote := &domain.Quotation{}
	if err := r.q.QueryRow(ctx, query, id).Scan(quotationDest(quote)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return quote, nil
}

// ListByFirm lists the firm's quotations, newest first
func (r *PostgresQuotationRepository) ListByFirm(ctx context.Context, firmID string) ([]*domain.Quotation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+quotationColumns+`
		FROM quotations q
		WHERE q.firm_id = $1
		ORDER BY q.created_at DESC, q.id
	`, firmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotes := make([]*domain.Quotation, 0)
	for rows.Next() {
		quote := &domain.Quotation{}
		if err := rows.Scan(quotationDest(quote)...); err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

// Update persists status, eventId and updatedAt
func (r *PostgresQuotationRepository) Update(ctx context.Context, q *domain.Quotation) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE quotations SET status = $2, event_id = $3, updated_at = $4 WHERE id = $1
	`, q.ID, q.Status, q.EventID, q.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("quotation")
	}
	return nil
}
