package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

const firmColumns = `f.id, f.name, f.pin, f.is_active, f.spreadsheet_id, f.created_at`

func firmDest(f *domain.Firm) []any {
	return []any{&f.ID, &f.Name, &f.Pin, &f.IsActive, &f.SpreadsheetID, &f.CreatedAt}
}

// PostgresFirmRepository implements FirmRepository using PostgreSQL
type PostgresFirmRepository struct {
	q querier
}

// Create creates a new firm
func (r *PostgresFirmRepository) Create(ctx context.Context, firm *domain.Firm) error {
	query := `
		INSERT INTO firms (id, name, pin, is_active, spreadsheet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.Exec(ctx, query,
		firm.ID,
		firm.Name,
		firm.Pin,
		firm.IsActive,
		firm.SpreadsheetID,
		firm.CreatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves a firm by ID
func (r *PostgresFirmRepository) GetByID(ctx context.Context, id string) (*domain.Firm, error) {
	return r.getOne(ctx, `SELECT `+firmColumns+` FROM firms f WHERE f.id = $1`, id)
}

// GetByPin retrieves a firm by its access pin
func (r *PostgresFirmRepository) GetByPin(ctx context.Context, pin string) (*domain.Firm, error) {
	return r.getOne(ctx, `SELECT `+firmColumns+` FROM firms f WHERE f.pin = $1`, pin)
}

func (r *PostgresFirmRepository) getOne(ctx context.Context, query string, arg any) (*domain.Firm, error) {
	firm := &domain.Firm{}
	if err := r.q.QueryRow(ctx, query, arg).Scan(firmDest(firm)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return firm, nil
}

// ListActive lists active firms by name
func (r *PostgresFirmRepository) ListActive(ctx context.Context) ([]*domain.Firm, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+firmColumns+`
		FROM firms f
		WHERE f.is_active
		ORDER BY LOWER(f.name), f.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	firms := make([]*domain.Firm, 0)
	for rows.Next() {
		firm := &domain.Firm{}
		if err := rows.Scan(firmDest(firm)...); err != nil {
			return nil, err
		}
		firms = append(firms, firm)
	}
	return firms, rows.Err()
}

// ExistsByPin checks whether a firm uses pin
func (r *PostgresFirmRepository) ExistsByPin(ctx context.Context, pin string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM firms WHERE pin = $1)`, pin).Scan(&exists)
	return exists, err
}

// SetSpreadsheetID records the firm's mirror spreadsheet
func (r *PostgresFirmRepository) SetSpreadsheetID(ctx context.Context, id, spreadsheetID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE firms SET spreadsheet_id = $2 WHERE id = $1`, id, spreadsheetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("firm")
	}
	return nil
}
