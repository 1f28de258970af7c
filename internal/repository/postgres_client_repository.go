package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

const clientColumns = `c.id, c.firm_id, c.name, c.email, c.phone, c.address, c.notes, c.created_at`

func clientDest(c *domain.Client) []any {
	return []any{&c.ID, &c.FirmID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Notes, &c.CreatedAt}
}

// PostgresClientRepository implements ClientRepository using PostgreSQL
type PostgresClientRepository struct {
	q querier
}

// Create creates a new client
func (r *PostgresClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, firm_id, name, email, phone, address, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.Exec(ctx, query,
		client.ID,
		client.FirmID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.Notes,
		client.CreatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves a client by ID
func (r *PostgresClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	client := &domain.Client{}
	err := r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.id = $1`, id).Scan(clientDest(client)...)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

// ListByFirm lists the firm's clients, newest first
func (r *PostgresClientRepository) ListByFirm(ctx context.Context, firmID string) ([]*domain.Client, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+clientColumns+`
		FROM clients c
		WHERE c.firm_id = $1
		ORDER BY c.created_at DESC, c.id
	`, firmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client := &domain.Client{}
		if err := rows.Scan(clientDest(client)...); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
