package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

// PostgresActivityRepository implements ActivityRepository using PostgreSQL.
// Rows are only ever inserted.
type PostgresActivityRepository struct {
	q querier
}

// Append inserts one activity entry
func (r *PostgresActivityRepository) Append(ctx context.Context, entry *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, firm_id, user_id, action, entity_type, entity_id, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.q.Exec(ctx, query,
		entry.ID,
		entry.FirmID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Description,
		entry.CreatedAt,
	)
	return mapWriteErr(err)
}

// ListByFirm lists up to limit entries with their author, newest first
func (r *PostgresActivityRepository) ListByFirm(ctx context.Context, firmID string, limit int) ([]*domain.ActivityWithUser, error) {
	rows, err := r.q.Query(ctx, `
		SELECT a.id, a.firm_id, a.user_id, a.action, a.entity_type, a.entity_id, a.description, a.created_at, `+userColumns+`
		FROM activity_logs a
		JOIN users u ON u.id = a.user_id
		WHERE a.firm_id = $1
		ORDER BY a.seq DESC
		LIMIT $2
	`, firmID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ActivityWithUser, 0, limit)
	for rows.Next() {
		entry := &domain.ActivityWithUser{User: &domain.User{}}
		a := &entry.ActivityLog
		dest := []any{&a.ID, &a.FirmID, &a.UserID, &a.Action, &a.EntityType, &a.EntityID, &a.Description, &a.CreatedAt}
		dest = append(dest, userDest(entry.User)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
