package repository

import (
	"context"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

const userColumns = `u.id, u.firm_id, u.email, u.password_hash, u.first_name, u.last_name, u.phone, u.role, u.is_active, u.created_at`

func userDest(u *domain.User) []any {
	return []any{&u.ID, &u.FirmID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &u.Role, &u.IsActive, &u.CreatedAt}
}

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	q querier
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, firm_id, email, password_hash, first_name, last_name, phone, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.Exec(ctx, query,
		user.ID,
		user.FirmID,
		domain.NormalizeEmail(user.Email),
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Role,
		user.IsActive,
		user.CreatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = $1`, domain.NormalizeEmail(email))
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user := &domain.User{}
	if err := r.q.QueryRow(ctx, query, arg).Scan(userDest(user)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// ListByFirm lists the firm's users in joining order
func (r *PostgresUserRepository) ListByFirm(ctx context.Context, firmID string) ([]*domain.User, error) {
	return queryUsers(ctx, r.q, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.firm_id = $1
		ORDER BY u.created_at, u.id
	`, firmID)
}

// SetFirm assigns a firmless user to a firm
func (r *PostgresUserRepository) SetFirm(ctx context.Context, userID, firmID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET firm_id = $2 WHERE id = $1 AND firm_id IS NULL`, userID, firmID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrFirmAssigned
	}
	return domain.NotFound("user")
}

func queryUsers(ctx context.Context, q querier, query string, args ...any) ([]*domain.User, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(userDest(user)...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
