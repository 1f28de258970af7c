package repository

import (
	"context"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/shopspring/decimal"
)

const eventColumns = `e.id, e.firm_id, e.client_id, e.title, e.description, e.event_type, e.event_date, e.venue, e.status,
	e.total_amount, e.advance_amount, e.balance_amount, e.photographer_id, e.videographer_id, e.created_at, e.updated_at`

func eventDest(e *domain.Event) []any {
	return []any{
		&e.ID, &e.FirmID, &e.ClientID, &e.Title, &e.Description, &e.EventType, &e.EventDate, &e.Venue, &e.Status,
		&e.TotalAmount, &e.AdvanceAmount, &e.BalanceAmount, &e.PhotographerID, &e.VideographerID, &e.CreatedAt, &e.UpdatedAt,
	}
}

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	q querier
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, firm_id, client_id, title, description, event_type, event_date, venue, status,
			total_amount, advance_amount, balance_amount, photographer_id, videographer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.q.Exec(ctx, query,
		event.ID,
		event.FirmID,
		event.ClientID,
		event.Title,
		event.Description,
		event.EventType,
		event.EventDate,
		event.Venue,
		event.Status,
		event.TotalAmount,
		event.AdvanceAmount,
		event.BalanceAmount,
		event.PhotographerID,
		event.VideographerID,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return mapWriteErr(err)
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id)
}

// GetByIDForUpdate retrieves an event and locks its row until the transaction ends
func (r *PostgresEventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return r.getOne(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1 FOR UPDATE`, id)
}

func (r *PostgresEventRepository) getOne(ctx context.Context, query, id string) (*domain.Event, error) {
	event := &domain.Event{}
	if err := r.q.QueryRow(ctx, query, id).Scan(eventDest(event)...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// GetWithDetails retrieves one event with its related records
func (r *PostgresEventRepository) GetWithDetails(ctx context.Context, id string) (*domain.EventWithClient, error) {
	events, err := r.listWithDetails(ctx, `WHERE e.id = $1`, id)
	if err != nil || len(events) == 0 {
		return nil, err
	}
	return events[0], nil
}

// ListByFirm lists the firm's events with related records, latest event date first.
// Related rows are loaded with one query per relation, never per event.
func (r *PostgresEventRepository) ListByFirm(ctx context.Context, firmID string) ([]*domain.EventWithClient, error) {
	return r.listWithDetails(ctx, `WHERE e.firm_id = $1`, firmID)
}

func (r *PostgresEventRepository) listWithDetails(ctx context.Context, where string, arg any) ([]*domain.EventWithClient, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+eventColumns+`, `+clientColumns+`
		FROM events e
		JOIN clients c ON c.id = e.client_id
		`+where+`
		ORDER BY e.event_date DESC, e.id
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.EventWithClient, 0)
	byID := make(map[string]*domain.EventWithClient)
	eventIDs := make([]string, 0)
	crewIDs := make([]string, 0)
	for rows.Next() {
		view := &domain.EventWithClient{
			Client:   &domain.Client{},
			Tasks:    make([]*domain.Task, 0),
			Payments: make([]*domain.Payment, 0),
		}
		dest := append(eventDest(&view.Event), clientDest(view.Client)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		events = append(events, view)
		byID[view.ID] = view
		eventIDs = append(eventIDs, view.ID)
		if view.PhotographerID != nil {
			crewIDs = append(crewIDs, *view.PhotographerID)
		}
		if view.VideographerID != nil {
			crewIDs = append(crewIDs, *view.VideographerID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}

	if len(crewIDs) > 0 {
		crew, err := queryUsers(ctx, r.q, `SELECT `+userColumns+` FROM users u WHERE u.id = ANY($1)`, crewIDs)
		if err != nil {
			return nil, err
		}
		users := make(map[string]*domain.User, len(crew))
		for _, u := range crew {
			users[u.ID] = u
		}
		for _, view := range events {
			if view.PhotographerID != nil {
				view.Photographer = users[*view.PhotographerID]
			}
			if view.VideographerID != nil {
				view.Videographer = users[*view.VideographerID]
			}
		}
	}

	tasks, err := queryTasks(ctx, r.q, `
		SELECT `+taskColumns+`
		FROM tasks t
		WHERE t.event_id = ANY($1)
		ORDER BY t.created_at DESC, t.id
	`, eventIDs)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		byID[t.EventID].Tasks = append(byID[t.EventID].Tasks, t)
	}

	payments, err := queryPayments(ctx, r.q, `
		SELECT `+paymentColumns+`
		FROM payments p
		WHERE p.event_id = ANY($1)
		ORDER BY p.payment_date DESC, p.created_at DESC, p.id
	`, eventIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range payments {
		byID[p.EventID].Payments = append(byID[p.EventID].Payments, p)
	}

	return events, nil
}

// UpdateStatus sets the event status
func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE events SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("event")
	}
	return nil
}

// UpdateBalance sets the outstanding balance
func (r *PostgresEventRepository) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE events SET balance_amount = $2, updated_at = $3 WHERE id = $1`, id, balance, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("event")
	}
	return nil
}
