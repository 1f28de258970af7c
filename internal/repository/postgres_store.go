package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prohmpiriya/lensdesk/pkg/database"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on PostgreSQL
type PostgresStore struct {
	db *database.PostgresDB
	pgRepositories
}

// NewPostgresStore creates a PostgresStore on an open pool
func NewPostgresStore(db *database.PostgresDB) *PostgresStore {
	return &PostgresStore{db: db, pgRepositories: pgRepositories{q: db.Pool()}}
}

type pgRepositories struct {
	q querier
}

func (r pgRepositories) Firms() FirmRepository           { return &PostgresFirmRepository{q: r.q} }
func (r pgRepositories) Users() UserRepository           { return &PostgresUserRepository{q: r.q} }
func (r pgRepositories) Clients() ClientRepository       { return &PostgresClientRepository{q: r.q} }
func (r pgRepositories) Events() EventRepository         { return &PostgresEventRepository{q: r.q} }
func (r pgRepositories) Tasks() TaskRepository           { return &PostgresTaskRepository{q: r.q} }
func (r pgRepositories) Payments() PaymentRepository     { return &PostgresPaymentRepository{q: r.q} }
func (r pgRepositories) Expenses() ExpenseRepository     { return &PostgresExpenseRepository{q: r.q} }
func (r pgRepositories) Activity() ActivityRepository    { return &PostgresActivityRepository{q: r.q} }
func (r pgRepositories) Quotations() QuotationRepository { return &PostgresQuotationRepository{q: r.q} }

// Stats returns the aggregation engine
func (s *PostgresStore) Stats() StatsRepository {
	return &PostgresStatsRepository{q: s.q}
}

// WithTx runs fn inside a database transaction
func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Repositories) error) error {
	return database.WithTx(ctx, s.db.Pool(), func(tx pgx.Tx) error {
		return fn(pgRepositories{q: tx})
	})
}

// Ping checks the pool
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the pool
func (s *PostgresStore) Close() {
	s.db.Close()
}

// mapWriteErr converts unique violations to ErrDuplicate
func mapWriteErr(err error) error {
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
