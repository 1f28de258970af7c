package repository

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func setupPostgresStore(t *testing.T) *PostgresStore {
	skipIfNoIntegration(t)
	ctx := context.Background()

	cfg := database.DefaultPostgresConfig()
	cfg.Host = getEnv("DATABASE_HOST", "localhost")
	cfg.User = getEnv("DATABASE_USER", "postgres")
	cfg.Password = getEnv("DATABASE_PASSWORD", "postgres")
	cfg.Database = getEnv("DATABASE_DBNAME", "lensdesk_test")
	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxRetries = 1
	cfg.RetryInterval = time.Second

	db, err := database.NewPostgres(ctx, cfg)
	if err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	_, err = Migrate(ctx, db.Pool())
	require.NoError(t, err)

	s := NewPostgresStore(db)
	t.Cleanup(s.Close)
	return s
}

// uniquePin keeps pins distinct across repeated runs against the same database
func uniquePin() string {
	return strconv.FormatInt(time.Now().UnixNano()%1_000_000_000, 10)
}

func TestPostgresStore_FinancialSummaryScenario(t *testing.T) {
	s := setupPostgresStore(t)
	ctx := context.Background()
	a := seedFirm(t, s, uuid.NewString(), uniquePin())

	first := seedEvent(t, s, a, uuid.NewString(), 1000)
	seedEvent(t, s, a, uuid.NewString(), 2000)

	err := s.WithTx(ctx, func(tx Repositories) error {
		p, err := domain.NewPayment(domain.NewPaymentParams{
			ID: uuid.NewString(), FirmID: a.firm.ID, EventID: first.ID, ReceivedBy: a.admin.ID,
			Amount: decimal.NewFromInt(500), PaymentMethod: domain.PaymentMethodCash,
		}, time.Now())
		if err != nil {
			return err
		}
		if err := tx.Payments().Create(ctx, p); err != nil {
			return err
		}
		locked, err := tx.Events().GetByIDForUpdate(ctx, first.ID)
		if err != nil {
			return err
		}
		return tx.Events().UpdateBalance(ctx, locked.ID, locked.BalanceAmount.Sub(p.Amount), time.Now())
	})
	require.NoError(t, err)

	summary, err := s.Stats().FinancialSummary(ctx, a.firm.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(3000)))
	assert.True(t, summary.ReceivedAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.PendingAmount.Equal(decimal.NewFromInt(2500)))
	assert.True(t, summary.NetProfit.Equal(decimal.NewFromInt(500)))

	view, err := s.Events().GetWithDetails(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.True(t, view.BalanceAmount.Equal(decimal.NewFromInt(500)))
	assert.Len(t, view.Payments, 1)
	assert.Equal(t, a.client.ID, view.Client.ID)
}

func TestPostgresStore_DuplicatePin(t *testing.T) {
	s := setupPostgresStore(t)
	ctx := context.Background()
	pin := uniquePin()
	seedFirm(t, s, uuid.NewString(), pin)

	dup, err := domain.NewFirm(uuid.NewString(), "Duplicate", pin, time.Now())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Firms().Create(ctx, dup), ErrDuplicate)
}

func TestPostgresStore_DashboardCountsIdempotent(t *testing.T) {
	s := setupPostgresStore(t)
	ctx := context.Background()
	a := seedFirm(t, s, uuid.NewString(), uniquePin())
	seedEvent(t, s, a, uuid.NewString(), 1000)

	w := domain.NewStatsWindow(time.Now())
	first, err := s.Stats().DashboardCounts(ctx, a.firm.ID, w)
	require.NoError(t, err)
	second, err := s.Stats().DashboardCounts(ctx, a.firm.ID, w)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.ActiveEvents)
	assert.Equal(t, 1, first.TeamMembers)
}

func TestPostgresStore_SetFirmOnlyOnce(t *testing.T) {
	s := setupPostgresStore(t)
	checkSetFirmOnce(t, s, seedFirm(t, s, uuid.NewString(), uniquePin()))
}
