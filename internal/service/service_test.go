package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/dto"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/internal/sheets"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type capturePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *capturePublisher) Publish(_ context.Context, key string, _ []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
}

type captureMirror struct {
	mu   sync.Mutex
	rows []sheets.Row
}

func (m *captureMirror) Enqueue(row sheets.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
}

func (m *captureMirror) Close() error { return nil }

func (m *captureMirror) tabs() []sheets.Tab {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sheets.Tab, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, r.Tab)
	}
	return out
}

type fixture struct {
	store      *repository.MemoryStore
	sessions   *SessionManager
	hasher     *PasswordHasher
	activity   *ActivityRecorder
	publisher  *capturePublisher
	mirror     *captureMirror
	auth       AuthService
	firms      FirmService
	team       TeamService
	clients    ClientService
	events     EventService
	tasks      TaskService
	payments   PaymentService
	expenses   ExpenseService
	quotations QuotationService
	dashboard  DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	return newFixtureWithStore(t, store, store)
}

func newFixtureWithStore(t *testing.T, memory *repository.MemoryStore, store repository.Store) *fixture {
	t.Helper()
	f := &fixture{
		store:     memory,
		hasher:    NewPasswordHasher(bcrypt.MinCost),
		publisher: &capturePublisher{},
		mirror:    &captureMirror{},
	}
	f.sessions = NewSessionManager(repository.NewMemorySessionStore(), middleware.TokenConfig{
		Secret: "service-test-secret", Issuer: "lensdesk-test", TTL: time.Hour,
	})
	f.activity = NewActivityRecorder(store, f.publisher, logger.NewNop())
	f.auth = NewAuthService(store, f.sessions, f.hasher, f.activity)
	f.firms = NewFirmService(store, f.activity)
	f.team = NewTeamService(store, f.hasher, f.activity)
	f.clients = NewClientService(store, f.activity, f.mirror)
	f.events = NewEventService(store, f.activity, f.mirror)
	f.tasks = NewTaskService(store, f.activity, f.mirror)
	f.payments = NewPaymentService(store, f.activity, f.mirror)
	f.expenses = NewExpenseService(store, f.activity, f.mirror)
	f.quotations = NewQuotationService(store, f.activity, f.mirror)
	f.dashboard = NewDashboardService(store)
	return f
}

func signupRequest(email, role string) *dto.SignupRequest {
	return &dto.SignupRequest{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Asha",
		LastName:  "Rao",
		Phone:     "9876543210",
		Role:      role,
	}
}

// signupAdmin creates an admin with a new firm and returns the acting identity
func (f *fixture) signupAdmin(t *testing.T, email string) (Actor, *domain.Firm) {
	t.Helper()
	resp, err := f.auth.Signup(context.Background(), signupRequest(email, "admin"))
	require.NoError(t, err)
	return Actor{UserID: resp.User.ID, FirmID: resp.Firm.ID}, resp.Firm
}

func (f *fixture) addStaff(t *testing.T, admin Actor, email, role string) *domain.User {
	t.Helper()
	u, err := f.team.Add(context.Background(), admin, &dto.CreateTeamMemberRequest{
		Email: email, Password: "staff-password", FirstName: "Ravi", LastName: "Kumar",
		Phone: "9123456780", Role: role,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) addClient(t *testing.T, actor Actor, name string) *domain.Client {
	t.Helper()
	c, err := f.clients.Create(context.Background(), actor, &dto.CreateClientRequest{Name: name, Phone: "9000000000"})
	require.NoError(t, err)
	return c
}

func (f *fixture) addEvent(t *testing.T, actor Actor, clientID string, total, advance int64) *domain.EventWithClient {
	t.Helper()
	e, err := f.events.Create(context.Background(), actor, &dto.CreateEventRequest{
		ClientID:      clientID,
		Title:         "Wedding " + uuid.NewString()[:4],
		EventType:     "wedding",
		EventDate:     time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		TotalAmount:   decimal.NewFromInt(total),
		AdvanceAmount: decimal.NewFromInt(advance),
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) activityFor(t *testing.T, firmID string) []*domain.ActivityWithUser {
	t.Helper()
	entries, err := f.store.Activity().ListByFirm(context.Background(), firmID, domain.MaxActivityLimit)
	require.NoError(t, err)
	return entries
}

func countAction(entries []*domain.ActivityWithUser, action domain.ActivityAction) int {
	n := 0
	for _, e := range entries {
		if e.Action == action {
			n++
		}
	}
	return n
}
