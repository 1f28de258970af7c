package sheets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	created   []string
	appends   map[string][][]any
	appendErr error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{appends: make(map[string][][]any)}
}

func (f *fakeAPI) CreateSpreadsheet(_ context.Context, title string, tabs []Tab) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, title)
	return "sheet-" + title, nil
}

func (f *fakeAPI) AppendRows(_ context.Context, spreadsheetID string, tab Tab, rows [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	key := spreadsheetID + "/" + string(tab)
	f.appends[key] = append(f.appends[key], rows...)
	return nil
}

func (f *fakeAPI) rows(key string) [][]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appends[key]
}

type fakeFirms struct {
	mu    sync.Mutex
	firms map[string]*domain.Firm
}

func (f *fakeFirms) GetByID(_ context.Context, id string) (*domain.Firm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	firm, ok := f.firms[id]
	if !ok {
		return nil, nil
	}
	cp := *firm
	return &cp, nil
}

func (f *fakeFirms) SetSpreadsheetID(_ context.Context, id, spreadsheetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.firms[id].SpreadsheetID = spreadsheetID
	return nil
}

func newFirms() *fakeFirms {
	return &fakeFirms{firms: map[string]*domain.Firm{
		"f1": {ID: "f1", Name: "Golden Frame", IsActive: true},
		"f2": {ID: "f2", Name: "Blue Lens", IsActive: true, SpreadsheetID: "existing"},
	}}
}

func TestDispatcher_FlushOnClose(t *testing.T) {
	api := newFakeAPI()
	firms := newFirms()
	d := NewDispatcher(DispatcherConfig{FlushInterval: time.Hour}, api, firms, logger.NewNop())

	d.Enqueue(Row{FirmID: "f1", Tab: TabClients, Values: []any{"c1"}})
	d.Enqueue(Row{FirmID: "f1", Tab: TabClients, Values: []any{"c2"}})
	d.Enqueue(Row{FirmID: "f2", Tab: TabExpenses, Values: []any{"x1"}})

	require.NoError(t, d.Close())

	assert.Equal(t, [][]any{{"c1"}, {"c2"}}, api.rows("sheet-Golden Frame - Studio Records/Clients"))
	assert.Equal(t, [][]any{{"x1"}}, api.rows("existing/Expenses"))
	assert.Len(t, api.created, 1, "only the firm without a spreadsheet gets one")
	assert.Equal(t, "sheet-Golden Frame - Studio Records", firms.firms["f1"].SpreadsheetID)
}

func TestDispatcher_BatchSizeTriggersFlush(t *testing.T) {
	api := newFakeAPI()
	d := NewDispatcher(DispatcherConfig{FlushInterval: time.Hour, BatchSize: 2}, api, newFirms(), logger.NewNop())
	defer d.Close()

	d.Enqueue(Row{FirmID: "f2", Tab: TabTasks, Values: []any{"t1"}})
	d.Enqueue(Row{FirmID: "f2", Tab: TabTasks, Values: []any{"t2"}})

	assert.Eventually(t, func() bool {
		return len(api.rows("existing/Tasks")) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestDispatcher_AppendFailureDoesNotPanic(t *testing.T) {
	api := newFakeAPI()
	api.appendErr = errors.New("quota exceeded")
	d := NewDispatcher(DispatcherConfig{FlushInterval: time.Hour}, api, newFirms(), logger.NewNop())

	d.Enqueue(Row{FirmID: "f2", Tab: TabPayments, Values: []any{"p1"}})
	require.NoError(t, d.Close())
	assert.Empty(t, api.rows("existing/Payments"))
}

func TestDispatcher_UnknownFirmIsSkipped(t *testing.T) {
	api := newFakeAPI()
	d := NewDispatcher(DispatcherConfig{FlushInterval: time.Hour}, api, newFirms(), logger.NewNop())

	d.Enqueue(Row{FirmID: "missing", Tab: TabClients, Values: []any{"c1"}})
	require.NoError(t, d.Close())
	assert.Empty(t, api.created)
}

func TestDispatcher_EnqueueAfterCloseIsIgnored(t *testing.T) {
	api := newFakeAPI()
	d := NewDispatcher(DispatcherConfig{FlushInterval: time.Hour}, api, newFirms(), logger.NewNop())
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	d.Enqueue(Row{FirmID: "f2", Tab: TabClients, Values: []any{"late"}})
	assert.Empty(t, api.rows("existing/Clients"))
}

func TestRowBuilders(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	event := &domain.Event{
		ID: "e1", FirmID: "f1", Title: "Wedding", EventType: "wedding", EventDate: now,
		Status:        domain.EventStatusScheduled,
		TotalAmount:   decimal.NewFromInt(1000),
		AdvanceAmount: decimal.NewFromInt(200),
		BalanceAmount: decimal.NewFromInt(800),
		CreatedAt:     now,
	}
	row := EventRow(event, "Asha Rao")
	assert.Equal(t, TabEvents, row.Tab)
	assert.Equal(t, "f1", row.FirmID)
	assert.Len(t, row.Values, len(Headers[TabEvents]))
	assert.Equal(t, "2024-06-15", row.Values[4])
	assert.Equal(t, "800.00", row.Values[9])

	task := &domain.Task{ID: "t1", FirmID: "f1", Title: "Edit", Status: domain.TaskStatusPending, Priority: domain.TaskPriorityHigh, CreatedAt: now}
	row = TaskRow(task, "Wedding", "Ravi Kumar")
	assert.Len(t, row.Values, len(Headers[TabTasks]))
	assert.Equal(t, "", row.Values[7], "missing due date renders empty")

	for _, r := range []Row{
		ClientRow(&domain.Client{ID: "c1", FirmID: "f1", CreatedAt: now}),
		PaymentRow(&domain.Payment{ID: "p1", FirmID: "f1", Amount: decimal.NewFromInt(5), PaymentDate: now, CreatedAt: now}, "Wedding"),
		ExpenseRow(&domain.Expense{ID: "x1", FirmID: "f1", Amount: decimal.NewFromInt(5), ExpenseDate: now, CreatedAt: now}),
	} {
		assert.Len(t, r.Values, len(Headers[r.Tab]), string(r.Tab))
	}
}
