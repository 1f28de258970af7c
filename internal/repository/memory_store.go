package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Every value is copied on the way in and on the way out.
type MemoryStore struct {
	mu   sync.RWMutex
	data *memoryData
}

type memoryData struct {
	firms      map[string]*domain.Firm
	users      map[string]*domain.User
	clients    map[string]*domain.Client
	events     map[string]*domain.Event
	tasks      map[string]*domain.Task
	payments   map[string]*domain.Payment
	expenses   map[string]*domain.Expense
	quotations map[string]*domain.Quotation
	activity   []*domain.ActivityLog
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemoryData()}
}

func newMemoryData() *memoryData {
	return &memoryData{
		firms:      make(map[string]*domain.Firm),
		users:      make(map[string]*domain.User),
		clients:    make(map[string]*domain.Client),
		events:     make(map[string]*domain.Event),
		tasks:      make(map[string]*domain.Task),
		payments:   make(map[string]*domain.Payment),
		expenses:   make(map[string]*domain.Expense),
		quotations: make(map[string]*domain.Quotation),
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	for k, v := range d.firms {
		c.firms[k] = copyFirm(v)
	}
	for k, v := range d.users {
		c.users[k] = copyUser(v)
	}
	for k, v := range d.clients {
		c.clients[k] = copyClient(v)
	}
	for k, v := range d.events {
		c.events[k] = copyEvent(v)
	}
	for k, v := range d.tasks {
		c.tasks[k] = copyTask(v)
	}
	for k, v := range d.payments {
		c.payments[k] = copyPayment(v)
	}
	for k, v := range d.expenses {
		c.expenses[k] = copyExpense(v)
	}
	for k, v := range d.quotations {
		c.quotations[k] = copyQuotation(v)
	}
	c.activity = make([]*domain.ActivityLog, len(d.activity))
	for i, v := range d.activity {
		entry := *v
		c.activity[i] = &entry
	}
	return c
}

// memoryScope decides whether a repository call takes the store lock itself
// or runs under the write lock already held by WithTx.
type memoryScope struct {
	s    *MemoryStore
	held bool
}

func (m memoryScope) rlock() func() {
	if m.held {
		return func() {}
	}
	m.s.mu.RLock()
	return m.s.mu.RUnlock
}

func (m memoryScope) lock() func() {
	if m.held {
		return func() {}
	}
	m.s.mu.Lock()
	return m.s.mu.Unlock
}

func (m memoryScope) Firms() FirmRepository           { return &memoryFirmRepo{m} }
func (m memoryScope) Users() UserRepository           { return &memoryUserRepo{m} }
func (m memoryScope) Clients() ClientRepository       { return &memoryClientRepo{m} }
func (m memoryScope) Events() EventRepository         { return &memoryEventRepo{m} }
func (m memoryScope) Tasks() TaskRepository           { return &memoryTaskRepo{m} }
func (m memoryScope) Payments() PaymentRepository     { return &memoryPaymentRepo{m} }
func (m memoryScope) Expenses() ExpenseRepository     { return &memoryExpenseRepo{m} }
func (m memoryScope) Activity() ActivityRepository    { return &memoryActivityRepo{m} }
func (m memoryScope) Quotations() QuotationRepository { return &memoryQuotationRepo{m} }

func (s *MemoryStore) scope() memoryScope { return memoryScope{s: s} }

func (s *MemoryStore) Firms() FirmRepository           { return s.scope().Firms() }
func (s *MemoryStore) Users() UserRepository           { return s.scope().Users() }
func (s *MemoryStore) Clients() ClientRepository       { return s.scope().Clients() }
func (s *MemoryStore) Events() EventRepository         { return s.scope().Events() }
func (s *MemoryStore) Tasks() TaskRepository           { return s.scope().Tasks() }
func (s *MemoryStore) Payments() PaymentRepository     { return s.scope().Payments() }
func (s *MemoryStore) Expenses() ExpenseRepository     { return s.scope().Expenses() }
func (s *MemoryStore) Activity() ActivityRepository    { return s.scope().Activity() }
func (s *MemoryStore) Quotations() QuotationRepository { return s.scope().Quotations() }
func (s *MemoryStore) Stats() StatsRepository          { return &memoryStatsRepo{s.scope()} }

// WithTx holds the write lock for the whole of fn and restores the previous
// state if fn fails. fn must only use tx; calling back into the store deadlocks.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(memoryScope{s: s, held: true}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Ping always succeeds
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close is a no-op
func (s *MemoryStore) Close() {}

// Firms

type memoryFirmRepo struct{ memoryScope }

func (r *memoryFirmRepo) Create(ctx context.Context, firm *domain.Firm) error {
	defer r.lock()()
	d := r.s.data
	if _, exists := d.firms[firm.ID]; exists {
		return ErrDuplicate
	}
	for _, f := range d.firms {
		if f.Pin == firm.Pin {
			return ErrDuplicate
		}
	}
	d.firms[firm.ID] = copyFirm(firm)
	return nil
}

func (r *memoryFirmRepo) GetByID(ctx context.Context, id string) (*domain.Firm, error) {
	defer r.rlock()()
	if f, ok := r.s.data.firms[id]; ok {
		return copyFirm(f), nil
	}
	return nil, nil
}

func (r *memoryFirmRepo) GetByPin(ctx context.Context, pin string) (*domain.Firm, error) {
	defer r.rlock()()
	for _, f := range r.s.data.firms {
		if f.Pin == pin {
			return copyFirm(f), nil
		}
	}
	return nil, nil
}

func (r *memoryFirmRepo) ListActive(ctx context.Context) ([]*domain.Firm, error) {
	defer r.rlock()()
	firms := make([]*domain.Firm, 0, len(r.s.data.firms))
	for _, f := range r.s.data.firms {
		if f.IsActive {
			firms = append(firms, copyFirm(f))
		}
	}
	slices.SortFunc(firms, func(a, b *domain.Firm) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return firms, nil
}

func (r *memoryFirmRepo) ExistsByPin(ctx context.Context, pin string) (bool, error) {
	f, err := r.GetByPin(ctx, pin)
	return f != nil, err
}

func (r *memoryFirmRepo) SetSpreadsheetID(ctx context.Context, id, spreadsheetID string) error {
	defer r.lock()()
	f, ok := r.s.data.firms[id]
	if !ok {
		return domain.NotFound("firm")
	}
	f.SpreadsheetID = spreadsheetID
	return nil
}

// Users

type memoryUserRepo struct{ memoryScope }

func (r *memoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	defer r.lock()()
	d := r.s.data
	if _, exists := d.users[user.ID]; exists {
		return ErrDuplicate
	}
	email := domain.NormalizeEmail(user.Email)
	for _, u := range d.users {
		if u.Email == email {
			return ErrDuplicate
		}
	}
	stored := copyUser(user)
	stored.Email = email
	d.users[user.ID] = stored
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	defer r.rlock()()
	if u, ok := r.s.data.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	defer r.rlock()()
	email = domain.NormalizeEmail(email)
	for _, u := range r.s.data.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) ListByFirm(ctx context.Context, firmID string) ([]*domain.User, error) {
	defer r.rlock()()
	users := make([]*domain.User, 0)
	for _, u := range r.s.data.users {
		if u.BelongsTo(firmID) {
			users = append(users, copyUser(u))
		}
	}
	slices.SortFunc(users, func(a, b *domain.User) int {
		return oldestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return users, nil
}

func (r *memoryUserRepo) SetFirm(ctx context.Context, userID, firmID string) error {
	defer r.lock()()
	u, ok := r.s.data.users[userID]
	if !ok {
		return domain.NotFound("user")
	}
	if u.FirmID != nil {
		return ErrFirmAssigned
	}
	u.FirmID = &firmID
	return nil
}

// Clients

type memoryClientRepo struct{ memoryScope }

func (r *memoryClientRepo) Create(ctx context.Context, client *domain.Client) error {
	defer r.lock()()
	if _, exists := r.s.data.clients[client.ID]; exists {
		return ErrDuplicate
	}
	r.s.data.clients[client.ID] = copyClient(client)
	return nil
}

func (r *memoryClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	defer r.rlock()()
	if c, ok := r.s.data.clients[id]; ok {
		return copyClient(c), nil
	}
	return nil, nil
}

func (r *memoryClientRepo) ListByFirm(ctx context.Context, firmID string) ([]*domain.Client, error) {
	defer r.rlock()()
	clients := make([]*domain.Client, 0)
	for _, c := range r.s.data.clients {
		if c.FirmID == firmID {
			clients = append(clients, copyClient(c))
		}
	}
	slices.SortFunc(clients, func(a, b *domain.Client) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return clients, nil
}

// Events

type memoryEventRepo struct{ memoryScope }

func (r *memoryEventRepo) Create(ctx context.Context, event *domain.Event) error {
	defer r.lock()()
	if _, exists := r.s.data.events[event.ID]; exists {
		return ErrDuplicate
	}
	r.s.data.events[event.ID] = copyEvent(event)
	return nil
}

func (r *memoryEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	defer r.rlock()()
	if e, ok := r.s.data.events[id]; ok {
		return copyEvent(e), nil
	}
	return nil, nil
}

// GetByIDForUpdate is GetByID; WithTx already serializes writers
func (r *memoryEventRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryEventRepo) GetWithDetails(ctx context.Context, id string) (*domain.EventWithClient, error) {
	defer r.rlock()()
	e, ok := r.s.data.events[id]
	if !ok {
		return nil, nil
	}
	return r.s.data.eventWithDetails(e), nil
}

func (r *memoryEventRepo) ListByFirm(ctx context.Context, firmID string) ([]*domain.EventWithClient, error) {
	defer r.rlock()()
	events := make([]*domain.EventWithClient, 0)
	for _, e := range r.s.data.events {
		if e.FirmID == firmID {
			events = append(events, r.s.data.eventWithDetails(e))
		}
	}
	slices.SortFunc(events, func(a, b *domain.EventWithClient) int {
		return newestFirst(a.EventDate, b.EventDate, a.ID, b.ID)
	})
	return events, nil
}

func (r *memoryEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus, updatedAt time.Time) error {
	defer r.lock()()
	e, ok := r.s.data.events[id]
	if !ok {
		return domain.NotFound("event")
	}
	e.Status = status
	e.UpdatedAt = updatedAt
	return nil
}

func (r *memoryEventRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	defer r.lock()()
	e, ok := r.s.data.events[id]
	if !ok {
		return domain.NotFound("event")
	}
	e.BalanceAmount = balance
	e.UpdatedAt = updatedAt
	return nil
}

func (d *memoryData) eventWithDetails(e *domain.Event) *domain.EventWithClient {
	view := &domain.EventWithClient{
		Event:    *copyEvent(e),
		Tasks:    make([]*domain.Task, 0),
		Payments: make([]*domain.Payment, 0),
	}
	if c, ok := d.clients[e.ClientID]; ok {
		view.Client = copyClient(c)
	}
	if e.PhotographerID != nil {
		if u, ok := d.users[*e.PhotographerID]; ok {
			view.Photographer = copyUser(u)
		}
	}
	if e.VideographerID != nil {
		if u, ok := d.users[*e.VideographerID]; ok {
			view.Videographer = copyUser(u)
		}
	}
	for _, t := range d.tasks {
		if t.EventID == e.ID {
			view.Tasks = append(view.Tasks, copyTask(t))
		}
	}
	slices.SortFunc(view.Tasks, func(a, b *domain.Task) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	for _, p := range d.payments {
		if p.EventID == e.ID {
			view.Payments = append(view.Payments, copyPayment(p))
		}
	}
	slices.SortFunc(view.Payments, comparePayments)
	return view
}

func (d *memoryData) eventSummary(eventID string) *domain.EventSummary {
	e, ok := d.events[eventID]
	if !ok {
		return nil
	}
	s := &domain.EventSummary{Event: *copyEvent(e)}
	if c, ok := d.clients[e.ClientID]; ok {
		s.Client = copyClient(c)
	}
	return s
}

// Tasks

type memoryTaskRepo struct{ memoryScope }

func (r *memoryTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	defer r.lock()()
	if _, exists := r.s.data.tasks[task.ID]; exists {
		return ErrDuplicate
	}
	r.s.data.tasks[task.ID] = copyTask(task)
	return nil
}

func (r *memoryTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	defer r.rlock()()
	if t, ok := r.s.data.tasks[id]; ok {
		return copyTask(t), nil
	}
	return nil, nil
}

func (r *memoryTaskRepo) ListByFirm(ctx context.Context, firmID string) ([]*domain.TaskWithDetails, error) {
	defer r.rlock()()
	return r.s.data.listTasks(func(t *domain.Task) bool { return t.FirmID == firmID }), nil
}

func (r *memoryTaskRepo) ListByAssignee(ctx context.Context, firmID, userID string) ([]*domain.TaskWithDetails, error) {
	defer r.rlock()()
	return r.s.data.listTasks(func(t *domain.Task) bool {
		return t.FirmID == firmID && t.AssignedTo == userID
	}), nil
}

func (r *memoryTaskRepo) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	defer r.rlock()()
	tasks := make([]*domain.Task, 0)
	for _, t := range r.s.data.tasks {
		if t.IsOverdueAt(now) {
			tasks = append(tasks, copyTask(t))
		}
	}
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return oldestFirst(*a.DueDate, *b.DueDate, a.ID, b.ID)
	})
	return tasks, nil
}

func (r *memoryTaskRepo) UpdateStatus(ctx context.Context, task *domain.Task) error {
	defer r.lock()()
	t, ok := r.s.data.tasks[task.ID]
	if !ok {
		return domain.NotFound("task")
	}
	t.Status = task.Status
	t.CompletedAt = copyTime(task.CompletedAt)
	t.UpdatedAt = task.UpdatedAt
	return nil
}

func (d *memoryData) listTasks(match func(*domain.Task) bool) []*domain.TaskWithDetails {
	tasks := make([]*domain.TaskWithDetails, 0)
	for _, t := range d.tasks {
		if !match(t) {
			continue
		}
		view := &domain.TaskWithDetails{Task: *copyTask(t), Event: d.eventSummary(t.EventID)}
		if u, ok := d.users[t.AssignedTo]; ok {
			view.AssignedUser = copyUser(u)
		}
		tasks = append(tasks, view)
	}
	slices.SortFunc(tasks, func(a, b *domain.TaskWithDetails) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return tasks
}

// Payments

type memoryPaymentRepo struct{ memoryScope }

func (r *memoryPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	defer r.lock()()
	if _, exists := r.s.data.payments[payment.ID]; exists {
		return ErrDuplicate
	}
	r.s.data.payments[payment.ID] = copyPayment(payment)
	return nil
}

func (r *memoryPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	defer r.rlock()()
	if p, ok := r.s.data.payments[id]; ok {
		return copyPayment(p), nil
	}
	return nil, nil
}

func (r *memoryPaymentRepo) ListByFirm(ctx context.Context, firmID string) ([]*domain.PaymentWithEvent, error) {
	defer r.rlock()()
	payments := make([]*domain.PaymentWithEvent, 0)
	for _, p := range r.s.data.payments {
		if p.FirmID == firmID {
			payments = append(payments, &domain.PaymentWithEvent{
				Payment: *copyPayment(p),
				Event:   r.s.data.eventSummary(p.EventID),
			})
		}
	}
	slices.SortFunc(payments, func(a, b *domain.PaymentWithEvent) int {
		return comparePayments(&a.Payment, &b.Payment)
	})
	return payments, nil
}

func (r *memoryPaymentRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Payment, error) {
	defer r.rlock()()
	payments := make([]*domain.Payment, 0)
	for _, p := range r.s.data.payments {
		if p.EventID == eventID {
			payments = append(payments, copyPayment(p))
		}
	}
	slices.SortFunc(payments, comparePayments)
	return payments, nil
}

func comparePayments(a, b *domain.Payment) int {
	if c := b.PaymentDate.Compare(a.PaymentDate); c != 0 {
		return c
	}
	return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
}

// Expenses

type memoryExpenseRepo struct{ memoryScope }

func (r *memoryExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	defer r.lock()()
	if _, exists := r.s.data.expenses[expense.ID]; exists {
		return ErrDuplicate
	}
	r.s.data.expenses[expense.ID] = copyExpense(expense)
	return nil
}

func (r *memoryExpenseRepo) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	defer r.rlock()()
	if e, ok := r.s.data.expenses[id]; ok {
		return copyExpense(e), nil
	}
	return nil, nil
}

func (r *memoryExpenseRepo) ListByFirm(ctx context.Context, firmID string) ([]*domain.Expense, error) {
	defer r.rlock()()
	expenses := make([]*domain.Expense, 0)
	for _, e := range r.s.data.expenses {
		if e.FirmID == firmID {
			expenses = append(expenses, copyExpense(e))
		}
	}
	slices.SortFunc(expenses, func(a, b *domain.Expense) int {
		if c := b.ExpenseDate.Compare(a.ExpenseDate); c != 0 {
			return c
		}
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return expenses, nil
}

// Activity

type memoryActivityRepo struct{ memoryScope }

func (r *memoryActivityRepo) Append(ctx context.Context, entry *domain.ActivityLog) error {
	defer r.lock()()
	stored := *entry
	r.s.data.activity = append(r.s.data.activity, &stored)
	return nil
}

func (r *memoryActivityRepo) ListByFirm(ctx context.Context, firmID string, limit int) ([]*domain.ActivityWithUser, error) {
	defer r.rlock()()
	entries := make([]*domain.ActivityWithUser, 0, limit)
	for i := len(r.s.data.activity) - 1; i >= 0 && len(entries) < limit; i-- {
		a := r.s.data.activity[i]
		if a.FirmID != firmID {
			continue
		}
		view := &domain.ActivityWithUser{ActivityLog: *a}
		if u, ok := r.s.data.users[a.UserID]; ok {
			view.User = copyUser(u)
		}
		entries = append(entries, view)
	}
	return entries, nil
}

// Quotations

type memoryQuotationRepo struct{ memoryScope }

func (r *memoryQuotationRepo) Create(ctx context.Context, q *domain.Quotation) error {
	defer r.lock()()
	if _, exists := r.s.data.quotations[q.ID]; exists {
		return ErrDuplicate
	}
	r.s.data.quotations[q.ID] = copyQuotation(q)
	return nil
}

func (r *memoryQuotationRepo) GetByID(ctx context.Context, id string) (*domain.Quotation, error) {
	defer r.rlock()()
	if q, ok := r.s.data.quotations[id]; ok {
		return copyQuotation(q), nil
	}
	return nil, nil
}

func (r *memoryQuotationRepo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Quotation, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryQuotationRepo) ListByFirm(ctx context.Context, firmID string) ([]*domain.Quotation, error) {
	defer r.rlock()()
	quotes := make([]*domain.Quotation, 0)
	for _, q := range r.s.data.quotations {
		if q.FirmID == firmID {
			quotes = append(quotes, copyQuotation(q))
		}
	}
	slices.SortFunc(quotes, func(a, b *domain.Quotation) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return quotes, nil
}

func (r *memoryQuotationRepo) Update(ctx context.Context, q *domain.Quotation) error {
	defer r.lock()()
	stored, ok := r.s.data.quotations[q.ID]
	if !ok {
		return domain.NotFound("quotation")
	}
	stored.Status = q.Status
	stored.EventID = copyString(q.EventID)
	stored.UpdatedAt = q.UpdatedAt
	return nil
}

// Stats

type memoryStatsRepo struct{ memoryScope }

// DashboardCounts walks each table once
func (r *memoryStatsRepo) DashboardCounts(ctx context.Context, firmID string, w domain.StatsWindow) (domain.DashboardCounts, error) {
	defer r.rlock()()
	d := r.s.data
	var c domain.DashboardCounts

	for _, p := range d.payments {
		if p.FirmID != firmID {
			continue
		}
		c.TotalRevenue = c.TotalRevenue.Add(p.Amount)
		switch {
		case !p.PaymentDate.Before(w.MonthStart):
			c.ThisMonthRevenue = c.ThisMonthRevenue.Add(p.Amount)
		case !p.PaymentDate.Before(w.LastMonthStart):
			c.LastMonthRevenue = c.LastMonthRevenue.Add(p.Amount)
		}
	}
	for _, e := range d.events {
		if e.FirmID != firmID {
			continue
		}
		if e.Status.IsActive() {
			c.ActiveEvents++
		}
		if !e.EventDate.Before(w.Now) && e.EventDate.Before(w.WeekEnd) {
			c.WeeklyEvents++
		}
	}
	for _, t := range d.tasks {
		if t.FirmID != firmID {
			continue
		}
		if t.Status == domain.TaskStatusPending {
			c.PendingTasks++
		}
		if t.Status.IsOpen() && t.DueDate != nil && !t.DueDate.Before(w.DayStart) && t.DueDate.Before(w.DayEnd) {
			c.TasksToday++
		}
	}
	for _, u := range d.users {
		if !u.BelongsTo(firmID) {
			continue
		}
		c.TeamMembers++
		if u.IsActive {
			c.ActiveTeamMembers++
		}
	}
	return c, nil
}

func (r *memoryStatsRepo) FinancialSummary(ctx context.Context, firmID string) (domain.FinancialSummary, error) {
	defer r.rlock()()
	d := r.s.data
	total, received, expenses := decimal.Zero, decimal.Zero, decimal.Zero

	for _, e := range d.events {
		if e.FirmID == firmID {
			total = total.Add(e.TotalAmount)
		}
	}
	for _, p := range d.payments {
		if p.FirmID == firmID {
			received = received.Add(p.Amount)
		}
	}
	for _, e := range d.expenses {
		if e.FirmID == firmID {
			expenses = expenses.Add(e.Amount)
		}
	}
	return domain.NewFinancialSummary(total, received, expenses), nil
}

// ordering helpers, ties broken by id so results are stable

func newestFirst(a, b time.Time, aID, bID string) int {
	if c := b.Compare(a); c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}

func oldestFirst(a, b time.Time, aID, bID string) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}

// copy helpers

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyFirm(f *domain.Firm) *domain.Firm {
	c := *f
	return &c
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.FirmID = copyString(u.FirmID)
	return &c
}

func copyClient(cl *domain.Client) *domain.Client {
	c := *cl
	return &c
}

func copyEvent(e *domain.Event) *domain.Event {
	c := *e
	c.PhotographerID = copyString(e.PhotographerID)
	c.VideographerID = copyString(e.VideographerID)
	return &c
}

func copyTask(t *domain.Task) *domain.Task {
	c := *t
	c.DueDate = copyTime(t.DueDate)
	c.CompletedAt = copyTime(t.CompletedAt)
	return &c
}

func copyPayment(p *domain.Payment) *domain.Payment {
	c := *p
	return &c
}

func copyExpense(e *domain.Expense) *domain.Expense {
	c := *e
	return &c
}

func copyQuotation(q *domain.Quotation) *domain.Quotation {
	c := *q
	c.ValidUntil = copyTime(q.ValidUntil)
	c.EventID = copyString(q.EventID)
	return &c
}
