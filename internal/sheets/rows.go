package sheets

import (
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

// Tab is a worksheet inside a firm's spreadsheet
type Tab string

const (
	TabEvents   Tab = "Events"
	TabClients  Tab = "Clients"
	TabExpenses Tab = "Expenses"
	TabTasks    Tab = "Tasks"
	TabPayments Tab = "Payments"
)

// Tabs lists every worksheet created for a firm, in order
var Tabs = []Tab{TabEvents, TabClients, TabExpenses, TabTasks, TabPayments}

// Headers is the first row written to each tab
var Headers = map[Tab][]any{
	TabEvents:   {"ID", "Title", "Client", "Type", "Date", "Venue", "Status", "Total", "Advance", "Balance", "Created"},
	TabClients:  {"ID", "Name", "Email", "Phone", "Address", "Notes", "Created"},
	TabExpenses: {"ID", "Title", "Category", "Amount", "Date", "Description", "Created"},
	TabTasks:    {"ID", "Title", "Event", "Assigned To", "Type", "Priority", "Status", "Due", "Created"},
	TabPayments: {"ID", "Event", "Amount", "Method", "Date", "Notes", "Created"},
}

// Row is one line queued for a firm's spreadsheet
type Row struct {
	FirmID string
	Tab    Tab
	Values []any
}

const dateLayout = "2006-01-02"

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// ClientRow mirrors a client
func ClientRow(c *domain.Client) Row {
	return Row{FirmID: c.FirmID, Tab: TabClients, Values: []any{
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, formatTime(c.CreatedAt),
	}}
}

// EventRow mirrors an event; clientName may be empty
func EventRow(e *domain.Event, clientName string) Row {
	return Row{FirmID: e.FirmID, Tab: TabEvents, Values: []any{
		e.ID, e.Title, clientName, e.EventType, formatDate(&e.EventDate), e.Venue, string(e.Status),
		e.TotalAmount.StringFixed(2), e.AdvanceAmount.StringFixed(2), e.BalanceAmount.StringFixed(2), formatTime(e.CreatedAt),
	}}
}

// TaskRow mirrors a task
func TaskRow(t *domain.Task, eventTitle, assignee string) Row {
	return Row{FirmID: t.FirmID, Tab: TabTasks, Values: []any{
		t.ID, t.Title, eventTitle, assignee, t.TaskType, string(t.Priority), string(t.Status), formatDate(t.DueDate), formatTime(t.CreatedAt),
	}}
}

// PaymentRow mirrors a payment
func PaymentRow(p *domain.Payment, eventTitle string) Row {
	return Row{FirmID: p.FirmID, Tab: TabPayments, Values: []any{
		p.ID, eventTitle, p.Amount.StringFixed(2), string(p.PaymentMethod), formatDate(&p.PaymentDate), p.Notes, formatTime(p.CreatedAt),
	}}
}

// ExpenseRow mirrors an expense
func ExpenseRow(e *domain.Expense) Row {
	return Row{FirmID: e.FirmID, Tab: TabExpenses, Values: []any{
		e.ID, e.Title, e.Category, e.Amount.StringFixed(2), formatDate(&e.ExpenseDate), e.Description, formatTime(e.CreatedAt),
	}}
}
