package handler

import (
	"net/http"
	"testing"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/pkg/response"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedRoutes_RequireSession(t *testing.T) {
	s := newTestServer(t, nil)
	paths := []string{
		"/api/dashboard/stats", "/api/dashboard/financial-summary", "/api/activity",
		"/api/events", "/api/tasks", "/api/tasks/mine", "/api/clients", "/api/payments",
		"/api/expenses", "/api/team", "/api/quotations", "/api/clients/abc",
	}
	for _, path := range paths {
		w, env := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		if assert.NotNil(t, env.Error, path) {
			assert.Equal(t, response.ErrCodeUnauthorized, env.Error.Code)
		}
	}

	w, _ := s.do(http.MethodGet, "/api/clients", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnership_OtherFirmLooksMissing(t *testing.T) {
	s := newTestServer(t, nil)
	owner, _ := s.signupAdmin("owner@studio.com")
	rival, _ := s.signupAdmin("rival@studio.com")

	client := s.createClient(owner, "Meera Shah")
	event := s.createEvent(owner, client.ID, "1000", "0")

	w, _ := s.do(http.MethodGet, "/api/clients/"+client.ID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/clients/" + client.ID, "/api/events/" + event.ID, "/api/clients/does-not-exist"} {
		w, env := s.do(http.MethodGet, path, rival, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, response.ErrCodeNotFound, env.Error.Code)
	}

	w, _ = s.do(http.MethodPatch, "/api/events/"+event.ID+"/status", rival, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPost, "/api/payments", rival, map[string]any{"eventId": event.ID, "amount": "10", "paymentMethod": "cash"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := s.do(http.MethodGet, "/api/clients", rival, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Meta.Count)
}

func TestEventsAndPayments(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.signupAdmin("owner@studio.com")
	client := s.createClient(token, "Meera Shah")

	w, env := s.do(http.MethodPost, "/api/events", token, map[string]any{
		"clientId": client.ID, "title": "Wedding", "eventType": "wedding", "eventDate": "2025-03-01",
		"totalAmount": "1000", "advanceAmount": "1200",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrCodeValidationFailed, env.Error.Code)

	event := s.createEvent(token, client.ID, "1000", "300")
	assert.True(t, decimal.NewFromInt(700).Equal(event.BalanceAmount))

	w, _ = s.do(http.MethodPost, "/api/payments", token, map[string]any{"eventId": event.ID, "amount": "701", "paymentMethod": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, "/api/payments", token, map[string]any{"eventId": event.ID, "amount": "200", "paymentMethod": "upi"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = s.do(http.MethodGet, "/api/events/"+event.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[domain.EventWithClient](t, env)
	assert.True(t, decimal.NewFromInt(500).Equal(details.BalanceAmount))
	assert.Len(t, details.Payments, 2)
	assert.Equal(t, client.ID, details.Client.ID)

	w, env = s.do(http.MethodPatch, "/api/events/"+event.ID+"/status", token, map[string]any{"status": "editing"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.EventStatusEditing, decode[domain.Event](t, env).Status)

	w, _ = s.do(http.MethodPatch, "/api/events/"+event.ID+"/status", token, map[string]any{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/dashboard/financial-summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[domain.FinancialSummary](t, env)
	assert.True(t, decimal.NewFromInt(1000).Equal(summary.TotalRevenue))
	assert.True(t, decimal.NewFromInt(500).Equal(summary.ReceivedAmount))
	assert.True(t, decimal.NewFromInt(500).Equal(summary.PendingAmount))

	w, env = s.do(http.MethodGet, "/api/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[domain.DashboardStats](t, env)
	assert.True(t, decimal.NewFromInt(500).Equal(stats.TotalRevenue))
	assert.Equal(t, 1, stats.TeamMembers)
}

func TestTeamAndTasks(t *testing.T) {
	s := newTestServer(t, nil)
	admin, firm := s.signupAdmin("owner@studio.com")

	member := map[string]any{
		"email": "ravi@studio.com", "password": "staff-password", "firstName": "Ravi", "lastName": "Kumar",
		"phone": "9123456780", "role": "editor",
	}
	w, env := s.do(http.MethodPost, "/api/team", admin, member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	editor := decode[domain.User](t, env)

	w, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"firmPin": firm.Pin, "username": "ravi", "password": "staff-password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	staff := decode[loggedIn](t, env).Token

	member["email"] = "another@studio.com"
	w, env = s.do(http.MethodPost, "/api/team", staff, member)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrCodeForbidden, env.Error.Code)

	event := s.createEvent(admin, s.createClient(admin, "Meera Shah").ID, "1000", "0")
	w, env = s.do(http.MethodPost, "/api/tasks", admin, map[string]any{
		"eventId": event.ID, "assignedTo": editor.ID, "title": "Color grade", "taskType": "editing", "dueDate": "2030-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	task := decode[domain.TaskWithDetails](t, env)

	w, env = s.do(http.MethodGet, "/api/tasks/mine", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Meta.Count)

	w, env = s.do(http.MethodPatch, "/api/tasks/"+task.ID+"/status", staff, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	done := decode[domain.Task](t, env)
	assert.NotNil(t, done.CompletedAt)

	w, env = s.do(http.MethodGet, "/api/activity?limit=2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, env.Meta.Count)
	entries := decode[[]domain.ActivityWithUser](t, env)
	assert.Equal(t, domain.ActionTaskUpdated, entries[0].Action)

	w, _ = s.do(http.MethodGet, "/api/activity?limit=many", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQuotationConvert(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.signupAdmin("owner@studio.com")
	client := s.createClient(token, "Meera Shah")

	w, env := s.do(http.MethodPost, "/api/quotations", token, map[string]any{
		"clientId": client.ID, "title": "Engagement shoot", "eventType": "engagement",
		"eventDate": "2025-05-05", "totalAmount": "2500",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	q := decode[domain.Quotation](t, env)

	w, _ = s.do(http.MethodPost, "/api/quotations/"+q.ID+"/convert", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/api/quotations/"+q.ID+"/convert", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(http.MethodGet, "/api/events", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.Meta.Count)

	w, env = s.do(http.MethodGet, "/api/quotations/"+q.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.QuotationStatusConverted, decode[domain.Quotation](t, env).Status)
}
