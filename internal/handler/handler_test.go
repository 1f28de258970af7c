package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/internal/sheets"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCookie = "lensdesk_session"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Count int `json:"count"`
		Limit int `json:"limit"`
	} `json:"meta"`
}

type testServer struct {
	t      *testing.T
	store  *repository.MemoryStore
	hasher *service.PasswordHasher
	router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	token := middleware.TokenConfig{Secret: "handler-test-secret", Issuer: "lensdesk-test", TTL: time.Hour}
	sessions := service.NewSessionManager(repository.NewMemorySessionStore(), token)
	activity := service.NewActivityRecorder(store, service.NoopPublisher{}, logger.NewNop())
	mirror := sheets.Noop{}

	svc := Services{
		Auth:       service.NewAuthService(store, sessions, hasher, activity),
		Firms:      service.NewFirmService(store, activity),
		Team:       service.NewTeamService(store, hasher, activity),
		Clients:    service.NewClientService(store, activity, mirror),
		Events:     service.NewEventService(store, activity, mirror),
		Tasks:      service.NewTaskService(store, activity, mirror),
		Payments:   service.NewPaymentService(store, activity, mirror),
		Expenses:   service.NewExpenseService(store, activity, mirror),
		Quotations: service.NewQuotationService(store, activity, mirror),
		Dashboard:  service.NewDashboardService(store),
		Sessions:   sessions,
	}
	router := NewRouter(RouterConfig{
		Session:      middleware.SessionConfig{Token: token, CookieName: testCookie, Loader: sessions},
		Cookie:       CookieConfig{Name: testCookie},
		CORS:         middleware.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
		LoginLimiter: limiter,
		Health:       NewHealthHandler("test", map[string]Pinger{"store": store}),
	}, svc)

	return &testServer{t: t, store: store, hasher: hasher, router: router}
}

// do sends a JSON request with an optional bearer token
func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type signedUp struct {
	User domain.User `json:"user"`
	Firm domain.Firm `json:"firm"`
}

type loggedIn struct {
	User  domain.User  `json:"user"`
	Firm  *domain.Firm `json:"firm"`
	Token string       `json:"token"`
}

func signupBody(email, role string) map[string]any {
	return map[string]any{
		"email": email, "password": "correct-horse", "firstName": "Asha", "lastName": "Rao",
		"phone": "9876543210", "role": role,
	}
}

// signupAdmin registers an admin, logs in by email and returns the token and firm
func (s *testServer) signupAdmin(email string) (string, domain.Firm) {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/auth/signup", "", signupBody(email, "admin"))
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[signedUp](s.t, env)

	w, env = s.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": email, "password": "correct-horse"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[loggedIn](s.t, env).Token, created.Firm
}

func (s *testServer) createClient(token, name string) domain.Client {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/clients", token, map[string]any{"name": name, "phone": "9000000000"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.Client](s.t, env)
}

func (s *testServer) createEvent(token, clientID string, total, advance string) domain.EventWithClient {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/events", token, map[string]any{
		"clientId": clientID, "title": "Wedding", "eventType": "wedding", "eventDate": "2025-03-01",
		"totalAmount": total, "advanceAmount": advance,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[domain.EventWithClient](s.t, env)
}

func (s *testServer) seedFirmlessAdmin(email string) {
	s.t.Helper()
	hash, err := s.hasher.Hash("correct-horse")
	require.NoError(s.t, err)
	u, err := domain.NewUser(domain.NewUserParams{
		ID: uuid.NewString(), Email: email, PasswordHash: hash,
		FirstName: "Solo", LastName: "Owner", Phone: "9000000001", Role: domain.RoleAdmin,
	}, time.Now())
	require.NoError(s.t, err)
	require.NoError(s.t, s.store.Users().Create(context.Background(), u))
}
