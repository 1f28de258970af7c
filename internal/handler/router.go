package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
)

// Services is everything the HTTP layer calls into
type Services struct {
	Auth       service.AuthService
	Firms      service.FirmService
	Team       service.TeamService
	Clients    service.ClientService
	Events     service.EventService
	Tasks      service.TaskService
	Payments   service.PaymentService
	Expenses   service.ExpenseService
	Quotations service.QuotationService
	Dashboard  service.DashboardService
	Sessions   *service.SessionManager
}

// RouterConfig wires the cross-cutting middleware
type RouterConfig struct {
	Session      middleware.SessionConfig
	Cookie       CookieConfig
	CORS         middleware.CORSConfig
	LoginLimiter *middleware.RateLimiter
	Metrics      *middleware.HTTPMetrics
	Health       *HealthHandler
	Logger       *logger.Logger
}

// NewRouter builds the gin engine with every route of the API
func NewRouter(cfg RouterConfig, svc Services) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger, "/health", "/ready", "/metrics"))
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", cfg.Metrics.Handler())
	}
	r.Use(middleware.CORS(cfg.CORS))

	if cfg.Health != nil {
		r.GET("/health", cfg.Health.Health)
		r.GET("/ready", cfg.Health.Ready)
	}

	auth := NewAuthHandler(svc.Auth, cfg.Cookie)
	firms := NewFirmHandler(svc.Firms, svc.Sessions, cfg.Cookie)
	team := NewTeamHandler(svc.Team)
	clients := NewClientHandler(svc.Clients)
	events := NewEventHandler(svc.Events)
	tasks := NewTaskHandler(svc.Tasks)
	payments := NewPaymentHandler(svc.Payments)
	expenses := NewExpenseHandler(svc.Expenses)
	quotations := NewQuotationHandler(svc.Quotations)
	dashboard := NewDashboardHandler(svc.Dashboard)

	api := r.Group("/api")
	api.Use(middleware.Session(cfg.Session))

	throttled := []gin.HandlerFunc{}
	if cfg.LoginLimiter != nil {
		throttled = append(throttled, cfg.LoginLimiter.Middleware())
	}
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", append(throttled, auth.Login)...)
		authGroup.POST("/login-email", append(throttled, auth.LoginWithEmail)...)
		authGroup.POST("/signup", append(throttled, auth.Signup)...)
		authGroup.POST("/logout", auth.Logout)
		authGroup.GET("/me", middleware.RequireUser(), auth.Me)
	}

	api.GET("/firms", firms.List)
	api.POST("/firms", middleware.RequireUser(), firms.Create)

	scoped := api.Group("")
	scoped.Use(middleware.RequireFirm())

	ownClient := middleware.RequireOwnership[*domain.Client]("id", "client", svc.Clients.Get)
	ownEvent := middleware.RequireOwnership[*domain.EventWithClient]("id", "event", svc.Events.Details)
	ownTask := middleware.RequireOwnership[*domain.Task]("id", "task", svc.Tasks.Get)
	ownQuotation := middleware.RequireOwnership[*domain.Quotation]("id", "quotation", svc.Quotations.Get)

	scoped.GET("/dashboard/stats", dashboard.Stats)
	scoped.GET("/dashboard/financial-summary", dashboard.FinancialSummary)
	scoped.GET("/activity", dashboard.Activity)

	scoped.GET("/team", team.List)
	scoped.POST("/team", team.Create)

	scoped.GET("/clients", clients.List)
	scoped.POST("/clients", clients.Create)
	scoped.GET("/clients/:id", ownClient, clients.Get)

	scoped.GET("/events", events.List)
	scoped.POST("/events", events.Create)
	scoped.GET("/events/:id", ownEvent, events.Get)
	scoped.PATCH("/events/:id/status", ownEvent, events.UpdateStatus)

	scoped.GET("/tasks", tasks.List)
	scoped.GET("/tasks/mine", tasks.Mine)
	scoped.POST("/tasks", tasks.Create)
	scoped.PATCH("/tasks/:id/status", ownTask, tasks.UpdateStatus)

	scoped.GET("/payments", payments.List)
	scoped.POST("/payments", payments.Create)

	scoped.GET("/expenses", expenses.List)
	scoped.POST("/expenses", expenses.Create)

	scoped.GET("/quotations", quotations.List)
	scoped.POST("/quotations", quotations.Create)
	scoped.GET("/quotations/:id", ownQuotation, quotations.Get)
	scoped.POST("/quotations/:id/convert", ownQuotation, quotations.Convert)

	return r
}
