package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/handler"
	"github.com/prohmpiriya/lensdesk/internal/repository"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/internal/sheets"
	"github.com/prohmpiriya/lensdesk/internal/worker"
	"github.com/prohmpiriya/lensdesk/pkg/config"
	"github.com/prohmpiriya/lensdesk/pkg/database"
	"github.com/prohmpiriya/lensdesk/pkg/kafka"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/middleware"
	"github.com/prohmpiriya/lensdesk/pkg/redis"
	"go.uber.org/zap"
)

// Container holds every long-lived dependency of the server
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer

	// Storage
	Store    repository.Store
	Sessions repository.SessionStore

	// Background components
	Mirror        sheets.Mirror
	OverdueWorker *worker.OverdueWorker
	LoginLimiter  *middleware.RateLimiter

	// Services
	Services handler.Services

	// HTTP
	Router *gin.Engine

	log *logger.Logger
}

// NewContainer opens storage and wires services and routes from cfg.
// The configured storage driver and session store are used as is; there is no fallback.
func NewContainer(ctx context.Context, cfg *config.Config, log *logger.Logger) (_ *Container, err error) {
	if log == nil {
		log = logger.Get()
	}
	c := &Container{log: log}
	defer func() {
		if err != nil {
			_ = c.Close(context.Background())
		}
	}()

	if err := c.openStore(ctx, cfg); err != nil {
		return nil, err
	}
	if err := c.openSessions(ctx, cfg); err != nil {
		return nil, err
	}

	var publisher service.Publisher = service.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(&kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
			Topic:    cfg.Kafka.ActivityTopic,
		}, log)
		if err != nil {
			return nil, err
		}
		c.Producer = producer
		publisher = producer
	}

	c.Mirror = sheets.Noop{}
	if cfg.Sheets.Enabled {
		api, err := sheets.NewGoogleClient(ctx, sheets.ClientConfig{
			CredentialsFile:   cfg.Sheets.CredentialsFile,
			RequestsPerSecond: cfg.Sheets.RequestsPerSecond,
			Burst:             cfg.Sheets.Burst,
		})
		if err != nil {
			return nil, err
		}
		c.Mirror = sheets.NewDispatcher(sheets.DispatcherConfig{BufferSize: cfg.Sheets.BufferSize}, api, c.Store.Firms(), log)
	}

	token := middleware.TokenConfig{Secret: cfg.Session.Secret, Issuer: cfg.Session.Issuer, TTL: cfg.Session.TTL}
	sessions := service.NewSessionManager(c.Sessions, token)
	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	activity := service.NewActivityRecorder(c.Store, publisher, log)

	c.Services = handler.Services{
		Auth:       service.NewAuthService(c.Store, sessions, hasher, activity),
		Firms:      service.NewFirmService(c.Store, activity),
		Team:       service.NewTeamService(c.Store, hasher, activity),
		Clients:    service.NewClientService(c.Store, activity, c.Mirror),
		Events:     service.NewEventService(c.Store, activity, c.Mirror),
		Tasks:      service.NewTaskService(c.Store, activity, c.Mirror),
		Payments:   service.NewPaymentService(c.Store, activity, c.Mirror),
		Expenses:   service.NewExpenseService(c.Store, activity, c.Mirror),
		Quotations: service.NewQuotationService(c.Store, activity, c.Mirror),
		Dashboard:  service.NewDashboardService(c.Store),
		Sessions:   sessions,
	}

	if cfg.Worker.OverdueEnabled {
		c.OverdueWorker = worker.NewOverdueWorker(c.Services.Tasks, &worker.OverdueWorkerConfig{
			Schedule: cfg.Worker.OverdueSchedule,
		})
	}

	limits := middleware.DefaultLoginRateLimitConfig()
	if cfg.Auth.LoginRatePerMinute > 0 {
		limits.RequestsPerMinute = cfg.Auth.LoginRatePerMinute
	}
	if cfg.Auth.LoginBurst > 0 {
		limits.BurstSize = cfg.Auth.LoginBurst
	}
	c.LoginLimiter = middleware.NewRateLimiter(limits)

	checks := map[string]handler.Pinger{"store": c.Store}
	if c.DB != nil {
		checks["postgres"] = pingFunc(c.DB.HealthCheck)
	}
	if c.Redis != nil {
		checks["redis"] = pingFunc(func(ctx context.Context) error { return c.Redis.HealthCheck(ctx) })
	}
	if c.Producer != nil {
		checks["kafka"] = c.Producer
	}

	c.Router = handler.NewRouter(handler.RouterConfig{
		Session: middleware.SessionConfig{Token: token, CookieName: cfg.Session.CookieName, Loader: sessions},
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Domain: cfg.Session.CookieDomain,
			Secure: cfg.Session.CookieSecure,
		},
		CORS:         middleware.CORSConfig{AllowOrigins: cfg.CORS.AllowOrigins},
		LoginLimiter: c.LoginLimiter,
		Metrics:      middleware.NewHTTPMetrics("lensdesk"),
		Health:       handler.NewHealthHandler(cfg.App.Version, checks),
		Logger:       log,
	}, c.Services)

	return c, nil
}

func (c *Container) openStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		c.Store = repository.NewMemoryStore()
		c.log.Warn("Using in-memory storage; data is lost on restart")
		return nil
	case config.StorageDriverPostgres:
		db, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return err
		}
		c.DB = db
		if cfg.Database.AutoMigrate {
			applied, err := repository.Migrate(ctx, db.Pool())
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if len(applied) > 0 {
				c.log.Info("Applied migrations", zap.Strings("versions", applied))
			}
		}
		c.Store = repository.NewPostgresStore(db)
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func (c *Container) openSessions(ctx context.Context, cfg *config.Config) error {
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		c.Sessions = repository.NewMemorySessionStore()
		return nil
	case config.SessionStoreRedis:
		client, err := redis.NewClient(ctx, &redis.Config{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return err
		}
		c.Redis = client
		c.Sessions = repository.NewRedisSessionStore(client.Client)
		return nil
	default:
		return fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

// OpenPostgres connects to the configured database
func OpenPostgres(ctx context.Context, cfg *config.Config) (*database.PostgresDB, error) {
	return database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   2 * time.Second,
	})
}

// Start launches background components
func (c *Container) Start(ctx context.Context) error {
	if c.DB != nil {
		stats := c.DB.Stats()
		c.log.Info("postgres pool ready",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("max_conns", stats.MaxConns()),
		)
	}
	if c.OverdueWorker != nil {
		return c.OverdueWorker.Start(ctx)
	}
	return nil
}

// Close stops background work and releases connections, in reverse order of creation
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.OverdueWorker != nil {
		c.OverdueWorker.Stop()
	}
	if c.LoginLimiter != nil {
		c.LoginLimiter.Stop()
	}
	if c.Mirror != nil {
		errs = append(errs, c.Mirror.Close())
	}
	if c.Producer != nil {
		errs = append(errs, c.Producer.Close(ctx))
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	switch {
	case c.Store != nil:
		c.Store.Close()
	case c.DB != nil:
		c.DB.Close()
	}
	return errors.Join(errs...)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
