package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/auth"
	"github.com/clipstream-labs/clipstream/backend/internal/cache"
	"github.com/clipstream-labs/clipstream/backend/internal/comment"
	"github.com/clipstream-labs/clipstream/backend/internal/config"
	"github.com/clipstream-labs/clipstream/backend/internal/counter"
	"github.com/clipstream-labs/clipstream/backend/internal/database"
	"github.com/clipstream-labs/clipstream/backend/internal/edge"
	"github.com/clipstream-labs/clipstream/backend/internal/engagement"
	"github.com/clipstream-labs/clipstream/backend/internal/httpapi"
	"github.com/clipstream-labs/clipstream/backend/internal/identity"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/clipstream-labs/clipstream/backend/internal/notification"
	"github.com/clipstream-labs/clipstream/backend/internal/storage/s3"
	"github.com/clipstream-labs/clipstream/backend/internal/video"
	"github.com/clipstream-labs/clipstream/backend/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"gorm.io/gorm"
)

// App holds all application dependencies
type App struct {
	ctx    context.Context
	Config *config.Config
	logger logger.Logger

	db        *gorm.DB
	dbService *database.DatabaseService
	cache     cache.Service
	scylla    *gocql.Session

	router *gin.Engine
	server *http.Server

	response      httpapi.ResponseHandler
	tokens        auth.TokenService
	videos        *video.Service
	engagement    engagement.Service
	notifications *notification.Service
}

// NewApp creates a new application instance with all dependencies
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	loggerService, err := logger.NewService(&logger.Config{
		Level:       logger.Level(cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		Output:      cfg.Logging.Output,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbService := database.NewDatabaseService(&cfg.Database, loggerService)
	db, err := dbService.Connect()
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	cacheService, err := cache.NewRedisService(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	app := &App{
		ctx:       ctx,
		Config:    cfg,
		logger:    loggerService,
		db:        db,
		dbService: dbService,
		cache:     cacheService,
	}

	// Event sink: persisted notifications when enabled, log-only otherwise
	var sink notification.Sink
	if cfg.Notification.Enabled {
		scyllaCfg := cfg.ScyllaDB
		if cfg.Notification.Keyspace != "" {
			scyllaCfg.Keyspace = cfg.Notification.Keyspace
		}
		session, err := notification.NewScyllaSession(scyllaCfg, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize notification storage: %w", err)
		}
		app.scylla = session
		repo := notification.NewScyllaRepository(session, loggerService)
		app.notifications = notification.NewService(repo, loggerService, true)
		sink = app.notifications
	} else {
		sink = notification.NewLogSink(loggerService)
	}

	objectStore, err := s3.NewService(&cfg.Storage.S3, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}

	uow := database.NewUnitOfWork(db, loggerService)
	edges := edge.NewStore(db)
	identities := identity.NewStore(db)
	propagator := counter.NewPropagator(db, loggerService)
	views := view.NewStore(db)
	tracker := view.NewTracker(views, cacheService, propagator, uow, loggerService, cfg.Engagement.ViewCacheTTL)
	comments := comment.NewService(
		comment.NewRepository(db),
		identities,
		cacheService,
		propagator,
		uow,
		loggerService,
		cfg.Engagement,
	)

	app.engagement = engagement.NewService(edges, identities, propagator, uow, tracker, comments, sink, loggerService)
	app.videos = video.NewService(db, objectStore, loggerService)
	app.tokens = auth.NewJWTService(auth.NewConfigFromAuthConfig(&cfg.Auth))
	app.response = httpapi.NewResponseHandler(loggerService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLoggerMiddleware(loggerService))
	app.router = router

	app.setupRoutes()
	return app, nil
}

// Run starts the HTTP server
func (a *App) Run() error {
	addr := fmt.Sprintf(":%d", a.Config.Server.Port)
	a.server = &http.Server{
		Addr:    addr,
		Handler: a.router,
	}

	a.logger.LogInfo("starting server", map[string]interface{}{
		"addr":        addr,
		"environment": a.Config.Environment,
	})

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.LogError(err, "server stopped unexpectedly")
		}
	}()
	return nil
}

// Shutdown stops the server and releases resources
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.LogError(err, "failed to shut down HTTP server")
		}
	}
	if a.scylla != nil {
		a.scylla.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.LogError(err, "failed to close redis connection")
		}
	}
	if err := a.dbService.Close(); err != nil {
		a.logger.LogError(err, "failed to close database connection")
		return err
	}

	a.logger.LogInfo("shutdown complete", nil)
	return nil
}
