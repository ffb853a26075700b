package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	notificationapp "github.com/marketplace/backend/internal/application/notification"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/notification"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/event"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/mailer"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/pricelist"
	"github.com/marketplace/backend/internal/infrastructure/queue"
	"github.com/marketplace/backend/internal/infrastructure/scheduler"
	"github.com/marketplace/backend/internal/infrastructure/storage"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/infrastructure/worker"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//	@title			Marketplace Backend API
//	@version		1.0
//	@description	Retail marketplace: partner price lists, catalog, basket and orders
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Format: "Token {token}" or "Bearer {token}"

const meterName = "github.com/marketplace/backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	// Logs go to the collector too once the log bridge is up
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		if bridged, lerr := logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level))); lerr == nil {
			log = bridged
		}
	}
	defer func() {
		_ = logger.Sync(log)
		_ = logProvider.Shutdown(context.Background())
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter(meterName)

	profiler, err := telemetry.NewProfiler(cfg.Profiler, cfg.App.Name, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		_ = profiler.Stop()
	}()
	if profiler.IsEnabled() && cfg.Profiler.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Database.SlowThreshold))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if reg, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		} else {
			defer func() { _ = reg.Unregister() }()
		}
	}
	log.Info("Database connected successfully")

	marketMetrics, err := telemetry.NewMarketMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Email task queue. The memory driver has no separate worker process,
	// so its pool runs here.
	health := map[string]handler.Pinger{"database": handler.PingFunc(db.Ping)}
	var taskQueue notification.TaskQueue
	var busOpts []event.Option
	switch cfg.Queue.Driver {
	case "memory":
		memQueue := queue.NewMemoryTaskQueue(cfg.Queue.MaxAttempts)
		defer memQueue.Close()
		taskQueue = memQueue

		pool := worker.NewPool(worker.ConfigFrom(cfg.Worker), memQueue, newSender(cfg.Mail, log), marketMetrics, log)
		if err := pool.Start(ctx); err != nil {
			log.Fatal("Failed to start email worker pool", zap.Error(err))
		}
		defer func() {
			if err := pool.Stop(context.Background()); err != nil {
				log.Error("Error stopping email worker pool", zap.Error(err))
			}
		}()
		log.Warn("Using in-memory email queue; queued mail is lost on restart")
	default:
		redisClient, err := queue.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		health["redis"] = redisPinger(redisClient)
		taskQueue = queue.NewRedisTaskQueue(redisClient, cfg.Queue, log)
		// keep Redis round trips off the request path
		busOpts = append(busOpts, event.WithAsyncDispatch())
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	confirmRepo := persistence.NewGormConfirmEmailTokenRepository(db.DB)
	resetRepo := persistence.NewGormPasswordResetTokenRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	shopRepo := persistence.NewGormShopRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productInfoRepo := persistence.NewGormProductInfoRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	orderItemRepo := persistence.NewGormOrderItemRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Account and order events become email tasks
	eventBus := event.NewInMemoryEventBus(log, busOpts...)
	dispatcher := notificationapp.NewDispatcher(userRepo, taskQueue, log)
	eventBus.Subscribe(dispatcher, dispatcher.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	log.Info("Notification dispatcher subscribed", zap.Strings("event_types", dispatcher.EventTypes()))

	partnerOpts := []catalogapp.PartnerServiceOption{catalogapp.WithIngestionMetrics(marketMetrics)}
	if cfg.Storage.Enabled {
		archive, err := storage.NewS3PriceListArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create price-list archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare price-list bucket", zap.Error(err))
		}
		partnerOpts = append(partnerOpts, catalogapp.WithArchiver(archive))
		log.Info("Price-list archive enabled", zap.String("bucket", archive.Bucket()))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	accountConfig := identityapp.DefaultAccountServiceConfig()
	accountConfig.PasswordResetTTL = cfg.Auth.PasswordResetTTL
	accountService := identityapp.NewAccountService(
		userRepo, confirmRepo, resetRepo, contactRepo, jwtService, eventBus, accountConfig, log,
	)
	contactService := identityapp.NewContactService(contactRepo)
	partnerService := catalogapp.NewPartnerService(
		userRepo, shopRepo, txScope,
		pricelist.NewHTTPFetcher(cfg.PriceList), pricelist.NewYAMLParser(),
		eventBus, log, partnerOpts...,
	)
	queryService := catalogapp.NewQueryService(shopRepo, categoryRepo, productInfoRepo)
	basketService := tradeapp.NewBasketService(orderRepo, orderItemRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, contactRepo, userRepo, shopRepo, eventBus, marketMetrics, log)

	maintenance := scheduler.New(scheduler.Config{
		Enabled:    cfg.Scheduler.Enabled,
		Interval:   cfg.Scheduler.Interval,
		JobTimeout: cfg.Scheduler.JobTimeout,
	}, log, scheduler.JobFunc{
		JobName: "purge_expired_reset_tokens",
		Fn: func(ctx context.Context) error {
			purged, err := accountService.PurgeExpiredResetTokens(ctx)
			if purged > 0 {
				log.Info("Purged expired password reset tokens", zap.Int64("count", purged))
			}
			return err
		},
	})
	if err := maintenance.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer func() {
		if err := maintenance.Stop(context.Background()); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: request id and logger first, then tracing so every
	// later middleware runs inside the span, then limits, then identity,
	// then the handlers' observers.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
	}
	engine.Use(middleware.Authenticate(jwtService))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.HTTPMetrics(meter))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   profiler.IsEnabled(),
		SkipPaths: []string{"/health"},
	}))

	engine.GET("/health", handler.NewHealthHandler(health).Check)

	loginLimiter := middleware.NewRateLimiter(cfg.HTTP.LoginRateLimitRequests, cfg.HTTP.LoginRateLimitWindow)
	defer loginLimiter.Stop()

	router.NewRouter(engine).Register(router.Marketplace(router.Handlers{
		User:    handler.NewUserHandler(accountService),
		Contact: handler.NewContactHandler(contactService),
		Partner: handler.NewPartnerHandler(partnerService, orderService),
		Catalog: handler.NewCatalogHandler(queryService),
		Basket:  handler.NewBasketHandler(basketService),
		Order:   handler.NewOrderHandler(orderService),
	}, router.Guards{
		Auth:  middleware.RequireAuth(),
		Shop:  middleware.RequireShop(),
		Login: middleware.LoginRateLimit(loginLimiter),
	})...).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// newSender picks SMTP when credentials are configured and logs messages
// otherwise
func newSender(cfg config.MailConfig, log *zap.Logger) notification.Sender {
	if cfg.Username == "" {
		log.Warn("Mail credentials not set; emails will only be logged")
		return mailer.NewLogSender(log)
	}
	sender, err := mailer.NewSMTPSender(cfg, log)
	if err != nil {
		log.Fatal("Failed to create SMTP sender", zap.Error(err))
	}
	return sender
}

func redisPinger(client *redis.Client) handler.PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
