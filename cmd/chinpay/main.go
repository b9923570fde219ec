package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
	"github.com/rookgm/chinpay/config"
	"github.com/rookgm/chinpay/internal/auth"
	"github.com/rookgm/chinpay/internal/catalog"
	"github.com/rookgm/chinpay/internal/events"
	handler "github.com/rookgm/chinpay/internal/handler/http"
	"github.com/rookgm/chinpay/internal/logger"
	"github.com/rookgm/chinpay/internal/metrics"
	"github.com/rookgm/chinpay/internal/middleware"
	"github.com/rookgm/chinpay/internal/ratelimit"
	"github.com/rookgm/chinpay/internal/registry"
	"github.com/rookgm/chinpay/internal/repository"
	"github.com/rookgm/chinpay/internal/repository/postgres"
	"github.com/rookgm/chinpay/internal/repository/sqlite"
	"github.com/rookgm/chinpay/internal/service"
	"github.com/rookgm/chinpay/internal/worker"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 5 * time.Second
	eventQueueSize  = 256
)

type store interface {
	service.Store
	Close() error
}

// openStore opens postgres if DSN is set, embedded sqlite otherwise
func openStore(ctx context.Context, cfg *config.Config) (store, error) {
	if cfg.DatabaseDSN == "" {
		logger.Log.Info("using sqlite database", zap.String("path", cfg.SQLitePath))
		return sqlite.Open(cfg.SQLitePath)
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	logger.Log.Info("using postgres database")

	return repository.NewStore(db), nil
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plans, err := catalog.Load(cfg.PlansFile)
	if err != nil {
		logger.Log.Fatal("Error loading plans", zap.Error(err))
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer st.Close()

	reg := registry.New()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promReg, reg.Len)

	// events
	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, eventQueueSize)
		defer func() {
			producer.Close()
			producer.WaitClosed()
		}()
		publisher = producer
		logger.Log.Info("publishing events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	// redemption rate limit
	var limiter service.Limiter
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		tb, err := ratelimit.NewTokenBucket(client, cfg.RedeemRate, cfg.RedeemBurst)
		if err != nil {
			logger.Log.Fatal("Error initializing rate limiter", zap.Error(err))
		}
		limiter = tb
	}

	// dependency injection
	// order
	orderService, err := service.NewOrderService(st, plans, reg,
		service.WithRetireGrace(cfg.RetireGrace),
		service.WithMetrics(m),
		service.WithPublisher(publisher),
	)
	if err != nil {
		logger.Log.Fatal("Error initializing order service", zap.Error(err))
	}
	orderHandler := handler.NewOrderHandler(orderService)
	webhookHandler := handler.NewWebhookHandler(orderService)
	planHandler := handler.NewPlanHandler(orderService)

	// cdk
	cdkService, err := service.NewCDKService(st, plans, limiter, m, publisher)
	if err != nil {
		logger.Log.Fatal("Error initializing cdk service", zap.Error(err))
	}
	cdkHandler := handler.NewCDKHandler(cdkService)

	sweeper := worker.NewSweeper(reg, cfg.OrderTTL, cfg.SweepInterval, m)
	go sweeper.Run(ctx)

	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(middleware.Logging(logger.Log))
	router.Use(chimw.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))

	router.Post("/api/create_order", orderHandler.CreateOrder())
	router.Post("/api/webhook", webhookHandler.Webhook())
	router.Get("/api/get_order_status/{order_uuid}", orderHandler.GetOrderStatus())
	router.Get("/api/get_order_cdk/{order_uuid}", orderHandler.GetOrderCDK())
	router.Post("/api/use_cdk", cdkHandler.UseCDK())
	router.Get("/api/get_plans", planHandler.GetPlans())

	// admin
	if cfg.AdminPasswordHash != "" && cfg.AuthTokenKey != "" {
		tokenKey, err := hex.DecodeString(cfg.AuthTokenKey)
		if err != nil {
			logger.Log.Fatal("Error extracting token key", zap.Error(err))
		}
		token := auth.NewAuthToken(tokenKey)

		adminService, err := service.NewAdminService(st, plans, []byte(cfg.AdminPasswordHash), token)
		if err != nil {
			logger.Log.Fatal("Error initializing admin service", zap.Error(err))
		}
		adminHandler := handler.NewAdminHandler(adminService)

		router.Post("/api/admin/login", adminHandler.Login())

		// routes that require authentication
		router.Group(func(group chi.Router) {
			group.Use(middleware.Auth(token))
			group.Post("/api/admin/cdk_details", adminHandler.CDKDetails())
			group.Post("/api/admin/order_details", adminHandler.OrderDetails())
		})
	} else {
		logger.Log.Warn("admin API is disabled, ADMIN_PASSWORD_HASH and AUTH_TOKEN_KEY are not set")
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Error starting server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Error shutting down server", zap.Error(err))
	}
}
