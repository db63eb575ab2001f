package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aviral-workprojects/krishi-connect/api/routes"
	internalauth "github.com/aviral-workprojects/krishi-connect/internal/auth"
	"github.com/aviral-workprojects/krishi-connect/internal/crops"
	"github.com/aviral-workprojects/krishi-connect/internal/events"
	"github.com/aviral-workprojects/krishi-connect/internal/inventory"
	"github.com/aviral-workprojects/krishi-connect/internal/leaderboard"
	"github.com/aviral-workprojects/krishi-connect/internal/orders"
	"github.com/aviral-workprojects/krishi-connect/internal/payments"
	"github.com/aviral-workprojects/krishi-connect/pkg/config"
	"github.com/aviral-workprojects/krishi-connect/pkg/db"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
	"github.com/aviral-workprojects/krishi-connect/pkg/metrics"
	"github.com/aviral-workprojects/krishi-connect/pkg/migrate"
	"github.com/aviral-workprojects/krishi-connect/pkg/mlapi"
	"github.com/aviral-workprojects/krishi-connect/pkg/pubsub"
	"github.com/aviral-workprojects/krishi-connect/pkg/razorpay"
	"github.com/aviral-workprojects/krishi-connect/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	eventMetrics := metrics.NewEventMetrics(prometheus.DefaultRegisterer)
	publisher, err := events.NewPublisher(pubsubClient, logg, eventMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create event publisher", err)
		os.Exit(1)
	}

	gateway, err := razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment gateway client", err)
		os.Exit(1)
	}

	verifier, err := payments.NewVerifier(cfg.Razorpay.KeySecret)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment verifier", err)
		os.Exit(1)
	}

	mlClient, err := mlapi.NewClient(cfg.MLAPI.BaseURL, cfg.MLAPI.Timeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create ml api client", err)
		os.Exit(1)
	}

	authService, err := internalauth.NewService(internalauth.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cropsRepo := crops.NewRepository(dbClient.DB())
	cropsService, err := crops.NewService(cropsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create crops service", err)
		os.Exit(1)
	}

	ledger := inventory.NewLedger(dbClient.DB())
	builder, err := orders.NewBuilder(cropsRepo, ledger)
	if err != nil {
		logg.Error(context.Background(), "failed to create order builder", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		dbClient,
		orders.NewRepository(dbClient.DB()),
		builder,
		ledger,
		gateway,
		verifier,
		publisher,
		logg,
		cfg.Razorpay.Currency,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	leaderboardService, err := leaderboard.NewService(leaderboard.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create leaderboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Auth:        authService,
			Crops:       cropsService,
			Orders:      ordersService,
			Leaderboard: leaderboardService,
			MLAPI:       mlClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
