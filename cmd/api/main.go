package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/adrianbarna/edusphere-backend-sub000/api/routes"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/absences"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/auth"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/billing"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/children"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/groups"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/incidents"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/messages"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/organizations"
	"github.com/adrianbarna/edusphere-backend-sub000/internal/users"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/auth/session"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/config"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/db"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/logger"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/metrics"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/migrate"
	"github.com/adrianbarna/edusphere-backend-sub000/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	billingMetrics := metrics.NewBillingMetrics(promRegistry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	organizationsService, err := organizations.NewService(organizations.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create organizations service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	childrenRepo := children.NewRepository(dbClient.DB())
	childrenService, err := children.NewService(childrenRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create children service", err)
		os.Exit(1)
	}

	groupsService, err := groups.NewService(groups.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create groups service", err)
		os.Exit(1)
	}

	absencesService, err := absences.NewService(absences.NewRepository(dbClient.DB()), childrenRepo, cfg.Billing)
	if err != nil {
		logg.Error(context.Background(), "failed to create absences service", err)
		os.Exit(1)
	}

	incidentsService, err := incidents.NewService(incidents.NewRepository(dbClient.DB()), childrenRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create incidents service", err)
		os.Exit(1)
	}

	messagesService, err := messages.NewService(messages.NewRepository(dbClient.DB()), users.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create messages service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.NewRepository(dbClient.DB()), dbClient, billingMetrics, cfg.Billing)
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
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
			Config:          cfg,
			Logger:          logg,
			DBPinger:        dbClient,
			RedisClient:     redisClient,
			SessionManager:  sessionManager,
			AuthService:     authService,
			RegisterService: registerService,
			Organizations:   organizationsService,
			Users:           usersService,
			Children:        childrenService,
			Groups:          groupsService,
			Absences:        absencesService,
			Incidents:       incidentsService,
			Messages:        messagesService,
			Billing:         billingService,
			Metrics:         promRegistry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
