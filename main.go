package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sahara/config"
	"sahara/database"
	appointmentRepo "sahara/database/repository/appointment"
	userRepoPkg "sahara/database/repository/user"
	"sahara/handlers"
	"sahara/middleware"
	"sahara/routes"
	"sahara/services/appointment"
	"sahara/services/auth"
	ai "sahara/services/intelligence"
	"sahara/services/tickets"
	"sahara/services/user"
	"sahara/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// repositories bundles the storage backend chosen by DATABASE_DRIVER.
type repositories struct {
	users        userRepoPkg.UserRepository
	appointments appointmentRepo.AppointmentRepository
	ping         utils.Pinger
	close        func()
}

func newRepositories(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repositories, error) {
	switch cfg.DatabaseDriver {
	case "mongo":
		client, err := database.InitMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.DatabaseName)
		return &repositories{
			users:        userRepoPkg.NewMongoUserRepo(db, logger),
			appointments: appointmentRepo.NewMongoAppointmentRepo(db, logger),
			ping:         utils.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
			close:        func() { _ = client.Disconnect(context.Background()) },
		}, nil
	case "postgres":
		pool, err := database.InitPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:        userRepoPkg.NewPostgresUserRepo(pool),
			appointments: appointmentRepo.NewPostgresAppointmentRepo(pool),
			ping:         utils.PingFunc(pool.Ping),
			close:        pool.Close,
		}, nil
	case "memory":
		return &repositories{
			users:        userRepoPkg.NewMemoryUserRepo(),
			appointments: appointmentRepo.NewMemoryAppointmentRepo(),
			close:        func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", cfg.DatabaseDriver)
}

func newVerifier(ctx context.Context, cfg *config.Config) (auth.Verifier, error) {
	switch cfg.AuthProvider {
	case "firebase":
		client, err := utils.NewFirebaseAuth(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebaseVerifier(client), nil
	case "jwt":
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
		return auth.NewJWTVerifier(cfg.JWTSecret), nil
	}
	return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.AuthProvider)
}

// newCompleter returns nil when no LLM credential is configured.
func newCompleter(ctx context.Context, cfg *config.Config) (ai.Completer, func(), error) {
	if cfg.LLMAPIKey() == "" {
		return nil, func() {}, nil
	}
	switch cfg.LLMProvider {
	case "gemini":
		g, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return g, func() { _ = g.Close() }, nil
	case "openrouter":
		return ai.NewOpenRouterClient(ai.OpenRouterConfig{
			APIKey:   cfg.OpenRouterAPIKey,
			URL:      cfg.OpenRouterURL,
			Model:    cfg.OpenRouterModel,
			SiteURL:  cfg.OpenRouterSiteURL,
			SiteName: cfg.OpenRouterSiteName,
		}), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "main: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		sugar.Fatalf("main: failed to initialize storage: %v", err)
	}
	defer repos.close()
	sugar.Infof("main: storage driver %s ready", cfg.DatabaseDriver)

	checks := map[string]utils.Pinger{}
	if repos.ping != nil {
		checks["database"] = repos.ping
	}

	// chat history is kept only when Redis is configured.
	var history ai.HistoryStore
	if cfg.RedisAddr != "" {
		redisClient, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisSessionDB)
		if err != nil {
			sugar.Warnf("main: redis unavailable, chat history disabled: %v", err)
		} else {
			defer redisClient.Close()
			history = ai.NewRedisHistoryStore(redisClient, cfg.ChatSessionTTL, cfg.ChatHistoryLimit)
			checks["redis"] = utils.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		}
	}

	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		sugar.Fatalf("main: failed to initialize identity verifier: %v", err)
	}

	completer, closeLLM, err := newCompleter(ctx, cfg)
	if err != nil {
		sugar.Fatalf("main: failed to initialize LLM client: %v", err)
	}
	defer closeLLM()
	if cfg.UseLLM && completer == nil {
		sugar.Warn("main: SAHARA_USE_LLM is set but no LLM credential is configured")
	}

	// services.
	userService := &user.DefaultUserService{Repo: repos.users}
	authService := &auth.DefaultAuthService{Verifier: verifier, Users: repos.users}
	appointmentService := &appointment.DefaultAppointmentService{
		Repo:  repos.appointments,
		Users: repos.users,
	}
	ticketService := tickets.NewDefaultTicketService(tickets.ProviderConfig{
		BusBaseURL:    cfg.BusAPIBase,
		MovieBaseURL:  cfg.MovieAPIBase,
		FlightBaseURL: cfg.FlightAPIBase,
		Timeout:       cfg.TicketProviderTimeout,
	}, logger)
	chatService := ai.NewDefaultChatService(ai.ChatOptions{
		UseLLM:       cfg.UseLLM,
		LLM:          completer,
		LLMTimeout:   cfg.LLMTimeout,
		Tickets:      ticketService,
		Appointments: appointmentService,
		History:      history,
		Logger:       logger,
	})

	health := utils.NewHealthMonitor(checks, 30*time.Second)
	health.Start(ctx)

	userHandler := handlers.NewUserHandler(userService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		AuthService: authService,
		Health:      health,

		ChatHandler: chatHandler.HandleChat,

		CreateAppointmentHandler:    appointmentHandler.CreateAppointmentHandler,
		ListUserAppointmentsHandler: appointmentHandler.ListUserAppointmentsHandler,

		SearchBusHandler:    ticketHandler.SearchBusHandler,
		SearchMovieHandler:  ticketHandler.SearchMovieHandler,
		SearchFlightHandler: ticketHandler.SearchFlightHandler,

		SyncUserHandler:    userHandler.SyncUserHandler,
		GetUserByIDHandler: userHandler.GetUserByIDHandler,
		UpdateUserHandler:  userHandler.UpdateUserHandler,

		MeHandler: handlers.MeHandler,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	routes.RegisterRoutes(router, handlerBundle, cfg.CORSOrigins())

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	sugar.Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugar.Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("main: server forced to shutdown: %v", err)
	}

	sugar.Info("main: server stopped gracefully")
}
