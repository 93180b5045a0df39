package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"learnquiz-service/internal/app"
	"learnquiz-service/internal/config"
	"learnquiz-service/internal/domain"
	"learnquiz-service/internal/infra/memory"
	"learnquiz-service/internal/infra/postgres"
	rediscache "learnquiz-service/internal/infra/redis"
	"learnquiz-service/internal/logger"
	transport "learnquiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the learnquiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	authSecret := cfg.Auth.Secret
	if authSecret == "" {
		authSecret = "insecure-dev-secret"
		log.Warn("auth secret not configured, using development default")
	}
	accessTTL := config.TTLDuration(cfg.Auth.AccessTTL, 30*time.Minute)
	refreshTTL := config.TTLDuration(cfg.Auth.RefreshTTL, 7*24*time.Hour)

	var (
		loader       memory.QuizLoader
		catalogStore app.CatalogStore
		users        app.UserRepository
		tokens       app.TokenRepository
		profiles     app.ProfileRepository
		streaks      app.StreakRepository
		progress     app.ProgressRepository
		uow          app.UnitOfWork
	)

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		db := postgres.Open(cfg.Postgres.URL)
		defer db.Close()

		loader = postgres.NewQuizLoader(pool)
		catalogStore = postgres.NewCatalogStore(db)
		users = postgres.NewUserRepo(db)
		tokens = postgres.NewTokenRepo(db)
		profiles = postgres.NewProfileRepo(db)
		streaks = postgres.NewStreakRepo(db)
		progress = postgres.NewProgressRepo(db)
		uow = postgres.NewUnitOfWork(db)
	} else {
		log.Warn("postgres url not configured, serving the in-memory demo catalog")
		store := memory.NewStore()
		store.SeedCatalog(memory.SampleCatalog())
		if err := seedDemoUser(ctx, store); err != nil {
			return err
		}

		loader = store
		catalogStore = store
		users = store.Users()
		tokens = store.Tokens()
		profiles = store.Profiles()
		streaks = store.Streaks()
		progress = store.Progress()
		uow = store
	}

	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = rediscache.NewQuizCache(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizCache(loader, quizTTL)
	}

	authService := app.NewAuthService(users, tokens, authSecret, accessTTL, refreshTTL)
	catalogService := app.NewCatalogService(catalogStore, quizRepo)
	progressService := app.NewProgressService(progress)
	streakService := app.NewStreakService(streaks, profiles)
	profileService := app.NewProfileService(users, profiles)
	quizService := app.NewQuizService(quizRepo, profiles, uow)

	router := transport.NewRouter(transport.RouterConfig{
		Auth:        transport.NewAuthHandler(authService, log),
		AuthMW:      transport.NewAuthMiddleware(authService),
		Catalog:     transport.NewCatalogHandler(catalogService, log),
		Quiz:        transport.NewQuizHandler(catalogService, quizService, progressService, log),
		Progress:    transport.NewProgressHandler(progressService, log),
		Streak:      transport.NewStreakHandler(streakService, log),
		Profile:     transport.NewProfileHandler(profileService, log),
		Log:         log,
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting learnquiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func seedDemoUser(ctx context.Context, store *memory.Store) error {
	hash, err := app.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	user := domain.User{Username: demoUsername, Email: demoEmail, PasswordHash: hash}
	return store.Users().Create(ctx, &user)
}
