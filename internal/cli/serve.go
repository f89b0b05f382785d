package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"daily-quiz-service/internal/app"
	"daily-quiz-service/internal/config"
	"daily-quiz-service/internal/daily"
	"daily-quiz-service/internal/domain"
	"daily-quiz-service/internal/infra/memory"
	infrapg "daily-quiz-service/internal/infra/postgres"
	infraredis "daily-quiz-service/internal/infra/redis"
	transport "daily-quiz-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the daily quiz server",
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
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtSecret not configured")
	}

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

	tz := cfg.Quiz.Timezone
	if tz == "" {
		tz = "Europe/Berlin"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}
	cutover := cfg.Quiz.CutoverHour
	if cutover == 0 {
		cutover = daily.DefaultCutoverHour
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	poolTTL := config.TTLDuration(cfg.Quiz.PoolTTL, 10*time.Minute)

	var pgPool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pgPool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pgPool.Close()
	}

	var loader app.PoolLoader = memory.NewStaticPoolLoader(samplePools())
	if pgPool != nil {
		loader = infrapg.NewPoolLoader(pgPool)
	}
	if redisClient != nil {
		loader = infraredis.NewPoolCache(redisClient, loader, poolTTL)
	} else {
		loader = memory.NewPoolCache(loader, poolTTL)
	}

	var sessions app.SessionStore = memory.NewSessionStore()
	var attempts app.AttemptStore = memory.NewAttemptStore()
	if pgPool != nil {
		db := openBunDB(cfg.Postgres.URL)
		defer db.Close()
		sessions = infrapg.NewSessionStore(db)
		attempts = infrapg.NewAttemptStore(db)
	}
	if redisClient != nil {
		sessions = infraredis.NewSessionCache(redisClient, sessions, redisTTL)
	}

	var opts []app.Option
	if cfg.Quiz.DailyCount > 0 {
		opts = append(opts, app.WithDailyCount(cfg.Quiz.DailyCount))
	}
	service := app.NewAssignmentService(sessions, attempts, loader, opts...)

	handler := transport.NewHandler(service, loc, cutover)
	wsHandler := transport.NewWSHandler(service, handler)
	auth := transport.NewJWTAuth(cfg.Auth.JWTSecret)
	router := transport.NewRouter(handler, wsHandler, auth)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting daily quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// samplePools provides a minimal pool for running without Postgres; use the
// seed command against a real database in production.
func samplePools() map[int][]domain.Question {
	return map[int][]domain.Question{
		1: {
			{
				ID:          "sample-1",
				Text:        "What is 2 + 2?",
				Options:     []string{"3", "4", "5", "22"},
				CorrectIdxs: []int{1},
				Cohort:      1,
				Points:      1,
			},
			{
				ID:     "sample-2",
				Text:   "How many bits are in a byte?",
				Answer: "8",
				Cohort: 1,
				Points: 1,
			},
			{
				ID:          "sample-3",
				Text:        "Which of these is a prime number?",
				Options:     []string{"9", "15", "17", "21"},
				CorrectIdxs: []int{2},
				Cohort:      1,
				Points:      2,
			},
		},
	}
}
