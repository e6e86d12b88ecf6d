// Package main is the entry point for the Voluntária backend API server.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: business logic without external dependencies
// - Application: use case orchestration (Commands/Queries/Services)
// - Infrastructure: repository implementations, cache, event fanout
// - Interface: HTTP handlers and the websocket event stream
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voluntaria-hub/voluntaria-backend/config"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/adapter"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/command"
	"github.com/voluntaria-hub/voluntaria-backend/internal/application/query"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/forum"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/lesson"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/news"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/partner"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/profile"
	"github.com/voluntaria-hub/voluntaria-backend/internal/domain/subject"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/fanout"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/persistence/memory"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/persistence/postgres"
	"github.com/voluntaria-hub/voluntaria-backend/internal/infrastructure/persistence/redis"
	httpserver "github.com/voluntaria-hub/voluntaria-backend/internal/interface/http"
	"github.com/voluntaria-hub/voluntaria-backend/pkg/circuitbreaker"
	"github.com/voluntaria-hub/voluntaria-backend/pkg/retry"
)

// repositories bundles the persistence ports so the wiring below is the
// same whether they are backed by Postgres or by in-process maps.
type repositories struct {
	lessons    lesson.Repository
	users      profile.UserRepository
	volunteers profile.VolunteerRepository
	learners   profile.LearnerRepository
	subjects   subject.Repository
	news       news.Repository
	partners   partner.Repository
	forum      forum.Repository
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting",
		"app", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ─────────────────────────────────────────────────────────────────────────
	// Persistence
	// ─────────────────────────────────────────────────────────────────────────
	var (
		repos  repositories
		pgConn *postgres.Connection
	)
	if cfg.Database.URL != "" {
		pgConn, err = connectPostgres(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pgConn.Close()

		repos = repositories{
			lessons:    postgres.NewLessonRepository(pgConn),
			users:      postgres.NewUserRepository(pgConn),
			volunteers: postgres.NewVolunteerRepository(pgConn),
			learners:   postgres.NewLearnerRepository(pgConn),
			subjects:   postgres.NewSubjectRepository(pgConn),
			news:       postgres.NewNewsRepository(pgConn),
			partners:   postgres.NewPartnerRepository(pgConn),
			forum:      postgres.NewForumRepository(pgConn),
		}
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{
			lessons:    store.Lessons,
			users:      store.Users,
			volunteers: store.Volunteers,
			learners:   store.Learners,
			subjects:   store.Subjects,
			news:       store.News,
			partners:   store.Partners,
			forum:      store.Forum,
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Leaderboard cache
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache       *redis.Cache
		leaderboard *redis.PointsLeaderboard
	)
	if cfg.Redis.Enabled {
		cache, err = connectRedis(ctx, cfg, logger)
		if err != nil {
			// The leaderboard degrades to database reads; boot anyway.
			logger.Error("redis unavailable, leaderboard cache disabled", "error", err)
		} else {
			defer cache.Close()
			leaderboard = redis.NewPointsLeaderboard(cache)
			warmLeaderboard(ctx, leaderboard, repos, logger)
		}
	}

	cacheBreaker := circuitbreaker.New("leaderboard-cache",
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		}),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// Event fanout
	// ─────────────────────────────────────────────────────────────────────────
	hub := fanout.NewHub(fanout.Config{
		BufferSize: cfg.Fanout.BufferSize,
		Logger:     logger,
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Application layer
	// ─────────────────────────────────────────────────────────────────────────
	var mirror command.ScoreMirror
	if leaderboard != nil {
		mirror = leaderboard
	}

	deps := httpserver.Dependencies{
		RequestLesson:  command.NewRequestLessonHandler(repos.lessons, repos.learners, repos.subjects, hub),
		AcceptLesson:   command.NewAcceptLessonHandler(repos.lessons, repos.volunteers, hub),
		ConfirmLesson:  command.NewConfirmLessonHandler(repos.lessons, hub),
		CompleteLesson: command.NewCompleteLessonHandler(repos.lessons, repos.volunteers, repos.users, mirror, hub, logger),
		CancelLesson:   command.NewCancelLessonHandler(repos.lessons, hub),
		UpdateLesson:   command.NewUpdateLessonHandler(repos.lessons, hub),

		GetLesson:            query.NewGetLessonHandler(repos.lessons),
		ListLessons:          query.NewListLessonsHandler(repos.lessons),
		ListAvailableLessons: query.NewListAvailableLessonsHandler(repos.lessons),
		GetLeaderboard:       newLeaderboardQuery(leaderboard, cacheBreaker, repos, logger),

		Profiles: adapter.NewProfileService(repos.users, repos.volunteers, repos.learners, hub),
		Subjects: adapter.NewSubjectService(repos.subjects, hub),
		News:     adapter.NewNewsService(repos.news, hub),
		Partners: adapter.NewPartnerService(repos.partners),
		Forum:    adapter.NewForumService(repos.forum, hub),

		Hub:    hub,
		Logger: logger,
	}
	if pgConn != nil {
		deps.PingDatabase = pgConn.Ping
	}
	if cache != nil {
		deps.PingCache = cache.Ping
	}

	// ─────────────────────────────────────────────────────────────────────────
	// HTTP server
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpserver.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.EnableCORS = cfg.HTTP.EnableCORS
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins

	server := httpserver.NewServer(serverCfg, deps)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────────────────
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	hub.Close()

	logger.Info("shutdown complete")
	return nil
}

// setupLogger builds the process-wide structured logger: pretty text in
// development, JSON elsewhere.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.App.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// connectPostgres dials the database with retry and runs pending
// migrations.
func connectPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*postgres.Connection, error) {
	var conn *postgres.Connection
	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = postgres.NewConnection(ctx, cfg.Database.URL)
		return err
	}, retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Warn("postgres connect failed, retrying", "attempt", attempt, "delay", delay, "error", err)
	}))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	logger.Info("postgres connected")
	return conn, nil
}

// connectRedis dials the cache with retry.
func connectRedis(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*redis.Cache, error) {
	var cache *redis.Cache
	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		cache, err = redis.NewCache(ctx, cfg.Redis.URL)
		return err
	},
		retry.WithMaxAttempts(3),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Warn("redis connect failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connected")
	return cache, nil
}

// warmLeaderboard seeds the sorted set from the volunteers table so the
// ranking is servable from cache right after boot. Failures are logged
// and ignored; reads fall back to the database.
func warmLeaderboard(ctx context.Context, lb *redis.PointsLeaderboard, repos repositories, logger *slog.Logger) {
	volunteers, err := repos.volunteers.List(ctx, 0, 0)
	if err != nil {
		logger.Error("leaderboard warmup: list volunteers failed", "error", err)
		return
	}

	names := make(map[int64]string, len(volunteers))
	for _, v := range volunteers {
		if u, err := repos.users.GetByID(ctx, v.UserID); err == nil {
			names[v.ID] = u.FullName
		}
	}

	if err := lb.Rebuild(ctx, volunteers, names); err != nil {
		logger.Error("leaderboard warmup failed", "error", err)
		return
	}
	logger.Info("leaderboard warmed", "volunteers", len(volunteers))
}

func newLeaderboardQuery(lb *redis.PointsLeaderboard, breaker *circuitbreaker.CircuitBreaker, repos repositories, logger *slog.Logger) *query.GetLeaderboardHandler {
	var cache query.LeaderboardCache
	if lb != nil {
		cache = lb
	}
	return query.NewGetLeaderboardHandler(cache, breaker, repos.volunteers, repos.users, logger)
}
