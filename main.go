package main

import (
	"context"
	"database/sql"
	"net"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/showcase-labs/showcase-engine/pkg/auth"
	"github.com/showcase-labs/showcase-engine/pkg/config"
	"github.com/showcase-labs/showcase-engine/pkg/database"
	"github.com/showcase-labs/showcase-engine/pkg/handlers"
	"github.com/showcase-labs/showcase-engine/pkg/logging"
	"github.com/showcase-labs/showcase-engine/pkg/middleware"
	"github.com/showcase-labs/showcase-engine/pkg/repositories"
	"github.com/showcase-labs/showcase-engine/pkg/services"
	"github.com/showcase-labs/showcase-engine/pkg/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx := context.Background()

	// Migrations run through database/sql; the application itself talks pgx.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	files, err := storage.NewFileStore(cfg.Uploads.Dir)
	if err != nil {
		logger.Fatal("failed to initialize upload store", zap.Error(err))
	}

	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	voteRepo := repositories.NewVoteRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	userService := services.NewUserService(userRepo, projectRepo, logger)
	projectService := services.NewProjectService(projectRepo, logger)
	voteService := services.NewVoteService(voteRepo, logger)
	commentService := services.NewCommentService(commentRepo, logger)
	dashboardService := services.NewDashboardService(projectRepo, logger)

	tokens := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	sessions := auth.NewSessionStore(cfg.Auth.SessionSecret, int(cfg.Auth.TokenTTL.Seconds()), cfg.Auth.CookieSecure)
	mw := auth.NewMiddleware(tokens, sessions, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(userService, tokens, sessions, mw, logger).RegisterRoutes(mux)
	handlers.NewProjectsHandler(projectService, voteService, commentService, files, cfg.Uploads, mw, logger).RegisterRoutes(mux)
	handlers.NewDashboardHandler(dashboardService, mw, logger).RegisterRoutes(mux)
	handlers.NewUsersHandler(userService, files, cfg.Uploads, mw, logger).RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET "+storage.URLPrefix, files.Handler())

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer limiter.Close()
	handler := middleware.RequestLogger(logger)(limiter.Limit(mux.ServeHTTP))

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("starting showcase-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
