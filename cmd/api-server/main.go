package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"progpath.app/api-server/core/config"
	"progpath.app/api-server/core/db"
	"progpath.app/api-server/core/telemetry"
	"progpath.app/api-server/internal/http/handler"
	"progpath.app/api-server/internal/http/middleware"
	"progpath.app/api-server/internal/http/router"
	"progpath.app/api-server/internal/notify"
	"progpath.app/api-server/internal/objectstore"
	"progpath.app/api-server/internal/service"
	"progpath.app/api-server/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// Telemetry must init before the logger: the production handler logs
	// through the OTel provider.
	tel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		os.Stderr.WriteString("failed to initialize telemetry: " + err.Error() + "\n")
		os.Exit(1)
	}
	telemetry.SetupLogger(cfg, tel != nil)

	slog.InfoContext(ctx, "api-server starting", "env", cfg.Environment, "port", cfg.Port)

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		slog.ErrorContext(ctx, "failed to apply schema", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "database connected")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := setupRouter(cfg, pool)
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}
	if tel != nil {
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "telemetry shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg *config.Config, pool *pgxpool.Pool) *gin.Engine {
	stores := store.New(pool)
	tx := db.NewTxRunner(pool)

	authorize := service.NewAuthorizeService()
	oracle := service.NewMembershipOracle(time.Now)
	quota := service.NewQuotaService(cfg.Quota, oracle)
	objects := objectstore.NewNoop()
	notifier := notify.NewLogNotifier(cfg.DashboardURL)

	workspaces := service.NewWorkspaceService(tx, stores, authorize, quota, objects, notifier)
	invitations := service.NewInvitationService(tx, authorize, quota, notifier)
	projects := service.NewProjectService(tx, stores, authorize, objects)
	tasks := service.NewTaskService(tx, stores, authorize, objects, time.Now)
	analytics := service.NewAnalyticsService(stores, cfg.Analytics, time.Now)

	workspaceHandler := handler.NewWorkspaceHandler(workspaces)
	invitationHandler := handler.NewInvitationHandler(invitations)
	projectHandler := handler.NewProjectHandler(projects, analytics)
	taskHandler := handler.NewTaskHandler(tasks)
	analyticsHandler := handler.NewAnalyticsHandler(analytics)

	engine := gin.New()
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(telemetry.ServiceName))
	}
	engine.Use(gin.Recovery())

	api := engine.Group("/api", middleware.Identity(cfg.JWT.Secret))
	router.WorkspaceRouter(api.Group("/workspaces"), workspaceHandler, invitationHandler)
	router.ProjectRouter(api.Group("/workspaces/:workspaceId/projects"), projectHandler, taskHandler)
	router.TaskRouter(api.Group("/workspaces/:workspaceId/tasks"), taskHandler)
	router.InvitationRouter(api.Group("/invitations"), invitationHandler)
	router.AnalyticsRouter(api.Group(""), analyticsHandler)

	return engine
}
