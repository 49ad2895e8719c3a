package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"ems/internal/db"
	"ems/internal/domain/activity"
	"ems/internal/domain/attendance"
	"ems/internal/domain/auth"
	"ems/internal/domain/chat"
	"ems/internal/domain/employee"
	"ems/internal/domain/expense"
	"ems/internal/domain/leave"
	"ems/internal/domain/payroll"
	"ems/internal/domain/project"
	"ems/internal/domain/reports"
	"ems/internal/platform/config"
	"ems/internal/platform/metrics"
	"ems/internal/transport/http/api"
	attendancehandler "ems/internal/transport/http/handlers/attendance"
	authhandler "ems/internal/transport/http/handlers/auth"
	chathandler "ems/internal/transport/http/handlers/chat"
	employeehandler "ems/internal/transport/http/handlers/employee"
	expensehandler "ems/internal/transport/http/handlers/expense"
	leavehandler "ems/internal/transport/http/handlers/leave"
	payrollhandler "ems/internal/transport/http/handlers/payroll"
	projecthandler "ems/internal/transport/http/handlers/project"
	reportshandler "ems/internal/transport/http/handlers/reports"
	"ems/internal/transport/http/middleware"
)

// App holds the wired application. Tests construct it against their own
// database and drive the router directly.
type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  chi.Router
	Metrics *metrics.Collector
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, locateMigrations()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	app := &App{
		Config:  cfg,
		DB:      pool,
		Metrics: metrics.New(),
	}
	app.Router = app.buildRouter()
	return app, nil
}

func (a *App) buildRouter() chi.Router {
	cfg := a.Config

	activitySvc := activity.New(a.DB)
	attendanceSvc := attendance.NewService(attendance.NewStore(a.DB), cfg.LateClockInHour)
	leaveSvc := leave.NewService(leave.NewStore(a.DB))
	payrollSvc := payroll.NewService(payroll.NewStore(a.DB))
	expenseSvc := expense.NewService(expense.NewStore(a.DB))
	projectSvc := project.NewService(project.NewStore(a.DB))
	chatSvc := chat.NewService(chat.NewStore(a.DB))
	reportsSvc := reports.New(a.DB)
	employeeStore := employee.NewStore(a.DB)
	authStore := auth.NewStore(a.DB)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recover)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(a.Metrics))
	}

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.With(middleware.RequireRole(auth.RoleAdmin)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		employeehandler.NewHandler(employeeStore, activitySvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, activitySvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, activitySvc, cfg.PayslipDir).RegisterRoutes(r)
		expensehandler.NewHandler(expenseSvc, activitySvc).RegisterRoutes(r)
		projecthandler.NewHandler(projectSvc, activitySvc).RegisterRoutes(r)
		chathandler.NewHandler(chatSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, activitySvc).RegisterRoutes(r)
	})

	return router
}

// locateMigrations walks up from the working directory so tests running in a
// package directory find the repo-level migrations.
func locateMigrations() string {
	dir, err := os.Getwd()
	if err != nil {
		return "migrations"
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "migrations"
		}
		dir = parent
	}
}

func (a *App) Run() error {
	slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
	return http.ListenAndServe(a.Config.Addr, a.Router)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
