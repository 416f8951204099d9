package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/events"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	serviceCompany "github.com/cmlabs-hris/attendance-backend-go/internal/service/company"
	employeeService "github.com/cmlabs-hris/attendance-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	userService "github.com/cmlabs-hris/attendance-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	response.ExposeInternalErrors = !cfg.IsProduction()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	accessTTL, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	refreshTTL, err := time.ParseDuration(cfg.JWT.RefreshExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.RetryPolicy{
		Attempts: cfg.Database.RetryAttempts,
		Backoff:  cfg.Database.RetryBackoff,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	translator, err := i18n.New(cfg.App.DefaultLocale)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	publisher := events.New(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer publisher.Close()

	var fileStorage *storage.LocalStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	region := cfg.Region.BoundingBox()
	resolver := geo.NewResolver(region, geo.ExifLocator{})

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	transactor := postgresql.NewTransactor(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessTTL, refreshTTL)

	authSvc := serviceAuth.NewAuthService(transactor, userRepo, companyRepo, refreshTokenRepo, JWTService, fileService, region)
	companySvc := serviceCompany.NewCompanyService(companyRepo, region)
	employeeSvc := employeeService.NewEmployeeService(userRepo, companyRepo, fileService, translator)
	profileSvc := userService.NewProfileService(userRepo, fileService)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		companyRepo,
		userRepo,
		fileService,
		resolver,
		publisher,
		translator,
		loc,
	)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.CORSOrigins,
		UploadsDir:     fileStorage.BasePath(),
		AuthLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}, JWTService, translator, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc, translator),
		User:       appHTTP.NewUserHandler(profileSvc, translator),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Company:    appHTTP.NewCompanyHandler(companySvc, translator),
	})

	scheduler := cron.NewScheduler()
	cron.NewStoreHealthProbe(db).RegisterJobs(scheduler, cfg.Database.HealthProbeInterval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env, "region", region.Name)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.App.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	)
}
