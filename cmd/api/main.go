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

	"github.com/cmlabs-hris/hris-timeoff-go/internal/config"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/regularization"
	appHTTP "github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/notification"
	overtimeService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/overtime"
	regularizationService "github.com/cmlabs-hris/hris-timeoff-go/internal/service/regularization"
)

const version = "v1.0.0"

type repositories struct {
	tx                database.Transactor
	employees         employee.Directory
	leaveTypes        leave.LeaveTypeRepository
	leaveBalances     leave.LeaveBalanceRepository
	leaveApplications leave.LeaveApplicationRepository
	attendances       attendance.AttendanceRepository
	regularizations   regularization.RegularizationRepository
	overtimes         overtime.OvertimeRepository
	notifications     notification.Repository
	close             func()
}

func postgresRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return &repositories{
		tx:                postgresql.NewTransactor(db),
		employees:         postgresql.NewEmployeeRepository(db),
		leaveTypes:        postgresql.NewLeaveTypeRepository(db),
		leaveBalances:     postgresql.NewLeaveBalanceRepository(db),
		leaveApplications: postgresql.NewLeaveApplicationRepository(db),
		attendances:       postgresql.NewAttendanceRepository(db),
		regularizations:   postgresql.NewRegularizationRepository(db),
		overtimes:         postgresql.NewOvertimeRepository(db),
		notifications:     postgresql.NewNotificationRepository(db),
		close:             db.Close,
	}, nil
}

func memoryRepositories() *repositories {
	store := memory.NewStore()
	return &repositories{
		tx:                store,
		employees:         store.Employees(),
		leaveTypes:        store.LeaveTypes(),
		leaveBalances:     store.LeaveBalances(),
		leaveApplications: store.LeaveApplications(),
		attendances:       store.Attendances(),
		regularizations:   store.Regularizations(),
		overtimes:         store.Overtimes(),
		notifications:     store.Notifications(),
		close:             func() {},
	}
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", "hris-timeoff"),
		slog.String("version", version),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repos *repositories
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		repos = memoryRepositories()
	default:
		repos, err = postgresRepositories(ctx, cfg)
		if err != nil {
			return err
		}
	}
	defer repos.close()

	jwtSvc, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}

	hub := sse.NewHub(32)
	notifSvc := notificationService.NewNotificationService(repos.notifications, hub, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})

	leaveSvc := leaveService.NewLeaveService(repos.tx, repos.leaveTypes, repos.leaveBalances, repos.leaveApplications, repos.employees, notifSvc)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendances, repos.leaveApplications, repos.employees, notifSvc)
	regularizationSvc := regularizationService.NewRegularizationService(repos.tx, repos.regularizations, repos.attendances, repos.employees, notifSvc)
	overtimeSvc := overtimeService.NewOvertimeService(repos.tx, repos.overtimes, repos.employees, notifSvc, cfg.Policy.OvertimeMultiplier)

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewLeaveAttendanceJobs(attendanceSvc).RegisterJobs(scheduler, cfg.Cron.OnLeaveSyncInterval)
		scheduler.Start()
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        "hris-timeoff",
		Version:        version,
		Env:            cfg.App.Env,
		AllowedOrigins: strings.Split(cfg.App.FrontendURL, ","),
		LogLevel:       cfg.SlogLevel(),
	}, jwtSvc, appHTTP.Handlers{
		Leave:          appHTTP.NewLeaveHandler(leaveSvc),
		Attendance:     appHTTP.NewAttendanceHandler(attendanceSvc),
		Regularization: appHTTP.NewRegularizationHandler(regularizationSvc),
		Overtime:       appHTTP.NewOvertimeHandler(overtimeSvc),
		Notification:   appHTTP.NewNotificationHandler(notifSvc, jwtSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Open SSE streams end when the hub closes; then drain HTTP.
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	scheduler.Stop()
	notifSvc.Stop()

	slog.Info("Server stopped")
	return nil
}
