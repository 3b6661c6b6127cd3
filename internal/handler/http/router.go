package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the values the router needs from the app config.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
}

type Handlers struct {
	Leave          LeaveHandler
	Attendance     AttendanceHandler
	Regularization RegularizationHandler
	Overtime       OvertimeHandler
	Notification   NotificationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send Authorization; the stream checks its own token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/leave", func(r chi.Router) {
				r.Route("/types", func(r chi.Router) {
					r.Get("/", h.Leave.ListTypes)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionLeaveManageTypes))
						r.Post("/", h.Leave.CreateType)
						r.Put("/{id}", h.Leave.UpdateType)
						r.Delete("/{id}", h.Leave.DisableType)
					})
				})

				r.Route("/applications", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionLeaveCreate)).Post("/", h.Leave.Apply)
					r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/", h.Leave.ListApplications)
					r.With(middleware.RequirePermission(user.PermissionLeaveViewOwn)).Get("/{id}", h.Leave.GetApplication)
					r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Put("/{id}/status", h.Leave.Decide)
				})

				r.Get("/balances", h.Leave.GetBalances)
				r.Get("/history", h.Leave.GetHistory)
				r.Get("/trend", h.Leave.GetUsageTrend)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/", h.Attendance.Mark)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/", h.Attendance.List)
				r.Get("/report", h.Attendance.MonthlyReport)
				r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Get("/{id}", h.Attendance.Get)
				r.With(middleware.RequirePermission(user.PermissionAttendanceApprove)).Put("/{id}", h.Attendance.Update)
			})

			r.Route("/regularizations", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceCreate)).Post("/", h.Regularization.Apply)
				r.Get("/", h.Regularization.List)
				r.Get("/{id}", h.Regularization.Get)
				r.With(middleware.RequirePermission(user.PermissionAttendanceApprove)).Put("/{id}/status", h.Regularization.Decide)
			})

			r.Route("/overtime", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionOvertimeCreate)).Post("/", h.Overtime.Apply)
				r.Get("/", h.Overtime.List)
				r.Get("/{id}", h.Overtime.Get)
				r.With(middleware.RequirePermission(user.PermissionOvertimeApprove)).Put("/{id}/status", h.Overtime.Decide)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Get("/unread-count", h.Notification.UnreadCount)
				r.Post("/read", h.Notification.MarkAsRead)
				r.Post("/read-all", h.Notification.MarkAllAsRead)
				r.Post("/stream-token", h.Notification.GetSSEToken)
				r.Delete("/{id}", h.Notification.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	return r
}
