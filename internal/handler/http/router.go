package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the non-handler dependencies of the router.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	UploadsDir     string
	AuthLimiter    *middleware.RateLimiter
}

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Attendance AttendanceHandler
	Employee   EmployeeHandler
	Company    CompanyHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, translator *i18n.Translator, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Language"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.Locale(translator))

	r.Handle("/metrics", promhttp.Handler())
	if opts.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadsDir))))
	}

	rateLimited := func(next http.Handler) http.Handler { return next }
	if opts.AuthLimiter != nil {
		rateLimited = opts.AuthLimiter.Handler
	}

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimited).Post("/register", h.Auth.Register)
			r.With(rateLimited).Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.Company.List)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.With(middleware.RequirePermission(user.PermissionCompanyCreate)).Post("/", h.Company.Create)
				r.With(middleware.RequirePermission(user.PermissionCompanyView)).Get("/{id}", h.Company.GetByID)
				r.With(middleware.RequirePermission(user.PermissionCompanyUpdate)).Put("/{id}", h.Company.Update)
				r.With(middleware.RequirePermission(user.PermissionCompanyDelete)).Delete("/{id}", h.Company.Delete)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			authenticated(r)

			r.Route("/users/me", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionProfileManageOwn))
				r.Get("/", h.User.GetMe)
				r.Put("/", h.User.UpdateMe)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(
					middleware.RequirePermission(user.PermissionAttendanceCreate),
					middleware.RequireCompany,
				).Post("/", h.Attendance.Submit)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewOwn))
					r.Get("/", h.Attendance.ListMine)
					r.Get("/today", h.Attendance.TodayMine)
					r.Get("/history", h.Attendance.HistoryMine)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceViewCompany))
					r.Get("/users/{userID}/today", h.Attendance.TodayByUser)
					r.Get("/users/{userID}/history", h.Attendance.HistoryByUser)
					r.With(middleware.CompanyScope("companyID")).Get("/companies/{companyID}", h.Attendance.ListByCompany)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceOverride)).Put("/{id}/validate", h.Attendance.Validate)
			})

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionEmployeeView)).Get("/", h.Employee.ListEmployees)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeReview))
					r.Get("/applicants", h.Employee.ListApplicants)
					r.Put("/{userID}/verify", h.Employee.Verify)
				})
			})
		})
	})
	return r
}
