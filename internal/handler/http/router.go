package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/wagecore/payroll-backend-go/internal/handler/http/middleware"
	"github.com/wagecore/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(jwtService jwt.Service, payrollHandler PayrollHandler, assignmentHandler AssignmentHandler, companyHandler CompanyHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Get("/companies/me", companyHandler.GetProfile)

			r.Route("/payroll/batches", func(r chi.Router) {
				r.Post("/", payrollHandler.Initiate)

				r.Route("/{batchID}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetBatch)
					r.Get("/line-items", payrollHandler.GetByStatus)
					r.Post("/submit", payrollHandler.Submit)
					r.Post("/approve", payrollHandler.Approve)
					r.Post("/reject", payrollHandler.Reject)
					r.Post("/refresh", payrollHandler.Refresh)
				})
			})

			r.Route("/employees/{employeeID}/assignments", func(r chi.Router) {
				r.Post("/", assignmentHandler.Create)
				r.Get("/", assignmentHandler.ListByEmployee)
			})

			r.Route("/assignments/{assignmentID}", func(r chi.Router) {
				r.Put("/", assignmentHandler.Update)
				r.Delete("/", assignmentHandler.Delete)
			})
		})
	})
	return r
}
