package http

import (
	"log/slog"

	"github.com/cmlabs-hris/attendance-scan-go/internal/config"
	"github.com/cmlabs-hris/attendance-scan-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/redis/go-redis/v9"
)

func NewRouter(
	cfg *config.Config,
	JWTService jwt.Service,
	rdb *redis.Client,
	attendanceHandler AttendanceHandler,
	qrCodeHandler QRCodeHandler,
	reportHandler ReportHandler,
	dashboardHandler DashboardHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(slog.Default(), &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ClientIP)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RateLimit(cfg.RateLimit, rdb))
					r.Post("/validate-qr", attendanceHandler.ValidateQR)
					r.Post("/check-in", attendanceHandler.CheckIn)
				})
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/today-attendance", attendanceHandler.Today)
				r.Post("/permission-request", attendanceHandler.PermissionRequest)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/generate-code", func(r chi.Router) {
					r.Get("/", qrCodeHandler.List)
					r.Post("/", qrCodeHandler.Generate)
					r.Get("/token/{token}", qrCodeHandler.GetByToken)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", qrCodeHandler.Get)
						r.Delete("/", qrCodeHandler.Deactivate)
						r.Get("/image", qrCodeHandler.Image)
						r.Post("/regenerate", qrCodeHandler.Regenerate)
					})
				})

				r.Route("/attendance-records", func(r chi.Router) {
					r.Get("/", reportHandler.History)
					r.Get("/statistics", reportHandler.Statistics)
					r.Get("/export", reportHandler.Export)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/", dashboardHandler.GetDashboard)
					r.Get("/daily-stats", dashboardHandler.GetDailyStats)
					r.Get("/monthly-trend", dashboardHandler.GetMonthlyTrend)
				})
			})
		})
	})
	return r
}
