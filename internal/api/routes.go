package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	httpSwagger "github.com/swaggo/http-swagger"

	"multipitch-sync/docs"
)

const maxAuthBodyBytes = 1 << 20

func (s *Server) Routes(logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(RequestIDMiddleware)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	docs.SwaggerInfo.Host = s.config.AppHost
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(maxAuthBodyBytes))
		r.Post("/signup", s.SignupHandler)
		r.Post("/login", s.LoginHandler)
		r.Post("/token/refresh", s.RefreshTokenHandler)
	})
	r.Get("/me", s.GetCurrentUserHandler)

	r.Route("/backup", func(r chi.Router) {
		r.Use(s.RequireAccount)
		r.Post("/upload", s.UploadBackupHandler)
		r.Get("/download", s.DownloadBackupHandler)
	})

	return r
}
