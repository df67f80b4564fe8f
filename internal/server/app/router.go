package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/g0c0de0rd1e/audiomagister/internal/server/auth"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/handlers"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/middleware"
)

// пути без access-лога
var quietPaths = []string{"/healthz", "/readyz", "/metrics"}

// Handler builds the HTTP router with every route and middleware attached
func (s *Server) Handler() http.Handler {
	authHandler := handlers.NewAuthHandler(s.logger, s.service, s.metrics)
	audioHandler := handlers.NewAudioHandler(s.logger, s.store, s.blobs, s.metrics, handlers.AudioConfig{
		PublicBaseURL:  s.cfg.PublicBaseURL,
		MaxUploadBytes: s.cfg.MaxUploadBytes,
	})
	healthHandler := handlers.NewHealthHandler(s.logger, s.store, s.version)
	resolver := auth.NewResolver(auth.NewTokenVerifier([]byte(s.cfg.SecretKey), s.now), s.store)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RecoveryMiddleware(s.logger))
	r.Use(middleware.LoggingWithSkip(s.logger, quietPaths))
	r.Use(middleware.MetricsMiddleware(s.metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", healthHandler.Health)
	r.Get("/readyz", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// публичные маршруты авторизации, ограничены по частоте
	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Post("/token", authHandler.Token)
		r.Post("/register/", authHandler.Register)
		r.Post("/login/", authHandler.Login)
	})

	r.Get("/files/{file_name}", audioHandler.FileURL)
	r.Get("/uploads/{file_name}", audioHandler.Serve)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.logger, resolver, s.metrics))
		r.Get("/users/me", authHandler.Me)
		r.Post("/uploadfile/", audioHandler.Upload)
		r.Get("/files/", audioHandler.List)
	})

	return r
}
