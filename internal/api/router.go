package api

import (
	"net/http"
	"time"

	"learnhub/internal/api/handler"
	"learnhub/internal/app/service"
	"learnhub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	identityService *service.IdentityService,
	catalogService *service.CatalogService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// The browser front end runs on its own origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Verifies the session token when present and puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(identityService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		// Course routes (reads public, mutations admin-only)
		courseHandler := handler.NewCourseHandler(catalogService)
		v1.Route("/courses", courseHandler.RegisterRoutes)

		// Enrollment routes (authenticated)
		enrollmentHandler := handler.NewEnrollmentHandler(catalogService)
		v1.Route("/enrollments", enrollmentHandler.RegisterRoutes)
	})

	return r
}
