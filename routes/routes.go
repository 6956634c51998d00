package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/A-Malek-CH/Code4Pal-final-submission/app"
	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	if deps.Config.Observability.MetricsEnabled {
		r.Use(deps.Metrics.Middleware)
	}

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Metrics, deps.Logger)
	adminAuthHandler := handlers.NewAdminAuthHandler(deps.AuthService, deps.Metrics, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.UserService, deps.Logger)
	contributorHandler := handlers.NewContributorHandler(deps.ContributorService, deps.Logger)
	locationHandler := handlers.NewLocationHandler(deps.LocationService, deps.Logger)
	emergencyHandler := handlers.NewEmergencyHandler(deps.EmergencyService, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.DB.DB, deps.Logger)

	requireAuth := deps.AuthMiddleware.RequireAuth()
	requireAdmin := deps.AuthMiddleware.RequireAuth(auth.KindAdmin)

	// Health and metrics
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)
	if deps.Config.Observability.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		// User/contributor authentication
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register/user", authHandler.HandleRegisterUser)
			r.Post("/register/contributor", authHandler.HandleRegisterContributor)
			r.Post("/login/user", authHandler.HandleLoginUser)
			r.Post("/login/contributor", authHandler.HandleLoginContributor)
			r.Post("/refresh", authHandler.HandleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.HandleLogout)
				r.Get("/me", authHandler.HandleMe)
				r.Post("/change-password", authHandler.HandleChangePassword)
			})
		})

		// Administrator authentication
		r.Route("/admin/auth", func(r chi.Router) {
			r.Post("/login", adminAuthHandler.HandleLogin)
			r.Post("/refresh", adminAuthHandler.HandleRefresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Post("/logout", adminAuthHandler.HandleLogout)
				r.Get("/profile", adminAuthHandler.HandleProfile)
				r.Post("/change-password", adminAuthHandler.HandleChangePassword)
			})
		})

		// Users
		r.Route("/users", func(r chi.Router) {
			r.Post("/add", userHandler.HandleAdd)
			r.Post("/verify_email", userHandler.HandleVerifyEmail)
			r.Post("/resend_code", userHandler.HandleResendCode)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", userHandler.HandleList)
				r.Get("/{id}", userHandler.HandleGet)
				r.Put("/{id}", userHandler.HandleUpdate)
				r.Delete("/{id}", userHandler.HandleDelete)
			})
		})

		// Contributors
		r.Route("/contributors", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", contributorHandler.HandleList)
			r.Get("/{id}", contributorHandler.HandleGet)
			r.Post("/", contributorHandler.HandleCreate)
			r.Put("/{id}", contributorHandler.HandleUpdate)
			r.Delete("/{id}", contributorHandler.HandleDelete)
		})

		// Locations: reads are public, review requires an admin
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", locationHandler.HandleList)
			r.Get("/{id}", locationHandler.HandleGet)
			r.Post("/add", locationHandler.HandleAdd)
			r.With(requireAdmin).Post("/verify", locationHandler.HandleVerify)
			r.Put("/{id}", locationHandler.HandleUpdate)
			r.Delete("/{id}", locationHandler.HandleDelete)
		})

		// Emergencies
		r.Route("/emergencies", func(r chi.Router) {
			r.Get("/", emergencyHandler.HandleList)
			r.Get("/{id}", emergencyHandler.HandleGet)
			r.Post("/", emergencyHandler.HandleCreate)
			r.Put("/{id}", emergencyHandler.HandleUpdate)
			r.Delete("/{id}", emergencyHandler.HandleDelete)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
