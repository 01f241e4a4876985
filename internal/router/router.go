package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/recycleme/backend/internal/handlers"
	"github.com/recycleme/backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	ush := handlers.NewUserHandlers(deps)
	psh := handlers.NewPointsHandlers(deps)
	rsh := handlers.NewRecyclingHandlers(deps)

	authMiddleware := middleware.StaticIdentity("local-dev", "dev@localhost")
	if deps.Firebase != nil {
		authMiddleware = middleware.NewMiddleware(deps.Firebase).FirebaseAuth
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Mount("/users", ush.UserRoutes())
		r.Mount("/points", psh.PointsRoutes())
		r.Mount("/recycling", rsh.RecyclingRoutes())
	})

	return r
}
