package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"trendwatch/internal/config"
	"trendwatch/internal/domain/monitor"
	"trendwatch/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	store monitor.Store,
	runner handlers.MonitorRunner,
	natsConn *nats.Conn,
	alertsTopic string,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	monitorHandler := handlers.NewMonitorHandler(store, runner)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/monitors", func(r chi.Router) {
				r.Get("/", monitorHandler.ListMonitors)
				r.Post("/", monitorHandler.CreateMonitor)
				r.Get("/{id}", monitorHandler.GetMonitor)
				r.Delete("/{id}", monitorHandler.DeleteMonitor)
				r.Get("/{id}/snapshot", monitorHandler.GetSnapshot)
				r.Get("/{id}/history", monitorHandler.GetHistory)
				r.Post("/{id}/run", monitorHandler.RunMonitor)
			})
		})
	})

	// WebSocket endpoint for real-time alert streaming
	router.Get("/ws/alerts", handlers.AlertWebSocketHandler(natsConn, alertsTopic))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
