// Package server wires the stores, the presence hub, and the notification
// engine into an HTTP router.
package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/webgroup/herald/internal/config"
	"github.com/webgroup/herald/internal/handler"
	"github.com/webgroup/herald/internal/middleware"
	"github.com/webgroup/herald/internal/notify"
	"github.com/webgroup/herald/internal/store"
	ws "github.com/webgroup/herald/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	engine      *notify.Engine
	reaper      *notify.Reaper
	userH       *handler.UserHandler
	eventH      *handler.EventHandler
	windowH     *handler.WindowHandler
	presenceH   *handler.PresenceHandler
	rateLimiter *middleware.RateLimiter
	corsOrigins []string
	logger      *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	eventStore := store.NewEventStore(db)
	windowStore := store.NewWindowStore(db)
	pendingStore := store.NewPendingStore(db)

	engine := notify.NewEngine(userStore, eventStore, pendingStore, hub, logger.With("component", "notify"))
	reaper := notify.NewReaper(engine, cfg.ReapInterval, logger.With("component", "reaper"))

	return &Server{
		db:          db,
		hub:         hub,
		engine:      engine,
		reaper:      reaper,
		userH:       handler.NewUserHandler(userStore, logger.With("component", "user_handler")),
		eventH:      handler.NewEventHandler(eventStore, userStore, engine, logger.With("component", "event_handler")),
		windowH:     handler.NewWindowHandler(windowStore, userStore, logger.With("component", "window_handler")),
		presenceH:   handler.NewPresenceHandler(hub, engine, logger.With("component", "presence_handler")),
		rateLimiter: middleware.NewRateLimiter(),
		corsOrigins: cfg.CORSOrigins,
		logger:      logger,
	}
}

// Reaper returns the pending-notification reaper for lifecycle management.
func (s *Server) Reaper() *notify.Reaper {
	return s.reaper
}

// Hub returns the presence hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// User API routes
	mux.HandleFunc("POST /api/users", s.userH.Create)
	mux.HandleFunc("GET /api/users", s.userH.List)
	mux.HandleFunc("GET /api/users/{id}", s.userH.Get)
	mux.HandleFunc("DELETE /api/users/{id}", s.userH.Delete)

	// Event API routes; creation fans the event out to every user
	rateLimited := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 60, time.Minute)
	mux.Handle("POST /api/events", rateLimited(http.HandlerFunc(s.eventH.Create)))
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("GET /api/events/user/{id}", s.eventH.ListByUser)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Notification window API routes
	mux.HandleFunc("GET /api/users/{id}/windows", s.windowH.ListByUser)
	mux.HandleFunc("POST /api/users/{id}/windows", s.windowH.Create)
	mux.HandleFunc("PUT /api/windows/{id}", s.windowH.Update)
	mux.HandleFunc("DELETE /api/windows/{id}", s.windowH.Delete)

	// Presence and pending flush
	mux.HandleFunc("GET /api/users/{id}/online", s.presenceH.Online)
	mux.HandleFunc("POST /api/users/{id}/flush", s.presenceH.Flush)

	// WebSocket attach; a "ping" frame asks for a pending flush
	mux.Handle("GET /ws", ws.Handler(s.hub, s.flushOnPing, s.logger.With("component", "websocket")))

	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	})

	return middleware.RequestLogger(s.logger.With("component", "http"))(c.Handler(mux))
}

func (s *Server) flushOnPing(userID int64) {
	if err := s.engine.FlushPending(userID); err != nil {
		s.logger.Error("flush on ping", "user", userID, "error", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
