package routers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ajinkyagorad/fb-events-map/internal/transport/httpServer/handlers"
	myMiddleware "github.com/ajinkyagorad/fb-events-map/internal/transport/httpServer/middleware"
)

type Router struct {
	logger       *slog.Logger
	eventHandler *handlers.EventHandler
	secret       string
}

func NewRouter(logger *slog.Logger, eventHandler *handlers.EventHandler, secret string) *Router {
	return &Router{
		logger:       logger,
		eventHandler: eventHandler,
		secret:       secret,
	}
}

// Mount wires the API surface. Routes that trigger work or spend model
// tokens sit behind bearer auth; read-only projections are open.
func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(myMiddleware.Logger(r.logger))
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/v1", func(mux chi.Router) {
			mux.Route("/events", func(mux chi.Router) {
				mux.Get("/", r.eventHandler.Events)
				mux.Get("/feed", r.eventHandler.Feed)
			})
			mux.Get("/map", r.eventHandler.Map)
			mux.Get("/chat/suggestions", r.eventHandler.Suggestions)

			mux.Group(func(mux chi.Router) {
				mux.Use(myMiddleware.Auth(r.secret))
				mux.Post("/extract", r.eventHandler.Extract)
				mux.Post("/chat", r.eventHandler.Chat)
			})
		})
	})
}
