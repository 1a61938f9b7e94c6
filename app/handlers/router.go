package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter assembles the HTTP surface: group, deck, game and season routes
// under /api/groups/{groupID}, plus health and metrics endpoints.
func NewRouter(h *Handlers, registry *prometheus.Registry, logger *slog.Logger, ratePerSecond float64, rateBurst int) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if ratePerSecond > 0 {
		r.Use(rateLimiter(rate.Limit(ratePerSecond), rateBurst))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/groups/{groupID}", func(r chi.Router) {
		r.Get("/", h.GetGroup)
		r.Get("/members", h.ListGroupMembers)
		r.Get("/events", h.ListGroupEvents)

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", h.ListDecks)
			r.Post("/", h.CreateDeck)
			r.Patch("/{deckID}", h.UpdateDeck)
			r.Delete("/{deckID}", h.DeleteDeck)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.ListGames)
			r.Post("/", h.RecordGame)
			r.Delete("/latest", h.UndoLastGame)
		})

		r.Get("/ranking", h.GetRanking)

		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", h.ListSeasons)
			r.Patch("/settings", h.UpdateSeasonSettings)
			r.Post("/reset", h.ResetSeason)
			r.Get("/last/ranking", h.GetLastSeasonRanking)
			r.Get("/banner", h.GetWinnersBanner)
			r.Post("/banner/dismiss", h.DismissWinnersBanner)
		})
	})

	return r
}

// rateLimiter applies a single process-wide token bucket. The service sits
// behind a gateway, so a global bucket is enough to protect the database.
func rateLimiter(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
