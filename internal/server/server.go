// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tarot-bot/internal/cache"
	"tarot-bot/internal/models"
	"tarot-bot/pkg/logger"
)

// CacheStats reports response cache statistics per reading kind.
type CacheStats interface {
	Stats() map[models.ReadingType]cache.Stats
}

// SessionCounter reports how many users have a conversation session.
type SessionCounter interface {
	Len() int
}

// UsageCounter reports how many readings of a kind were delivered.
type UsageCounter interface {
	CountUsage(ctx context.Context, kind models.ReadingType) (int64, error)
}

// Sources feeds /stats. Nil fields are left out of the report; with no
// sources at all the route is not registered.
type Sources struct {
	Cache    CacheStats
	Sessions SessionCounter
	Usage    UsageCounter
}

func (s Sources) empty() bool {
	return s.Cache == nil && s.Sessions == nil && s.Usage == nil
}

type statsReport struct {
	Cache    map[models.ReadingType]cache.Stats `json:"cache,omitempty"`
	Sessions *int                               `json:"sessions,omitempty"`
	Usage    map[models.ReadingType]int64       `json:"usage,omitempty"`
}

var readingKinds = []models.ReadingType{models.ReadingTarot, models.ReadingChart}

type Server struct {
	server *http.Server
	logger *logger.Logger
}

func NewServer(port string, sources Sources, logger *logger.Logger) *Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(sources, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		server: httpServer,
		logger: logger,
	}
}

// NewRouter builds the liveness routes and, when any source is set, /stats.
func NewRouter(sources Sources, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Bot is alive!"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if !sources.empty() {
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			report, err := sources.report(r.Context())
			if err != nil {
				log.Errorw("Failed to build stats", "error", err)
				http.Error(w, "stats unavailable", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(report)
		})
	}

	return r
}

func (s Sources) report(ctx context.Context) (statsReport, error) {
	var report statsReport
	if s.Cache != nil {
		report.Cache = s.Cache.Stats()
	}
	if s.Sessions != nil {
		n := s.Sessions.Len()
		report.Sessions = &n
	}
	if s.Usage != nil {
		report.Usage = make(map[models.ReadingType]int64, len(readingKinds))
		for _, kind := range readingKinds {
			n, err := s.Usage.CountUsage(ctx, kind)
			if err != nil {
				return statsReport{}, fmt.Errorf("count %s usage: %w", kind, err)
			}
			report.Usage[kind] = n
		}
	}
	return report, nil
}

func (s *Server) Start() error {
	s.logger.Infow("Starting HTTP server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}
