// Package devserver implements the curation HTTP API over sqlite for local
// development and end-to-end tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// Config tunes content generation, feed assembly and the periodic jobs.
type Config struct {
	ItemsPerRefresh int
	FeedLimit       int
	// DefaultLearningDays applies when an interest omits its learning period.
	DefaultLearningDays int
	// Zero intervals leave the job to manual triggers.
	FetchInterval   time.Duration
	CleanupInterval time.Duration
	// Retention is the age after which unsaved content is removed.
	Retention time.Duration
}

func (c Config) normalized() Config {
	if c.ItemsPerRefresh <= 0 {
		c.ItemsPerRefresh = 5
	}
	if c.FeedLimit <= 0 {
		c.FeedLimit = 10
	}
	if c.DefaultLearningDays <= 0 {
		c.DefaultLearningDays = 30
	}
	if c.Retention <= 0 {
		c.Retention = 7 * 24 * time.Hour
	}
	return c
}

// Server serves the curation API.
type Server struct {
	store   *Store
	gen     Generator
	cfg     Config
	logger  zerolog.Logger
	metrics *httpMetrics
	router  chi.Router
	jobs    *jobTable
	now     func() time.Time

	// refreshMu serializes generation so a learning day is delivered once.
	refreshMu sync.Mutex
}

// New creates a server over store. gen produces content on refresh.
func New(store *Store, gen Generator, cfg Config, logger zerolog.Logger) *Server {
	cfg = cfg.normalized()
	s := &Server{
		store:   store,
		gen:     gen,
		cfg:     cfg,
		logger:  logger,
		metrics: newHTTPMetrics(),
		jobs:    newJobTable(cfg),
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Post("/users/", s.handleCreateUser)
		r.Get("/users/{userID}", s.handleGetUser)

		r.Post("/onboarding", s.handleOnboarding)
		r.Post("/onboarding/", s.handleOnboarding)
		r.Get("/onboarding/{userID}/topics", s.handleListTopics)

		r.Put("/topics/{topicID}", s.handleUpdateTopic)
		r.Delete("/topics/{topicID}", s.handleDeleteTopic)

		r.Get("/feed/{userID}", s.handleFeed)
		r.Post("/feed/refresh/{userID}", s.handleRefreshAll)
		r.Post("/feed/refresh/{userID}/topic/{topicID}", s.handleRefreshTopic)

		r.Post("/saved", s.handleSave)
		r.Post("/saved/", s.handleSave)
		r.Get("/saved/{userID}", s.handleListSaved)
		r.Delete("/saved/{savedID}", s.handleUnsave)

		r.Get("/settings/{userID}", s.handleGetSettings)
		r.Put("/settings/{userID}", s.handleUpdateSettings)

		r.Get("/scheduler/status", s.handleSchedulerStatus)
		r.Post("/scheduler/trigger/fetch", s.handleTriggerFetch)
		r.Post("/scheduler/trigger/cleanup", s.handleTriggerCleanup)
	})
	s.router = r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("dev server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		elapsed := time.Since(start)
		s.metrics.observe(r.Method, route, ww.Status(), elapsed)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}

type httpMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics() *httpMetrics {
	m := &httpMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sutra_devserver_requests_total",
			Help: "HTTP requests served by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sutra_devserver_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(m.requests, m.duration)
	return m
}

func (m *httpMetrics) observe(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var reg curation.Registration
	if err := decodeBody(r, &reg); err != nil {
		s.writeError(w, r, err)
		return
	}
	if reg.Name == "" || reg.Email == "" {
		s.writeError(w, r, badRequest("name and email are required"))
		return
	}
	user, err := s.store.CreateUser(r.Context(), reg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.store.User(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    int64  `json:"user_id"`
		Interests string `json:"interests"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	form, err := curation.ParseInterest(req.Interests)
	if err != nil {
		s.writeError(w, r, badRequest(err.Error()))
		return
	}
	if form.Type == curation.TopicTypeLearning && form.LearningPeriodDays <= 0 {
		form.LearningPeriodDays = s.cfg.DefaultLearningDays
	}
	topic, created, err := s.store.AddTopic(r.Context(), req.UserID, form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result := curation.OnboardingResult{
		Message:      "Successfully created " + string(topic.Kind()) + " topic: " + topic.TopicName,
		TopicsAdded:  []curation.Topic{},
		TopicsLinked: []string{topic.TopicName},
	}
	if created {
		result.TopicsAdded = append(result.TopicsAdded, topic)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	topics, err := s.store.Topics(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": id, "topics": topics})
}

func (s *Server) handleUpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "topicID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var patch curation.TopicPatch
	if err := decodeBody(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	topic, err := s.store.UpdateTopic(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		TopicID int64  `json:"topic_id"`
		curation.Topic
	}{"Topic updated successfully", topic.ID, topic})
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "topicID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteTopic(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Topic deleted successfully"})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	day := s.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			s.writeError(w, r, badRequest("Invalid date format. Use YYYY-MM-DD"))
			return
		}
		day = parsed
	}
	snap, err := s.store.Feed(r.Context(), id, day, s.cfg.FeedLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleRefreshAll(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.RefreshUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRefreshTopic(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	topicID, err := pathID(r, "topicID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	name, err := s.RefreshTopic(r.Context(), userID, topicID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully refreshed feed for " + name})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    int64 `json:"user_id"`
		ContentID int64 `json:"content_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	savedID, err := s.store.Save(r.Context(), req.UserID, req.ContentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Content saved successfully", "saved_id": savedID})
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries, err := s.store.Saved(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": id, "total_saved": len(entries), "items": entries})
}

func (s *Server) handleUnsave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "savedID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Unsave(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	settings, err := s.store.Settings(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in curation.UserSettings
	if err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	switch in.PeriodicFrequency {
	case "daily", "weekly", "custom":
	default:
		s.writeError(w, r, badRequest("periodic_frequency must be daily, weekly or custom"))
		return
	}
	settings, err := s.store.UpdateSettings(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
