package devserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Ids of the periodic jobs.
const (
	JobFetch   = "fetch_all_topics"
	JobCleanup = "cleanup_old_content"
)

// JobStatus describes one periodic job.
type JobStatus struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Interval   string     `json:"interval"`
	NextRun    *time.Time `json:"next_run"`
	LastRun    *time.Time `json:"last_run"`
	LastResult string     `json:"last_result,omitempty"`
}

// SchedulerStatus is the state of the job loop.
type SchedulerStatus struct {
	Status    string      `json:"status"`
	JobsCount int         `json:"jobs_count"`
	Jobs      []JobStatus `json:"jobs"`
}

// FetchSummary reports one run of the fetch job.
type FetchSummary struct {
	TopicsRefreshed int `json:"topics_refreshed"`
	TopicsFailed    int `json:"topics_failed"`
	ItemsFetched    int `json:"items_fetched"`
}

type job struct {
	id       string
	name     string
	interval time.Duration
	next     time.Time
	last     time.Time
	result   string
}

type jobTable struct {
	mu      sync.Mutex
	running bool
	jobs    []*job
}

func newJobTable(cfg Config) *jobTable {
	return &jobTable{jobs: []*job{
		{id: JobFetch, name: "Fetch all topics content", interval: cfg.FetchInterval},
		{id: JobCleanup, name: "Cleanup old content", interval: cfg.CleanupInterval},
	}}
}

func (t *jobTable) start(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = true
	for _, j := range t.jobs {
		if j.interval > 0 {
			j.next = now.Add(j.interval)
		}
	}
}

func (t *jobTable) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	for _, j := range t.jobs {
		j.next = time.Time{}
	}
}

func (t *jobTable) finish(id string, at time.Time, result string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, j := range t.jobs {
		if j.id != id {
			continue
		}
		j.last = at
		j.result = result
		if t.running && j.interval > 0 {
			j.next = at.Add(j.interval)
		}
	}
}

func (t *jobTable) status() SchedulerStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := SchedulerStatus{Status: "stopped", JobsCount: len(t.jobs), Jobs: make([]JobStatus, 0, len(t.jobs))}
	if t.running {
		st.Status = "running"
	}
	for _, j := range t.jobs {
		js := JobStatus{ID: j.id, Name: j.name, Interval: "manual", LastResult: j.result}
		if j.interval > 0 {
			js.Interval = j.interval.String()
		}
		if !j.next.IsZero() {
			next := j.next
			js.NextRun = &next
		}
		if !j.last.IsZero() {
			last := j.last
			js.LastRun = &last
		}
		st.Jobs = append(st.Jobs, js)
	}
	return st
}

// RunScheduler refreshes every topic and removes old content on the
// configured intervals until ctx is cancelled. A job with a zero interval only
// runs when triggered.
func (s *Server) RunScheduler(ctx context.Context) {
	s.jobs.start(s.now())
	defer s.jobs.stop()

	var fetchC, cleanupC <-chan time.Time
	if s.cfg.FetchInterval > 0 {
		ticker := time.NewTicker(s.cfg.FetchInterval)
		defer ticker.Stop()
		fetchC = ticker.C
	}
	if s.cfg.CleanupInterval > 0 {
		ticker := time.NewTicker(s.cfg.CleanupInterval)
		defer ticker.Stop()
		cleanupC = ticker.C
	}
	s.logger.Info().Dur("fetch_interval", s.cfg.FetchInterval).Dur("cleanup_interval", s.cfg.CleanupInterval).Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-fetchC:
			if _, err := s.FetchAll(ctx); err != nil {
				s.logger.Error().Err(err).Msg("scheduled fetch failed")
			}
		case <-cleanupC:
			if _, err := s.Cleanup(ctx); err != nil {
				s.logger.Error().Err(err).Msg("scheduled cleanup failed")
			}
		}
	}
}

// SchedulerStatus reports whether the job loop runs and when each job ran.
func (s *Server) SchedulerStatus() SchedulerStatus {
	return s.jobs.status()
}

// FetchAll refreshes every topic that is not a completed learning plan. One
// failing topic does not stop the others.
func (s *Server) FetchAll(ctx context.Context) (FetchSummary, error) {
	topics, err := s.store.topicsWhere(ctx, `is_completed = 0`)
	if err != nil {
		s.jobs.finish(JobFetch, s.now(), "error: "+err.Error())
		return FetchSummary{}, err
	}
	var sum FetchSummary
	for _, rec := range topics {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		items, err := s.refresh(ctx, rec.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("topic_id", rec.ID).Msg("scheduled topic refresh failed")
			sum.TopicsFailed++
			continue
		}
		sum.TopicsRefreshed++
		sum.ItemsFetched += len(items)
	}
	result := fmt.Sprintf("%d/%d topics refreshed, %d items", sum.TopicsRefreshed, len(topics), sum.ItemsFetched)
	s.jobs.finish(JobFetch, s.now(), result)
	s.logger.Info().Int("topics", len(topics)).Int("refreshed", sum.TopicsRefreshed).Int("items", sum.ItemsFetched).Msg("fetch job finished")
	return sum, nil
}

// Cleanup removes content older than the retention period. Saved content is
// kept.
func (s *Server) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.cfg.Retention)
	deleted, err := s.store.DeleteContentBefore(ctx, cutoff)
	if err != nil {
		s.jobs.finish(JobCleanup, s.now(), "error: "+err.Error())
		return 0, err
	}
	s.jobs.finish(JobCleanup, s.now(), fmt.Sprintf("%d items removed", deleted))
	s.logger.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("cleanup job finished")
	return deleted, nil
}

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.SchedulerStatus())
}

func (s *Server) handleTriggerFetch(w http.ResponseWriter, r *http.Request) {
	sum, err := s.FetchAll(r.Context())
	if err != nil {
		s.writeError(w, r, &httpError{status: http.StatusInternalServerError, detail: "Error triggering fetch: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		Status  string `json:"status"`
		FetchSummary
	}{"Content fetch triggered successfully", "completed", sum})
}

func (s *Server) handleTriggerCleanup(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.Cleanup(r.Context())
	if err != nil {
		s.writeError(w, r, &httpError{status: http.StatusInternalServerError, detail: "Error triggering cleanup: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Cleanup triggered successfully",
		"status":  "completed",
		"deleted": deleted,
	})
}
