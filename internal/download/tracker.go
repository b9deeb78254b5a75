package download

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vmunix/mediagrab/internal/media"
)

// Job is an in-flight or recently finished download.
type Job struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Type      media.Type `json:"media_type"`
	Status    Status     `json:"status"`
	Path      string     `json:"path,omitempty"`
	Error     string     `json:"error,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Stats summarizes pipeline activity since startup.
type Stats struct {
	Active    []Job `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Tracker keeps in-memory state for running jobs. Finished jobs are only
// counted; nothing is persisted.
type Tracker struct {
	mu        sync.Mutex
	jobs      map[string]*Job
	completed int64
	failed    int64
	now       func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*Job), now: time.Now}
}

// Start registers a queued job.
func (t *Tracker) Start(id, url string, mt media.Type) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.jobs[id] = &Job{ID: id, URL: url, Type: mt, Status: StatusQueued, StartedAt: now, UpdatedAt: now}
}

// Transition moves a job to status to. Terminal statuses remove the job
// from the active set.
func (t *Tracker) Transition(id string, to Status) error {
	return t.finish(id, to, "", "")
}

// Complete marks a job completed with its final path.
func (t *Tracker) Complete(id, path string) error {
	return t.finish(id, StatusCompleted, path, "")
}

// Fail marks a job failed.
func (t *Tracker) Fail(id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return t.finish(id, StatusFailed, "", msg)
}

func (t *Tracker) finish(id string, to Status, path, errMsg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job %s", id)
	}
	if !job.Status.CanTransitionTo(to) {
		return fmt.Errorf("invalid transition %s -> %s", job.Status, to)
	}
	job.Status = to
	job.UpdatedAt = t.now()
	if path != "" {
		job.Path = path
	}
	if errMsg != "" {
		job.Error = errMsg
	}

	switch to {
	case StatusCompleted:
		t.completed++
		delete(t.jobs, id)
	case StatusFailed:
		t.failed++
		delete(t.jobs, id)
	}
	return nil
}

// Stats returns a snapshot ordered by start time.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	active := make([]Job, 0, len(t.jobs))
	for _, j := range t.jobs {
		active = append(active, *j)
	}
	sort.Slice(active, func(i, k int) bool {
		return active[i].StartedAt.Before(active[k].StartedAt)
	})
	return Stats{Active: active, Completed: t.completed, Failed: t.failed}
}
