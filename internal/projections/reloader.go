package projections

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Reloader refreshes a Store on a cron schedule.
type Reloader struct {
	store     *Store
	schedule  string
	logger    *logrus.Logger
	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

func NewReloader(store *Store, schedule string, logger *logrus.Logger) *Reloader {
	return &Reloader{
		store:    store,
		schedule: schedule,
		logger:   logger,
		cron:     cron.New(),
	}
}

func (r *Reloader) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("projections reloader is already running")
	}

	id, err := r.cron.AddFunc(r.schedule, r.reload)
	if err != nil {
		return fmt.Errorf("failed to schedule projections reload %q: %w", r.schedule, err)
	}
	r.entryID = id

	r.cron.Start()
	r.isRunning = true
	r.logger.WithField("schedule", r.schedule).Info("Projections reloader started")
	return nil
}

func (r *Reloader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	ctx := r.cron.Stop()
	<-ctx.Done()
	r.cron.Remove(r.entryID)

	r.isRunning = false
	r.logger.Info("Projections reloader stopped")
}

func (r *Reloader) reload() {
	if err := r.store.Reload(); err != nil {
		r.logger.Errorf("Failed to reload projections: %v", err)
	}
}

// Status reports the schedule and upcoming runs.
func (r *Reloader) Status() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running": r.isRunning,
		"schedule":   r.schedule,
		"next_runs":  nextRuns,
		"players":    r.store.Len(),
		"loaded_at":  r.store.LoadedAt(),
	}
}
