package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/skills-lab/model"
	"github.com/sahilchouksey/skills-lab/utils/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// jobTimeout bounds a single run of any job
const jobTimeout = 10 * time.Minute

// jobFunc does the work of one job and reports a human readable summary
// plus optional metadata stored with the run
type jobFunc func(ctx context.Context) (string, map[string]interface{}, error)

type job struct {
	name     string
	schedule string
	run      jobFunc
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
	log  *logger.Logger
	jobs map[string]job
}

// NewCronManager creates a cron manager with seconds precision
func NewCronManager(db *gorm.DB, log *logger.Logger) *CronManager {
	if log == nil {
		log = logger.Nop()
	}
	return &CronManager{
		cron: cron.New(cron.WithSeconds()),
		db:   db,
		log:  log.With("component", "cron"),
		jobs: make(map[string]job),
	}
}

// register adds a job to the schedule. It must be called before Start.
func (m *CronManager) register(name, schedule string, run jobFunc) {
	m.jobs[name] = job{name: name, schedule: schedule, run: run}
}

// Start registers every job with the scheduler and starts it
func (m *CronManager) Start() error {
	for _, name := range m.JobNames() {
		j := m.jobs[name]
		if _, err := m.cron.AddFunc(j.schedule, func() { _ = m.Run(context.Background(), j.name) }); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", j.name, err)
		}
		m.log.Info("cron job registered", "job", j.name, "schedule", j.schedule)
	}

	m.cron.Start()
	m.log.Info("cron jobs started", "jobs", len(m.jobs))
	return nil
}

// Stop waits for running jobs to finish
func (m *CronManager) Stop() {
	m.log.Info("stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info("cron jobs stopped")
}

// JobNames lists the registered jobs alphabetically
func (m *CronManager) JobNames() []string {
	names := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes one job immediately and records the run in cron_job_logs
func (m *CronManager) Run(ctx context.Context, name string) error {
	j, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("unknown cron job %q", name)
	}

	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	entry := m.logJobStart(name)
	started := time.Now()

	message, metadata, err := j.run(ctx)
	if err != nil {
		m.logJobError(entry, started, err)
		return err
	}
	m.logJobComplete(entry, started, message, metadata)
	return nil
}

func (m *CronManager) logJobStart(name string) *model.CronJobLog {
	m.log.Info("cron job started", "job", name)

	entry := &model.CronJobLog{
		JobName:   name,
		Status:    model.CronJobRunning,
		StartedAt: time.Now(),
		Metadata:  datatypes.JSON("{}"),
	}
	if err := m.db.Create(entry).Error; err != nil {
		m.log.Warn("failed to record cron run", "job", name, "error", err)
	}
	return entry
}

func (m *CronManager) logJobComplete(entry *model.CronJobLog, started time.Time, message string, metadata map[string]interface{}) {
	duration := time.Since(started)
	m.log.Info("cron job completed", "job", entry.JobName, "message", message, "duration", duration.String())

	updates := map[string]interface{}{
		"status":       model.CronJobCompleted,
		"completed_at": time.Now(),
		"duration_ms":  duration.Milliseconds(),
		"message":      message,
	}
	if len(metadata) > 0 {
		if raw, err := json.Marshal(metadata); err == nil {
			updates["metadata"] = datatypes.JSON(raw)
		}
	}
	m.update(entry, updates)
}

func (m *CronManager) logJobError(entry *model.CronJobLog, started time.Time, err error) {
	m.log.Error("cron job failed", "job", entry.JobName, "error", err)

	m.update(entry, map[string]interface{}{
		"status":       model.CronJobFailed,
		"completed_at": time.Now(),
		"duration_ms":  time.Since(started).Milliseconds(),
		"error_msg":    err.Error(),
	})
}

func (m *CronManager) update(entry *model.CronJobLog, updates map[string]interface{}) {
	if entry.ID == 0 {
		return
	}
	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		m.log.Warn("failed to update cron run", "job", entry.JobName, "error", err)
	}
}
