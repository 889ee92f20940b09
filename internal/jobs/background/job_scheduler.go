package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"opsmanual/internal/metrics"
	"opsmanual/pkg/logger"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	tokenPurgeJob     = "refresh-token-purge"
	tokenPurgeTimeout = 2 * time.Minute
)

// CredentialPurger removes refresh tokens and reset tokens past their expiry.
type CredentialPurger interface {
	PurgeExpiredCredentials(ctx context.Context) (tokens, resets int64, err error)
}

// JobScheduler runs periodic maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	purger    CredentialPurger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler with the token purge job registered to
// run every purgeInterval.
func NewJobScheduler(purger CredentialPurger, purgeInterval time.Duration) (*JobScheduler, error) {
	if purgeInterval <= 0 {
		return nil, fmt.Errorf("token purge interval must be positive, got %s", purgeInterval)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		purger:    purger,
		jobs:      make(map[string]gocron.Job),
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(purgeInterval),
		gocron.NewTask(js.purgeExpiredCredentials),
		gocron.WithName(tokenPurgeJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to create %s job: %w", tokenPurgeJob, err)
	}
	js.jobs[tokenPurgeJob] = job

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	logger.Log.WithField("jobs", js.JobNames()).Info("starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	logger.Log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames returns the registered job names in sorted order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (js *JobScheduler) purgeExpiredCredentials() error {
	ctx, cancel := context.WithTimeout(context.Background(), tokenPurgeTimeout)
	defer cancel()

	started := time.Now()
	tokens, resets, err := js.purger.PurgeExpiredCredentials(ctx)
	if err != nil {
		logger.Log.WithError(err).WithField("job", tokenPurgeJob).Error("credential purge failed")
		return err
	}

	metrics.ObservePurge("refresh_token", tokens)
	metrics.ObservePurge("reset_token", resets)
	logger.Log.WithFields(logrus.Fields{
		"job":                    tokenPurgeJob,
		"refresh_tokens_deleted": tokens,
		"reset_tokens_cleared":   resets,
		"duration_ms":            time.Since(started).Milliseconds(),
	}).Info("credential purge completed")
	return nil
}
