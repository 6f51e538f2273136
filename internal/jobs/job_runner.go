package jobs

import (
	"usedgoods-market/internal/config"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	settlements service.SettlementService
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(settlements service.SettlementService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		settlements: settlements,
		config:      cfg,
	}
}

// Config exposes the schedule settings to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunOnce runs the named job. It reports false for an unknown name.
func (jr *JobRunner) RunOnce(name string) bool {
	switch name {
	case JobCompleteStalledSettlements:
		jr.CompleteStalledSettlements()
	default:
		return false
	}
	return true
}
