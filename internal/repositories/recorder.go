package repositories

import (
	"fmt"

	"github.com/desertthunder/looper/internal/models"
)

// RunRecorderAdapter implements tasks.RunRecorder using RunRepository.
type RunRecorderAdapter struct {
	repo *RunRepository
}

// NewRunRecorderAdapter creates a new RunRecorderAdapter with the given repository
func NewRunRecorderAdapter(repo *RunRepository) *RunRecorderAdapter {
	return &RunRecorderAdapter{repo: repo}
}

// RecordRun persists a finished run. The run's ID and sequence are set on success.
func (a *RunRecorderAdapter) RecordRun(run *models.Run) error {
	if err := a.repo.Create(run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
