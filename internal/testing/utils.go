// Package testing provides utilities and helpers for testing the join engine.
package testing

import (
	"time"

	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-similarity-join/config"
	"github.com/gcbaptista/go-similarity-join/internal/engine"
	"github.com/gcbaptista/go-similarity-join/model"
	"github.com/gcbaptista/go-similarity-join/services"
)

// CreateTestEngine creates a new engine instance backed by a temporary data
// directory with automatic cleanup.
func CreateTestEngine(t *testing.T) *engine.Engine {
	eng := engine.NewEngine(t.TempDir(), 2)
	t.Cleanup(eng.Stop)
	return eng
}

// CreateTestDataset creates a dataset with default join settings.
func CreateTestDataset(t *testing.T, eng *engine.Engine, datasetName string) config.JoinSettings {
	settings := config.JoinSettings{
		Name:            datasetName,
		QGramLength:     2,
		MaxEditDistance: 2,
		NumWorkers:      2,
	}

	err := eng.CreateDataset(settings)
	require.NoError(t, err, "Failed to create test dataset")

	return settings
}

// AddTestRecords adds a small fixed record set to a dataset.
func AddTestRecords(t *testing.T, eng *engine.Engine, datasetName string) []string {
	texts := []string{"kitten", "sitting", "mitten", "kitchen", "flour", "flower"}
	err := eng.AddRecords(datasetName, texts)
	require.NoError(t, err, "Failed to add test records")
	return texts
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  false,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed successfully in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed:
				t.Fatalf("Job %s failed: %s", jobID, job.Error)
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedDataset string) {
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedDataset, job.DatasetName, "Job dataset name should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}
