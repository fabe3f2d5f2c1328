package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gcbaptista/go-similarity-join/internal/errors"
	"github.com/gcbaptista/go-similarity-join/internal/joiner"
	"github.com/gcbaptista/go-similarity-join/internal/persistence"
	"github.com/gcbaptista/go-similarity-join/model"
	"github.com/gcbaptista/go-similarity-join/services"
)

// Join runs a similarity self-join over the dataset synchronously, caches the
// result as the dataset's latest, and persists it.
func (e *Engine) Join(datasetName string) (*model.JoinResult, error) {
	e.mu.RLock()
	instance, exists := e.datasets[datasetName]
	e.mu.RUnlock()

	if !exists {
		return nil, errors.NewDatasetNotFoundError(datasetName)
	}

	result, err := e.runJoin(datasetName, instance, nil)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// JoinAsync runs a similarity self-join as a background job and returns the
// job ID. Progress is reported on the job as records complete their pipeline.
func (e *Engine) JoinAsync(datasetName string) (string, error) {
	e.mu.RLock()
	instance, exists := e.datasets[datasetName]
	e.mu.RUnlock()

	if !exists {
		return "", errors.NewDatasetNotFoundError(datasetName)
	}

	jobID := e.jobManager.CreateJob(model.JobTypeJoin, datasetName, map[string]string{
		"operation":    "join",
		"record_count": fmt.Sprintf("%d", instance.Records.Len()),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		onProgress := func(processed, total int) {
			e.jobManager.UpdateJobProgress(jobID, processed, total, "joining records")
		}
		result, err := e.runJoin(datasetName, instance, onProgress)
		if err != nil {
			return err
		}
		e.jobManager.SetJobJoinStats(jobID, result.Stats)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start join job: %w", err)
	}

	return jobID, nil
}

// runJoin executes the join over a snapshot of the dataset's records and
// stores the outcome. The snapshot means records appended while the join runs
// do not affect it; the cached result reflects the dataset as it was when the
// join started.
func (e *Engine) runJoin(datasetName string, instance *DatasetInstance, onProgress func(processed, total int)) (*model.JoinResult, error) {
	settings := instance.Settings()
	texts := instance.Records.Texts()

	start := time.Now()
	joined, err := joiner.Join(texts, joiner.Options{
		QGramLength:     settings.QGramLength,
		MaxEditDistance: settings.MaxEditDistance,
		NumWorkers:      settings.NumWorkers,
		OnProgress:      onProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("join over dataset '%s' failed: %w", datasetName, err)
	}

	result := &model.JoinResult{
		Dataset:         datasetName,
		QGramLength:     settings.QGramLength,
		MaxEditDistance: settings.MaxEditDistance,
		Pairs:           joined.Pairs,
		Stats:           joined.Stats,
		TookMs:          time.Since(start).Milliseconds(),
	}

	e.mu.Lock()
	// The dataset may have been deleted while the join ran; do not resurrect
	// its cache entry.
	if _, exists := e.datasets[datasetName]; exists {
		e.results[datasetName] = result
	}
	e.mu.Unlock()

	jrPath := filepath.Join(e.dataDir, datasetName, joinResultFile)
	if err := persistence.SaveGob(jrPath, result); err != nil {
		log.Warnf("Failed to persist join result for dataset '%s': %v", datasetName, err)
	}

	log.Infof("Join over dataset '%s' finished: %d pairs from %d records in %dms",
		datasetName, len(result.Pairs), result.Stats.Records, result.TookMs)
	return result, nil
}

// GetJoinResult returns the latest join result for a dataset. It returns
// ErrInvalidInput when no join has run since the dataset last changed.
func (e *Engine) GetJoinResult(datasetName string) (*model.JoinResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, exists := e.datasets[datasetName]; !exists {
		return nil, errors.NewDatasetNotFoundError(datasetName)
	}
	result, exists := e.results[datasetName]
	if !exists {
		return nil, errors.NewValidationError("", fmt.Sprintf("no join result available for dataset '%s'; run a join first", datasetName))
	}
	return result, nil
}

// GetJoinPairs returns one page of the latest join result's pairs. Pages are
// 1-based.
func (e *Engine) GetJoinPairs(datasetName string, page, pageSize int) (services.PairPage, error) {
	result, err := e.GetJoinResult(datasetName)
	if err != nil {
		return services.PairPage{}, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total := len(result.Pairs)
	offset := (page - 1) * pageSize
	pairs := []model.ResultPair{}
	if offset < total {
		end := offset + pageSize
		if end > total {
			end = total
		}
		pairs = make([]model.ResultPair, end-offset)
		copy(pairs, result.Pairs[offset:end])
	}

	return services.PairPage{
		Pairs:    pairs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// AddRecordsAsync appends records to a dataset as a background job and returns
// the job ID.
func (e *Engine) AddRecordsAsync(datasetName string, texts []string) (string, error) {
	e.mu.RLock()
	if _, exists := e.datasets[datasetName]; !exists {
		e.mu.RUnlock()
		return "", errors.NewDatasetNotFoundError(datasetName)
	}
	e.mu.RUnlock()

	jobID := e.jobManager.CreateJob(model.JobTypeAddRecords, datasetName, map[string]string{
		"operation":    "add_records",
		"record_count": fmt.Sprintf("%d", len(texts)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		e.jobManager.UpdateJobProgress(jobID, 0, len(texts), "appending records")
		if err := e.AddRecords(datasetName, texts); err != nil {
			return err
		}
		e.jobManager.UpdateJobProgress(jobID, len(texts), len(texts), "records persisted")
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to start add records job: %w", err)
	}

	return jobID, nil
}

// DeleteDatasetAsync deletes a dataset as a background job and returns the
// job ID.
func (e *Engine) DeleteDatasetAsync(name string) (string, error) {
	e.mu.RLock()
	if _, exists := e.datasets[name]; !exists {
		e.mu.RUnlock()
		return "", errors.NewDatasetNotFoundError(name)
	}
	e.mu.RUnlock()

	jobID := e.jobManager.CreateJob(model.JobTypeDeleteDataset, name, map[string]string{
		"operation": "delete_dataset",
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.DeleteDataset(name)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start delete dataset job: %w", err)
	}

	return jobID, nil
}
