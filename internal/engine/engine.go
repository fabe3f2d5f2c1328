// Package engine orchestrates named datasets: it owns their settings and
// record stores, persists them to disk, and runs similarity joins over them,
// synchronously or as background jobs.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gcbaptista/go-similarity-join/config"
	"github.com/gcbaptista/go-similarity-join/internal/errors"
	"github.com/gcbaptista/go-similarity-join/internal/jobs"
	"github.com/gcbaptista/go-similarity-join/internal/logger"
	"github.com/gcbaptista/go-similarity-join/internal/persistence"
	"github.com/gcbaptista/go-similarity-join/model"
	"github.com/gcbaptista/go-similarity-join/services"
	"github.com/gcbaptista/go-similarity-join/store"
)

var log = logger.New("engine")

const (
	dataDirPerm     = 0750
	settingsFile    = "settings.gob"
	recordStoreFile = "record_store.gob"
	joinResultFile  = "join_result.gob"
)

// DatasetInstance bundles everything belonging to one named dataset.
type DatasetInstance struct {
	settings *config.JoinSettings
	Records  *store.RecordStore
}

// Settings returns a copy of the dataset's join settings.
func (d *DatasetInstance) Settings() config.JoinSettings {
	return *d.settings
}

// Engine manages multiple datasets and their join results.
// It implements the services.DatasetManager, services.JoinRunner and
// services.JobManager interfaces.
type Engine struct {
	mu         sync.RWMutex
	datasets   map[string]*DatasetInstance
	results    map[string]*model.JoinResult // latest join result per dataset
	dataDir    string
	jobManager *jobs.Manager
}

// NewEngine creates a new join engine orchestrator and loads any datasets
// previously persisted under dataDir.
func NewEngine(dataDir string, maxJobWorkers int) *Engine {
	eng := &Engine{
		datasets:   make(map[string]*DatasetInstance),
		results:    make(map[string]*model.JoinResult),
		dataDir:    dataDir,
		jobManager: jobs.NewManager(maxJobWorkers),
	}
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		log.Warnf("Could not create data directory %s: %v. Proceeding without persistence for new datasets if loading fails.", dataDir, err)
	}
	eng.jobManager.Start()
	eng.loadDatasetsFromDisk()
	return eng
}

// Stop shuts down the background job manager, waiting for running jobs.
func (e *Engine) Stop() {
	e.jobManager.Stop()
}

func (e *Engine) loadDatasetsFromDisk() {
	log.Infof("Loading datasets from disk: %s", e.dataDir)
	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		log.Warnf("Failed to read data directory %s: %v. No datasets loaded.", e.dataDir, err)
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		datasetName := item.Name()
		datasetPath := filepath.Join(e.dataDir, datasetName)

		var settings config.JoinSettings
		settingsPath := filepath.Join(datasetPath, settingsFile)
		if err := persistence.LoadGob(settingsPath, &settings); err != nil {
			log.Warnf("Failed to load settings for dataset %s from %s: %v. Skipping this dataset.", datasetName, settingsPath, err)
			continue
		}

		// Settings name should match directory name
		if settings.Name != datasetName {
			log.Warnf("Dataset name in settings ('%s') does not match directory name ('%s') for path %s. Skipping this dataset.", settings.Name, datasetName, datasetPath)
			continue
		}

		records := &store.RecordStore{}
		rsPath := filepath.Join(datasetPath, recordStoreFile)
		if err := persistence.LoadGob(rsPath, records); err != nil && err != os.ErrNotExist {
			log.Warnf("Failed to load record store for dataset %s from %s: %v. Proceeding with empty store.", datasetName, rsPath, err)
			records.Records = nil
		}

		e.datasets[datasetName] = &DatasetInstance{settings: &settings, Records: records}

		result := &model.JoinResult{}
		jrPath := filepath.Join(datasetPath, joinResultFile)
		if err := persistence.LoadGob(jrPath, result); err == nil {
			e.results[datasetName] = result
		} else if err != os.ErrNotExist {
			log.Warnf("Failed to load join result for dataset %s from %s: %v. Discarding stale result.", datasetName, jrPath, err)
		}

		log.Infof("Successfully loaded dataset: %s (%d records)", datasetName, records.Len())
	}
}

// CreateDataset creates a new dataset with the given settings and persists it.
func (e *Engine) CreateDataset(settings config.JoinSettings) error {
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.datasets[settings.Name]; exists {
		return errors.NewDatasetAlreadyExistsError(settings.Name)
	}

	instance := &DatasetInstance{settings: &settings, Records: &store.RecordStore{}}

	datasetPath := filepath.Join(e.dataDir, settings.Name)
	if err := os.MkdirAll(datasetPath, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create directory for dataset %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(datasetPath, settingsFile), settings); err != nil {
		return fmt.Errorf("failed to save settings for dataset %s: %w", settings.Name, err)
	}
	if err := persistence.SaveGob(filepath.Join(datasetPath, recordStoreFile), instance.Records); err != nil {
		return fmt.Errorf("failed to save initial record store for %s: %w", settings.Name, err)
	}

	e.datasets[settings.Name] = instance
	log.Infof("Dataset '%s' created and persisted.", settings.Name)
	return nil
}

// GetDatasetSettings retrieves the settings for a specific dataset.
func (e *Engine) GetDatasetSettings(name string) (config.JoinSettings, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.datasets[name]
	if !exists {
		return config.JoinSettings{}, errors.NewDatasetNotFoundError(name)
	}
	return *instance.settings, nil // Return a copy
}

// UpdateDatasetSettings updates the join parameters of an existing dataset and
// persists them. A cached join result is invalidated, since it was computed
// under the old parameters.
func (e *Engine) UpdateDatasetSettings(name string, newSettings config.JoinSettings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	instance, exists := e.datasets[name]
	if !exists {
		return errors.NewDatasetNotFoundError(name)
	}

	if newSettings.Name != "" && newSettings.Name != name {
		return errors.NewValidationError("name", fmt.Sprintf("cannot change dataset name from '%s' to '%s' during settings update", name, newSettings.Name))
	}
	newSettings.Name = name
	newSettings.ApplyDefaults()
	if err := newSettings.Validate(); err != nil {
		return err
	}

	instance.settings = &newSettings
	delete(e.results, name)
	if err := persistence.Remove(filepath.Join(e.dataDir, name, joinResultFile)); err != nil {
		log.Warnf("Failed to discard persisted join result for dataset '%s': %v", name, err)
	}

	settingsPath := filepath.Join(e.dataDir, name, settingsFile)
	if err := persistence.SaveGob(settingsPath, newSettings); err != nil {
		log.Errorf("Failed to persist updated settings for dataset '%s'. In-memory settings updated, but disk is stale: %v", name, err)
		return fmt.Errorf("failed to save updated settings for dataset '%s': %w", name, err)
	}

	log.Infof("Settings for dataset '%s' updated and persisted.", name)
	return nil
}

// DeleteDataset removes a dataset by its name from memory and disk.
func (e *Engine) DeleteDataset(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.datasets[name]; !exists {
		// To be idempotent, if not in memory, check if it exists on disk to remove
		datasetPath := filepath.Join(e.dataDir, name)
		if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
			return errors.NewDatasetNotFoundError(name)
		}
	} else {
		delete(e.datasets, name)
		delete(e.results, name)
	}

	datasetPath := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(datasetPath); err != nil {
		return fmt.Errorf("failed to delete dataset data directory %s: %w", datasetPath, err)
	}
	log.Infof("Dataset '%s' deleted from memory and disk.", name)
	return nil
}

// ListDatasets returns the names of all loaded datasets in sorted order.
func (e *Engine) ListDatasets() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.datasets))
	for name := range e.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddRecords appends records to a dataset and persists the updated store.
// Record IDs are positional and stable; appending never reorders existing
// records. A cached join result is invalidated.
func (e *Engine) AddRecords(datasetName string, texts []string) error {
	e.mu.Lock()
	instance, exists := e.datasets[datasetName]
	if !exists {
		e.mu.Unlock()
		return errors.NewDatasetNotFoundError(datasetName)
	}
	delete(e.results, datasetName)
	e.mu.Unlock()

	total := instance.Records.Append(texts)
	if err := persistence.Remove(filepath.Join(e.dataDir, datasetName, joinResultFile)); err != nil {
		log.Warnf("Failed to discard persisted join result for dataset '%s': %v", datasetName, err)
	}
	log.Infof("Added %d records to dataset '%s' (total: %d)", len(texts), datasetName, total)

	return e.PersistDatasetData(datasetName)
}

// GetRecords returns one page of a dataset's records. Pages are 1-based.
func (e *Engine) GetRecords(datasetName string, page, pageSize int) (services.RecordPage, error) {
	e.mu.RLock()
	instance, exists := e.datasets[datasetName]
	e.mu.RUnlock()

	if !exists {
		return services.RecordPage{}, errors.NewDatasetNotFoundError(datasetName)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	records, total := instance.Records.Page((page-1)*pageSize, pageSize)
	return services.RecordPage{
		Records:  records,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// PersistDatasetData saves a dataset's record store to disk.
func (e *Engine) PersistDatasetData(datasetName string) error {
	e.mu.RLock()
	instance, exists := e.datasets[datasetName]
	e.mu.RUnlock()

	if !exists {
		return errors.NewDatasetNotFoundError(datasetName)
	}

	datasetPath := filepath.Join(e.dataDir, datasetName)
	if err := persistence.SaveGob(filepath.Join(datasetPath, recordStoreFile), instance.Records); err != nil {
		return fmt.Errorf("failed to save record store for %s: %w", datasetName, err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns all jobs for a dataset, optionally filtered by status.
func (e *Engine) ListJobs(datasetName string, status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(datasetName, status)
}

// GetJobMetrics returns aggregate job execution metrics.
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}

// GetJobSuccessRate returns the overall job success rate.
func (e *Engine) GetJobSuccessRate() float64 {
	return e.jobManager.GetJobSuccessRate()
}

// GetCurrentWorkload returns the number of currently active jobs.
func (e *Engine) GetCurrentWorkload() int64 {
	return e.jobManager.GetCurrentWorkload()
}
