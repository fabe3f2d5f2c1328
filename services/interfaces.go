package services

import (
	"github.com/gcbaptista/go-similarity-join/config"
	"github.com/gcbaptista/go-similarity-join/internal/jobs"
	"github.com/gcbaptista/go-similarity-join/model"
)

// RecordPage is one page of a dataset's records.
type RecordPage struct {
	Records  []model.Record `json:"records"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// PairPage is one page of a join result's matched pairs.
type PairPage struct {
	Pairs    []model.ResultPair `json:"pairs"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// DatasetManager manages the lifecycle of datasets
type DatasetManager interface {
	CreateDataset(settings config.JoinSettings) error
	GetDatasetSettings(name string) (config.JoinSettings, error)
	UpdateDatasetSettings(name string, settings config.JoinSettings) error
	DeleteDataset(name string) error
	DeleteDatasetAsync(name string) (string, error) // Returns job ID
	ListDatasets() []string

	AddRecords(datasetName string, texts []string) error
	AddRecordsAsync(datasetName string, texts []string) (string, error) // Returns job ID
	GetRecords(datasetName string, page, pageSize int) (RecordPage, error)
	PersistDatasetData(datasetName string) error
}

// JoinRunner executes similarity self-joins over datasets
type JoinRunner interface {
	Join(datasetName string) (*model.JoinResult, error)
	JoinAsync(datasetName string) (string, error) // Returns job ID
	GetJoinResult(datasetName string) (*model.JoinResult, error)
	GetJoinPairs(datasetName string, page, pageSize int) (PairPage, error)
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(datasetName string, status *model.JobStatus) []*model.Job
	GetJobMetrics() jobs.JobMetricsData
	GetJobSuccessRate() float64
	GetCurrentWorkload() int64
}
