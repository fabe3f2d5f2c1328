package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-similarity-join/model"
)

// JobMetricsData is a mutex-free snapshot of job execution and join
// accounting, safe for copying and JSON encoding.
type JobMetricsData struct {
	JobsCreated          int64                     `json:"jobs_created"`
	JobsCompleted        int64                     `json:"jobs_completed"`
	JobsFailed           int64                     `json:"jobs_failed"`
	TotalExecutionTime   time.Duration             `json:"total_execution_time_ns"`
	AverageExecutionTime time.Duration             `json:"average_execution_time_ns"`
	JobsByType           map[model.JobType]int64   `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64 `json:"jobs_by_status"`
	JoinsRun             int64                     `json:"joins_run"`
	RecordsJoined        int64                     `json:"records_joined"`
	PairsConfirmed       int64                     `json:"pairs_confirmed"`
	CandidatesProbed     int64                     `json:"candidates_probed"`
	VerificationsRun     int64                     `json:"verifications_run"`
	LastUpdated          time.Time                 `json:"last_updated"`
}

// JobMetrics tracks job execution counters plus aggregate join accounting
// folded in from every join job that finishes.
type JobMetrics struct {
	mu                   sync.RWMutex
	jobsCreated          int64
	jobsCompleted        int64
	jobsFailed           int64
	totalExecutionTime   time.Duration
	averageExecutionTime time.Duration
	jobsByType           map[model.JobType]int64
	jobsByStatus         map[model.JobStatus]int64
	joinsRun             int64
	recordsJoined        int64
	pairsConfirmed       int64
	candidatesProbed     int64
	verificationsRun     int64
	lastUpdated          time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		jobsByType:   make(map[model.JobType]int64),
		jobsByStatus: make(map[model.JobStatus]int64),
		lastUpdated:  time.Now(),
	}
}

// RecordJobCreated increments job creation counter
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCreated++
	m.jobsByType[jobType]++
	m.jobsByStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange updates status counters
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" {
		m.jobsByStatus[oldStatus]--
		if m.jobsByStatus[oldStatus] < 0 {
			m.jobsByStatus[oldStatus] = 0
		}
	}
	m.jobsByStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted records successful job completion
func (m *JobMetrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsCompleted++
	m.totalExecutionTime += executionTime
	if m.jobsCompleted > 0 {
		m.averageExecutionTime = m.totalExecutionTime / time.Duration(m.jobsCompleted)
	}
	m.lastUpdated = time.Now()
}

// RecordJobFailed records job failure
func (m *JobMetrics) RecordJobFailed(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobsFailed++
	m.lastUpdated = time.Now()
}

// RecordJoinOutcome folds the accounting of one finished join into the
// aggregate join counters.
func (m *JobMetrics) RecordJoinOutcome(stats model.JoinStats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.joinsRun++
	m.recordsJoined += int64(stats.Records)
	m.pairsConfirmed += stats.PairsConfirmed
	m.candidatesProbed += stats.CandidatesProbed
	m.verificationsRun += stats.VerificationsRun
	m.lastUpdated = time.Now()
}

// GetMetrics returns a copy of current metrics without mutex (safe for copying)
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobsByType := make(map[model.JobType]int64, len(m.jobsByType))
	for k, v := range m.jobsByType {
		jobsByType[k] = v
	}
	jobsByStatus := make(map[model.JobStatus]int64, len(m.jobsByStatus))
	for k, v := range m.jobsByStatus {
		jobsByStatus[k] = v
	}

	return JobMetricsData{
		JobsCreated:          m.jobsCreated,
		JobsCompleted:        m.jobsCompleted,
		JobsFailed:           m.jobsFailed,
		TotalExecutionTime:   m.totalExecutionTime,
		AverageExecutionTime: m.averageExecutionTime,
		JobsByType:           jobsByType,
		JobsByStatus:         jobsByStatus,
		JoinsRun:             m.joinsRun,
		RecordsJoined:        m.recordsJoined,
		PairsConfirmed:       m.pairsConfirmed,
		CandidatesProbed:     m.candidatesProbed,
		VerificationsRun:     m.verificationsRun,
		LastUpdated:          m.lastUpdated,
	}
}

// GetSuccessRate returns the success rate (0.0 to 1.0)
func (m *JobMetrics) GetSuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	totalFinished := m.jobsCompleted + m.jobsFailed
	if totalFinished == 0 {
		return 1.0 // No jobs yet, assume 100% success
	}
	return float64(m.jobsCompleted) / float64(totalFinished)
}

// GetCurrentWorkload returns the number of currently active jobs
func (m *JobMetrics) GetCurrentWorkload() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.jobsByStatus[model.JobStatusPending] + m.jobsByStatus[model.JobStatusRunning]
}
