package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-similarity-join/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs for a dataset
func (api *API) ListJobsHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobs := api.jobs.ListJobs(datasetName, statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":         jobs,
		"dataset_name": datasetName,
		"total":        len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":          api.jobs.GetJobMetrics(),
		"success_rate":     api.jobs.GetJobSuccessRate(),
		"current_workload": api.jobs.GetCurrentWorkload(),
	})
}
