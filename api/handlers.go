// Package api exposes the similarity join engine over HTTP using gin.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-similarity-join/config"
	"github.com/gcbaptista/go-similarity-join/internal/engine"
	"github.com/gcbaptista/go-similarity-join/internal/errors"
	"github.com/gcbaptista/go-similarity-join/services"
)

// API holds dependencies for API handlers: the dataset manager, join runner,
// and job manager.
type API struct {
	datasets services.DatasetManager
	joins    services.JoinRunner
	jobs     services.JobManager
}

// NewAPI creates a new API handler structure.
func NewAPI(datasets services.DatasetManager, joins services.JoinRunner, jobs services.JobManager) *API {
	return &API{
		datasets: datasets,
		joins:    joins,
		jobs:     jobs,
	}
}

// SetupRoutes defines all the API routes for the similarity join service.
func SetupRoutes(router *gin.Engine, eng *engine.Engine) {
	apiHandler := NewAPI(eng, eng, eng)

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
	}

	// Dataset management routes
	datasetRoutes := router.Group("/datasets")
	{
		datasetRoutes.POST("", apiHandler.CreateDatasetHandler)                              // Create a new dataset
		datasetRoutes.GET("", apiHandler.ListDatasetsHandler)                                // List all datasets
		datasetRoutes.GET("/:datasetName", apiHandler.GetDatasetHandler)                     // Get dataset settings
		datasetRoutes.DELETE("/:datasetName", apiHandler.DeleteDatasetHandler)               // Delete a dataset
		datasetRoutes.PATCH("/:datasetName/settings", apiHandler.UpdateDatasetSettingsHandler) // Update join settings
		datasetRoutes.GET("/:datasetName/stats", apiHandler.GetDatasetStatsHandler)          // Get dataset statistics
		datasetRoutes.GET("/:datasetName/jobs", apiHandler.ListJobsHandler)                  // List jobs for a dataset

		// Record management routes per dataset
		recordRoutes := datasetRoutes.Group("/:datasetName/records")
		{
			recordRoutes.PUT("", apiHandler.AddRecordsHandler) // Append records
			recordRoutes.GET("", apiHandler.GetRecordsHandler) // List records with pagination
		}

		// Join routes per dataset
		datasetRoutes.POST("/:datasetName/_join", apiHandler.RunJoinHandler)        // Start a join
		datasetRoutes.GET("/:datasetName/_join", apiHandler.GetJoinResultHandler)   // Latest join result
		datasetRoutes.GET("/:datasetName/_join/pairs", apiHandler.GetJoinPairsHandler) // Paginated pairs
	}
}

// CreateDatasetHandler handles the request to create a new dataset.
// Request Body: config.JoinSettings
func (api *API) CreateDatasetHandler(c *gin.Context) {
	var settings config.JoinSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	if err := api.datasets.CreateDataset(settings); err != nil {
		switch {
		case errors.Is(err, errors.ErrDatasetAlreadyExists):
			SendDatasetExistsError(c, settings.Name)
		case errors.Is(err, errors.ErrInvalidParameter), errors.Is(err, errors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "Failed to create dataset: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Dataset '" + settings.Name + "' created successfully"})
}

// ListDatasetsHandler lists the names of all datasets.
func (api *API) ListDatasetsHandler(c *gin.Context) {
	names := api.datasets.ListDatasets()
	c.JSON(http.StatusOK, gin.H{
		"datasets": names,
		"total":    len(names),
	})
}

// GetDatasetHandler returns the join settings of a dataset.
func (api *API) GetDatasetHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")

	settings, err := api.datasets.GetDatasetSettings(datasetName)
	if err != nil {
		SendDatasetNotFoundError(c, datasetName)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateDatasetSettingsHandler updates the join parameters of a dataset.
// Request Body: config.JoinSettings (name must be absent or unchanged)
func (api *API) UpdateDatasetSettingsHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")

	var settings config.JoinSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: "+err.Error())
		return
	}

	if err := api.datasets.UpdateDatasetSettings(datasetName, settings); err != nil {
		switch {
		case errors.Is(err, errors.ErrDatasetNotFound):
			SendDatasetNotFoundError(c, datasetName)
		case errors.Is(err, errors.ErrInvalidParameter), errors.Is(err, errors.ErrInvalidInput):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "Failed to update settings: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings for dataset '" + datasetName + "' updated successfully"})
}

// DeleteDatasetHandler deletes a dataset. The deletion runs as a background
// job and the job ID is returned.
func (api *API) DeleteDatasetHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")

	jobID, err := api.datasets.DeleteDatasetAsync(datasetName)
	if err != nil {
		if errors.Is(err, errors.ErrDatasetNotFound) {
			SendDatasetNotFoundError(c, datasetName)
		} else {
			SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, "Failed to delete dataset: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Dataset deletion started for '" + datasetName + "'",
		"job_id":  jobID,
	})
}

// AddRecordsHandler appends records to a dataset. Accepts either a JSON array
// of strings or an object with a "records" array. The append runs as a
// background job and the job ID is returned.
func (api *API) AddRecordsHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")

	var body struct {
		Records []string `json:"records"`
	}
	var texts []string
	if err := c.ShouldBindBodyWithJSON(&body); err == nil && body.Records != nil {
		texts = body.Records
	} else if err := c.ShouldBindBodyWithJSON(&texts); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid request body: expected an array of strings or {\"records\": [...]}")
		return
	}

	if len(texts) == 0 {
		SendValidationError(c, "records", "at least one record is required")
		return
	}

	jobID, err := api.datasets.AddRecordsAsync(datasetName, texts)
	if err != nil {
		if errors.Is(err, errors.ErrDatasetNotFound) {
			SendDatasetNotFoundError(c, datasetName)
		} else {
			SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed, "Failed to add records: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": fmt.Sprintf("Adding %d records to dataset '%s'", len(texts), datasetName),
		"job_id":  jobID,
	})
}

// GetRecordsHandler lists a dataset's records with pagination.
// Query params: page (1-based, default 1), page_size (default 10).
func (api *API) GetRecordsHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")
	page, pageSize := paginationParams(c)

	recordPage, err := api.datasets.GetRecords(datasetName, page, pageSize)
	if err != nil {
		SendDatasetNotFoundError(c, datasetName)
		return
	}
	c.JSON(http.StatusOK, recordPage)
}

// GetDatasetStatsHandler returns statistics for a specific dataset.
func (api *API) GetDatasetStatsHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")

	settings, err := api.datasets.GetDatasetSettings(datasetName)
	if err != nil {
		SendDatasetNotFoundError(c, datasetName)
		return
	}

	recordPage, err := api.datasets.GetRecords(datasetName, 1, 1)
	if err != nil {
		SendDatasetNotFoundError(c, datasetName)
		return
	}

	stats := gin.H{
		"name":         settings.Name,
		"record_count": recordPage.Total,
		"join_settings": gin.H{
			"q_gram_length":     settings.QGramLength,
			"max_edit_distance": settings.MaxEditDistance,
			"prefix_length":     settings.PrefixLength(),
			"num_workers":       settings.NumWorkers,
		},
	}

	if result, err := api.joins.GetJoinResult(datasetName); err == nil {
		stats["last_join"] = gin.H{
			"pairs_confirmed": result.Stats.PairsConfirmed,
			"took_ms":         result.TookMs,
			"stats":           result.Stats,
		}
	}

	c.JSON(http.StatusOK, stats)
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-similarity-join",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// paginationParams reads the page and page_size query parameters, falling
// back to defaults for missing or malformed values.
func paginationParams(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 10
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page_size", "10")); err == nil && v > 0 {
		pageSize = v
	}
	return page, pageSize
}
