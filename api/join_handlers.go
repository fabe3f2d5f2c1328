package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-similarity-join/internal/errors"
)

// RunJoinHandler starts a similarity self-join over a dataset. The join runs
// as a background job and a job ID is returned; pass ?sync=true to wait for
// the result instead.
func (api *API) RunJoinHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")
	sync := c.Query("sync") == "true"

	if !sync {
		jobID, err := api.joins.JoinAsync(datasetName)
		if err != nil {
			if errors.Is(err, errors.ErrDatasetNotFound) {
				SendDatasetNotFoundError(c, datasetName)
			} else {
				SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed, "Failed to start join: "+err.Error())
			}
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"status":  "accepted",
			"message": "Join started for dataset '" + datasetName + "'",
			"job_id":  jobID,
		})
		return
	}

	result, err := api.joins.Join(datasetName)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrDatasetNotFound):
			SendDatasetNotFoundError(c, datasetName)
		case errors.Is(err, errors.ErrInvalidParameter):
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		default:
			SendError(c, http.StatusInternalServerError, ErrorCodeJoinFailed, "Join failed: "+err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetJoinResultHandler returns the latest join result for a dataset,
// including the filter-cascade statistics.
func (api *API) GetJoinResultHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")

	result, err := api.joins.GetJoinResult(datasetName)
	if err != nil {
		if errors.Is(err, errors.ErrDatasetNotFound) {
			SendDatasetNotFoundError(c, datasetName)
		} else {
			SendError(c, http.StatusNotFound, ErrorCodeResultNotFound, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetJoinPairsHandler returns one page of the latest join result's matched
// pairs. Query params: page (1-based, default 1), page_size (default 10).
func (api *API) GetJoinPairsHandler(c *gin.Context) {
	datasetName := c.Param("datasetName")
	page, pageSize := paginationParams(c)

	pairPage, err := api.joins.GetJoinPairs(datasetName, page, pageSize)
	if err != nil {
		if errors.Is(err, errors.ErrDatasetNotFound) {
			SendDatasetNotFoundError(c, datasetName)
		} else {
			SendError(c, http.StatusNotFound, ErrorCodeResultNotFound, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, pairPage)
}
