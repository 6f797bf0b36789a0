package location

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gympresence/internal/api"
	"gympresence/internal/auth"
	"gympresence/internal/gym"
	"gympresence/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Report a location sample
// @Description  Appends a geofence observation; the server derives the within flag
// @Tags         location
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body location.ReportSampleRequest true "Sample payload"
// @Success      201 {object} location.ReportSampleResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /locations [post]
func (h *Handler) ReportSample(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "member not authenticated"})
		return
	}

	var req ReportSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: api.CodeMissingFields})
		return
	}

	resp, err := h.service.RecordSample(c.Request.Context(), memberID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccuracyTooLow):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "location accuracy exceeds tolerance", Code: api.CodeMissingFields})
		case errors.Is(err, gym.ErrGymNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found", Code: api.CodeGymNotFound})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to record sample", Code: api.CodeInternalError})
		}
		return
	}

	metrics.RecordLocationSample(resp.IsWithinGeofence)
	c.JSON(http.StatusCreated, resp)
}

// @Summary      Recent location history
// @Tags         location
// @Produce      json
// @Security     BearerAuth
// @Param        gymID query int true "Gym ID"
// @Success      200 {array} location.HistoryRecord
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /locations [get]
func (h *Handler) RecentHistory(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "member not authenticated"})
		return
	}

	gymID, err := strconv.Atoi(c.Query("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "gymID query parameter required", Code: api.CodeMissingFields})
		return
	}

	records, err := h.service.Recent(c.Request.Context(), memberID, gymID, 30*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load history", Code: api.CodeInternalError})
		return
	}

	c.JSON(http.StatusOK, records)
}
