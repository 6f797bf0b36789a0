package checkin

import (
	"errors"
	"net/http"
	"strconv"

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

// @Summary      Check in at a gym
// @Description  Server-side presence validation: replays stored location history and rewards a verified visit
// @Tags         checkin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Param        request body checkin.Request false "Optional client coordinates and check-in type"
// @Success      201 {object} checkin.Result
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "member not authenticated"})
		return
	}

	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid gym ID", Code: api.CodeMissingFields})
		return
	}

	var req Request
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: api.CodeMissingFields})
			return
		}
	}
	req.GymID = gymID

	result, err := h.service.CheckIn(c.Request.Context(), memberID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	checkInType := req.CheckInType
	if checkInType == "" {
		checkInType = DefaultCheckInType
	}
	metrics.RecordCheckIn(checkInType, "success")
	metrics.RecordCoinsEarned(result.CoinsEarned)
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var geofenceErr *GeofenceViolationError
	var presenceErr *InsufficientPresenceError

	switch {
	case errors.Is(err, ErrMissingFields):
		metrics.CheckInsTotal.WithLabelValues(DefaultCheckInType, "rejected").Inc()
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error(), Code: api.CodeMissingFields})
	case errors.As(err, &geofenceErr):
		metrics.GeofenceViolationsTotal.Inc()
		metrics.CheckInsTotal.WithLabelValues(DefaultCheckInType, "rejected").Inc()
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:     "you are too far from the gym to check in",
			Code:      api.CodeGeofenceViolation,
			DistanceM: &geofenceErr.DistanceM,
		})
	case errors.As(err, &presenceErr):
		metrics.PresenceRejectionsTotal.Inc()
		metrics.CheckInsTotal.WithLabelValues(DefaultCheckInType, "rejected").Inc()
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:             "stay longer inside the gym before checking in",
			Code:              api.CodeInsufficientPresence,
			ContinuousMinutes: &presenceErr.ContinuousMinutes,
		})
	case errors.Is(err, ErrDuplicateCheckIn):
		metrics.CheckInsTotal.WithLabelValues(DefaultCheckInType, "duplicate").Inc()
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "already checked in today", Code: api.CodeAlreadyCheckedIn})
	case errors.Is(err, ErrMembershipInactive):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "no active membership for this gym", Code: api.CodeMembershipInactive})
	case errors.Is(err, gym.ErrGymNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Gym not found", Code: api.CodeGymNotFound})
	default:
		// Internal details go to the log, not to the member.
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to process check-in", Code: api.CodeInternalError})
	}
}

// @Summary      Recent check-ins
// @Tags         checkin
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size"
// @Success      200 {array} checkin.CheckIn
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /me/checkins [get]
func (h *Handler) ListMyCheckIns(c *gin.Context) {
	memberID, ok := auth.GetMemberID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "member not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	checkIns, err := h.service.History(c.Request.Context(), memberID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load check-ins", Code: api.CodeInternalError})
		return
	}

	c.JSON(http.StatusOK, checkIns)
}
