package membership

import (
	"net/http"
	"strconv"

	"gympresence/internal/api"
	"gympresence/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	gate AccessGate
}

func NewHandler(gate AccessGate) *Handler {
	return &Handler{gate: gate}
}

// @Summary      Check gym access
// @Description  Gate decision consulted before geofence tracking starts
// @Tags         membership
// @Produce      json
// @Security     BearerAuth
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} membership.AccessResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /gyms/{gymID}/access [get]
func (h *Handler) CheckAccess(c *gin.Context) {
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

	result, err := h.gate.CheckAccess(c.Request.Context(), memberID, gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to check access", Code: api.CodeInternalError})
		return
	}

	c.JSON(http.StatusOK, result)
}
