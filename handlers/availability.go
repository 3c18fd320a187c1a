package handlers

import (
	"errors"
	"net/http"

	"stayflow/services/availability"
	"stayflow/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves read-only availability queries.
type AvailabilityHandler struct {
	Service availability.Service
}

func NewAvailabilityHandler(svc availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// CheckAvailability handles GET /api/availability?unit=&start=&end=.
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	unitID := c.Query("unit")
	start := c.Query("start")
	end := c.Query("end")
	if unitID == "" || start == "" || end == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing query parameters", "unit, start and end are required")
		return
	}

	result, err := h.Service.Check(c.Request.Context(), unitID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrUnitNotFound):
			utils.JSONError(c, http.StatusNotFound, "unit not found", unitID)
		case errors.Is(err, availability.ErrInvalidRange):
			utils.JSONError(c, http.StatusBadRequest, "invalid date range", "use YYYY-MM-DD with start before end")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "availability check failed", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
