package handlers

import (
	"errors"
	"net/http"

	"stayflow/models"
	"stayflow/services/availability"
	"stayflow/services/booking"
	"stayflow/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the check-then-commit booking transaction.
type BookingHandler struct {
	Service booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{Service: svc}
}

type confirmBookingRequest struct {
	Unit     string           `json:"unit" binding:"required"`
	CheckIn  string           `json:"check_in" binding:"required"`
	CheckOut string           `json:"check_out" binding:"required"`
	Guest    models.GuestInfo `json:"guest"`
}

// ConfirmBooking handles POST /api/bookings.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	outcome, err := h.Service.Confirm(c.Request.Context(), req.Unit, req.CheckIn, req.CheckOut, req.Guest)
	if err != nil {
		var unavailable *booking.DatesUnavailableError
		switch {
		case errors.As(err, &unavailable):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "dates unavailable",
				"conflicts": unavailable.Conflicts,
			})
		case errors.Is(err, availability.ErrUnitNotFound):
			utils.JSONError(c, http.StatusNotFound, "unit not found", req.Unit)
		case errors.Is(err, availability.ErrInvalidRange):
			utils.JSONError(c, http.StatusBadRequest, "invalid date range", "use YYYY-MM-DD with check_in before check_out")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "booking failed", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, outcome)
}
