package handlers

import (
	"net/http"

	"stayflow/config"

	"github.com/gin-gonic/gin"
)

// UnitHandler lists the configured rental units.
type UnitHandler struct {
	Units *config.UnitRegistry
}

func NewUnitHandler(units *config.UnitRegistry) *UnitHandler {
	return &UnitHandler{Units: units}
}

// ListUnits handles GET /api/units.
func (h *UnitHandler) ListUnits(c *gin.Context) {
	type unitSummary struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		SourcesCount int    `json:"sources_count"`
	}

	units := h.Units.All()
	out := make([]unitSummary, 0, len(units))
	for _, u := range units {
		out = append(out, unitSummary{ID: u.ID, Name: u.Name, SourcesCount: len(u.Sources)})
	}

	c.JSON(http.StatusOK, gin.H{"units": out})
}
