package handlers

import (
	"errors"
	"net/http"

	"stayflow/services/ledger"
	"stayflow/utils"

	"github.com/gin-gonic/gin"
)

// BlockHandler manages the manual-block ledger over HTTP.
type BlockHandler struct {
	Service ledger.Service
}

func NewBlockHandler(svc ledger.Service) *BlockHandler {
	return &BlockHandler{Service: svc}
}

type addBlockRequest struct {
	Unit  string `json:"unit" binding:"required"`
	Start string `json:"start" binding:"required"` // YYYY-MM-DD
	End   string `json:"end" binding:"required"`   // YYYY-MM-DD
}

type removeBlockRequest struct {
	Unit  string `json:"unit" binding:"required"`
	Start string `json:"start" binding:"required"` // YYYY-MM-DD
}

// AddBlock handles POST /api/blocks.
func (h *BlockHandler) AddBlock(c *gin.Context) {
	var req addBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	block, err := h.Service.Add(c.Request.Context(), req.Unit, req.Start, req.End)
	if err != nil {
		if errors.Is(err, ledger.ErrUnitNotFound) {
			utils.JSONError(c, http.StatusNotFound, "unit not found", req.Unit)
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "failed to add block", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Block added and feed regenerated",
		"block":   block,
	})
}

// RemoveBlock handles DELETE /api/blocks. A block is identified by its
// exact start date within the unit.
func (h *BlockHandler) RemoveBlock(c *gin.Context) {
	var req removeBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	removed, err := h.Service.Remove(c.Request.Context(), req.Unit, req.Start)
	if err != nil {
		if errors.Is(err, ledger.ErrUnitNotFound) {
			utils.JSONError(c, http.StatusNotFound, "unit not found", req.Unit)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to remove block", err.Error())
		return
	}
	if !removed {
		c.JSON(http.StatusOK, gin.H{
			"status":  "no_change",
			"message": "No block found with that start date",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Block removed and feed regenerated",
	})
}

// ListBlocks handles GET /api/blocks/:unit.
func (h *BlockHandler) ListBlocks(c *gin.Context) {
	unitID := c.Param("unit")

	blocks, err := h.Service.List(c.Request.Context(), unitID)
	if err != nil {
		if errors.Is(err, ledger.ErrUnitNotFound) {
			utils.JSONError(c, http.StatusNotFound, "unit not found", unitID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to list blocks", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unit":   unitID,
		"blocks": blocks,
		"count":  len(blocks),
	})
}

// RegenerateFeed handles POST /api/feeds/:unit/regenerate, rebuilding the
// public feed from the current ledger without mutating it.
func (h *BlockHandler) RegenerateFeed(c *gin.Context) {
	unitID := c.Param("unit")

	if err := h.Service.RegenerateFeed(c.Request.Context(), unitID); err != nil {
		if errors.Is(err, ledger.ErrUnitNotFound) {
			utils.JSONError(c, http.StatusNotFound, "unit not found", unitID)
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to regenerate feed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Feed regenerated"})
}
