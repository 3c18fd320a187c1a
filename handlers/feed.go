package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"stayflow/utils"

	"github.com/gin-gonic/gin"
)

// FeedHandler serves the generated public calendar feeds. These routes are
// unauthenticated: OTAs fetch them with plain GETs.
type FeedHandler struct {
	PublicDir string
}

func NewFeedHandler(publicDir string) *FeedHandler {
	return &FeedHandler{PublicDir: publicDir}
}

// ServeFeed handles GET /public/:filename.
func (h *FeedHandler) ServeFeed(c *gin.Context) {
	filename := c.Param("filename")
	// Serve only flat .ics files out of the public dir.
	if filename != filepath.Base(filename) || !strings.HasSuffix(filename, ".ics") {
		utils.JSONError(c, http.StatusNotFound, "file not found", filename)
		return
	}

	path := filepath.Join(h.PublicDir, filename)
	c.Header("Content-Type", "text/calendar")
	c.File(path)
}
