package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProjects godoc
// @Summary List all projects
// @Description Newest projects first. A backend failure yields an empty list, never an error status.
// @Tags projects
// @Produce json
// @Success 200 {object} dto.ProjectsPageData
// @Router /projects [get]
func (h *Handler) ListProjects(c *gin.Context) {
	c.JSON(http.StatusOK, h.projects.ListProjects(c.Request.Context()))
}
