package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTasks godoc
// @Summary List all tasks with their project
// @Description Open tasks first, then finished ones, newest first within each group. A backend failure yields an empty list.
// @Tags tasks
// @Produce json
// @Success 200 {object} dto.TasksPageData
// @Router /tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.tasks.ListTasks(c.Request.Context()))
}
