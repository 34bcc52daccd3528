package v1

import (
	"context"

	"github.com/mga-portal/dto"
)

// ProjectLister loads the project list page data
type ProjectLister interface {
	ListProjects(ctx context.Context) dto.ProjectsPageData
}

// TaskLister loads the task list page data
type TaskLister interface {
	ListTasks(ctx context.Context) dto.TasksPageData
}

// Handler serves the portal page data
type Handler struct {
	projects ProjectLister
	tasks    TaskLister
}

// NewHandler creates the v1 handler
func NewHandler(projects ProjectLister, tasks TaskLister) *Handler {
	return &Handler{projects: projects, tasks: tasks}
}
