package dto

import "github.com/mga-portal/models"

// ProjectsPageData is the data the project list page renders
type ProjectsPageData struct {
	Projects []models.Project `json:"projects"`
}

// TasksPageData is the data the task list page renders
type TasksPageData struct {
	Tasks []models.Task `json:"tasks"`
}
