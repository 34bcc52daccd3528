package services

import (
	"context"
	"log/slog"

	"github.com/mga-portal/database"
	"github.com/mga-portal/dto"
	"github.com/mga-portal/models"
	"github.com/mga-portal/repositories"
)

// TaskService loads the task list page
type TaskService struct {
	loader *ViewLoader[models.Task]
}

// NewTaskService creates a new task service instance
func NewTaskService(store database.RecordStore, logger *slog.Logger) *TaskService {
	return &TaskService{
		loader: NewViewLoader[models.Task](repositories.NewTaskRepository(store), logger),
	}
}

// ListTasks returns open tasks first, then finished ones, each group newest
// first. On a backend failure the list is empty.
func (s *TaskService) ListTasks(ctx context.Context) dto.TasksPageData {
	return dto.TasksPageData{Tasks: s.loader.Load(ctx)}
}

// FetchTasks returns the raw query result
func (s *TaskService) FetchTasks(ctx context.Context) database.Result[models.Task] {
	return s.loader.Fetch(ctx)
}
