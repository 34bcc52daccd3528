package services

import (
	"context"
	"log/slog"

	"github.com/mga-portal/database"
	"github.com/mga-portal/dto"
	"github.com/mga-portal/models"
	"github.com/mga-portal/repositories"
)

// ProjectService loads the project list page
type ProjectService struct {
	loader *ViewLoader[models.Project]
}

// NewProjectService creates a new project service instance
func NewProjectService(store database.RecordStore, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		loader: NewViewLoader[models.Project](repositories.NewProjectRepository(store), logger),
	}
}

// ListProjects returns all projects, newest first. On a backend failure the
// list is empty.
func (s *ProjectService) ListProjects(ctx context.Context) dto.ProjectsPageData {
	return dto.ProjectsPageData{Projects: s.loader.Load(ctx)}
}

// FetchProjects returns the raw query result
func (s *ProjectService) FetchProjects(ctx context.Context) database.Result[models.Project] {
	return s.loader.Fetch(ctx)
}
