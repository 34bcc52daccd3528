package repositories

import (
	"github.com/mga-portal/database"
	"github.com/mga-portal/models"
)

// ProjectSource is the table the project list reads
const ProjectSource = "projects"

// ProjectOrder lists newest projects first
var ProjectOrder = database.OrderSpec{
	database.Desc("created_at"),
}

// ProjectRepository handles reads of the projects table
type ProjectRepository = CollectionRepository[models.Project]

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(store database.RecordStore) *ProjectRepository {
	return NewCollectionRepository[models.Project](store, ProjectSource, ProjectOrder)
}
