package repositories

import (
	"github.com/mga-portal/database"
	"github.com/mga-portal/models"
)

// TaskSource is the joined view the task list reads
const TaskSource = "tasks_with_projects"

// TaskOrder lists open tasks before finished ones, newest first within each group
var TaskOrder = database.OrderSpec{
	database.Asc("is_done"),
	database.Desc("created_at"),
}

// TaskRepository handles reads of the tasks_with_projects view
type TaskRepository = CollectionRepository[models.Task]

// NewTaskRepository creates a new task repository instance
func NewTaskRepository(store database.RecordStore) *TaskRepository {
	return NewCollectionRepository[models.Task](store, TaskSource, TaskOrder)
}
