package models

import (
	"github.com/lib/pq"
)

// Task represents a row of the tasks_with_projects view: a task joined
// with the descriptive fields of its owning project. The view is read-only.
type Task struct {
	ID        RecordID       `json:"id" gorm:"column:id;primaryKey"`
	CreatedAt Timestamp      `json:"created_at" gorm:"column:created_at"`
	Content   string         `json:"content" gorm:"column:content"`
	Priority  string         `json:"priority" gorm:"column:priority"`
	CreatedBy *string        `json:"created_by" gorm:"column:created_by"`
	IsDone    bool           `json:"is_done" gorm:"column:is_done"`
	ProjectID *RecordID      `json:"project_id" gorm:"column:project_id"`
	Tags      pq.StringArray `json:"tags" gorm:"column:tags;type:text[]"`
	Authority *string        `json:"behörde" gorm:"column:behörde"`
	Community *string        `json:"gemeinde" gorm:"column:gemeinde"`

	// Project context
	ProjectName     *string `json:"project_name" gorm:"column:project_name"`
	ProjectNumber   *string `json:"project_number" gorm:"column:project_number"`
	ProjectStatus   *string `json:"project_status" gorm:"column:project_status"`
	DriveFolderLink *string `json:"drive_folder_link" gorm:"column:drive_folder_link"`
}

// TableName sets the view name for Task model
func (Task) TableName() string {
	return "tasks_with_projects"
}

// OrderValue returns the value of a sortable column
func (t Task) OrderValue(field string) (any, bool) {
	switch field {
	case "id":
		return string(t.ID), true
	case "created_at":
		return t.CreatedAt.orderValue(), true
	case "content":
		return t.Content, true
	case "priority":
		return t.Priority, true
	case "created_by":
		return t.CreatedBy, true
	case "is_done":
		return t.IsDone, true
	case "project_id":
		return recordIDValue(t.ProjectID), true
	case "behörde":
		return t.Authority, true
	case "gemeinde":
		return t.Community, true
	case "project_name":
		return t.ProjectName, true
	case "project_number":
		return t.ProjectNumber, true
	case "project_status":
		return t.ProjectStatus, true
	case "drive_folder_link":
		return t.DriveFolderLink, true
	}
	return nil, false
}
