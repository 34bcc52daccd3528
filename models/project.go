package models

// Project represents a portal project row from the projects table
type Project struct {
	ID              RecordID  `json:"id" gorm:"column:id;primaryKey"`
	CreatedAt       Timestamp `json:"created_at" gorm:"column:created_at"`
	Name            string    `json:"name" gorm:"column:name"`
	DriveFolderID   string    `json:"drive_folder_id" gorm:"column:drive_folder_id"`
	DriveFolderLink *string   `json:"drive_folder_link" gorm:"column:drive_folder_link"`
	ProjectNumber   *string   `json:"project_number" gorm:"column:project_number"`
	Description     *string   `json:"description" gorm:"column:description"`
	Status          string    `json:"status" gorm:"column:status"`
}

// TableName sets the table name for Project model
func (Project) TableName() string {
	return "projects"
}

// OrderValue returns the value of a sortable column
func (p Project) OrderValue(field string) (any, bool) {
	switch field {
	case "id":
		return string(p.ID), true
	case "created_at":
		return p.CreatedAt.orderValue(), true
	case "name":
		return p.Name, true
	case "drive_folder_id":
		return p.DriveFolderID, true
	case "drive_folder_link":
		return p.DriveFolderLink, true
	case "project_number":
		return p.ProjectNumber, true
	case "description":
		return p.Description, true
	case "status":
		return p.Status, true
	}
	return nil, false
}
