package models

// ProjectTag joins a project to a tag. Duplicate (ProjectID, TagID) pairs are
// not rejected.
type ProjectTag struct {
	ID        int `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID int `json:"projectId" db:"project_id" gorm:"not null;index:idx_project_tag_project_id"`
	TagID     int `json:"tagId" db:"tag_id" gorm:"not null;index:idx_project_tag_tag_id"`
}
