package models

// Tag is a global label shared across projects
type Tag struct {
	ID   int    `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" db:"name" gorm:"type:text;not null;index:idx_tag_name"`
}
