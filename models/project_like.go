package models

import "time"

// ProjectLike records that a visitor fingerprint liked a project
type ProjectLike struct {
	ID          int       `json:"-" db:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID   int       `json:"projectId" db:"project_id" gorm:"not null;uniqueIndex:idx_project_like_unique"`
	Fingerprint string    `json:"-" db:"fingerprint" gorm:"type:text;not null;uniqueIndex:idx_project_like_unique"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
