package database

import (
	"context"

	"github.com/rpupo63/designer-portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepo struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) *LikeRepo {
	return &LikeRepo{db}
}

// Add records a like and reports whether a new row was written
func (r *LikeRepo) Add(ctx context.Context, projectID int, fingerprint string) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProjectLike{ProjectID: projectID, Fingerprint: fingerprint})
	return res.RowsAffected > 0, res.Error
}

// Delete removes a like and reports whether a row existed
func (r *LikeRepo) Delete(ctx context.Context, projectID int, fingerprint string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND fingerprint = ?", projectID, fingerprint).
		Delete(&models.ProjectLike{})
	return res.RowsAffected > 0, res.Error
}

func (r *LikeRepo) Exists(ctx context.Context, projectID int, fingerprint string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ProjectLike{}).
		Where("project_id = ? AND fingerprint = ?", projectID, fingerprint).
		Count(&n).Error
	return n > 0, err
}

// Count returns the number of distinct fingerprints liking a project
func (r *LikeRepo) Count(ctx context.Context, projectID int) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ProjectLike{}).
		Where("project_id = ?", projectID).
		Count(&n).Error
	return int(n), err
}
