package database

import (
	"context"

	"github.com/rpupo63/designer-portfolio-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns a user by its ID, or nil if none exists
func (r *UserRepo) FindByID(ctx context.Context, id int) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx), id)
}

// FindByUsername returns the user with the exact username, or nil
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](r.db.WithContext(ctx).Where("username = ?", username))
}

// FindByIDs returns the users with the given ids keyed by id
func (r *UserRepo) FindByIDs(ctx context.Context, ids []int) (map[int]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	out := make(map[int]models.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Add inserts a new user into the database
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
