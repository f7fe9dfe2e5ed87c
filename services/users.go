package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/devdesk/backend/models"
)

// UserService exposes the read-only user surface. Users are immutable after
// registration; there is no update or delete path.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns all users, oldest first. Password hashes are excluded by the
// model's JSON tags.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
