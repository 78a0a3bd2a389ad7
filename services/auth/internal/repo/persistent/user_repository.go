package persistent

import (
	"context"
	"errors"
	"fmt"

	"learnhub/pkg/models"
	"learnhub/services/auth/internal/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
	AssignRole(ctx context.Context, userID, roleName string) error
	CountRoles(ctx context.Context, userID string) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	m := ToUserModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *userRepository) first(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var m models.User
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToUserEntity(&m), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar_url", avatarURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

// AssignRole attaches roleName to the user. Attaching a role the user already
// holds is a no-op.
func (r *userRepository) AssignRole(ctx context.Context, userID, roleName string) error {
	db := r.db.WithContext(ctx)

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.ErrUserNotFound
		}
		return err
	}

	var role models.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.ErrRoleNotFound
		}
		return err
	}

	if err := db.Model(&user).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("append role: %w", err)
	}
	return nil
}

func (r *userRepository) CountRoles(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("user_roles").Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
