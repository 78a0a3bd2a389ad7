// Package access resolves a caller's roles and permissions and answers
// ownership questions for course resources. Nothing is cached: every check
// reads the user, its roles and their permissions again.
package access

import (
	"context"
	"errors"
	"fmt"

	"learnhub/pkg/models"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
)

type Authorizer interface {
	RoleNames(ctx context.Context, userID string) ([]string, error)
	Permissions(ctx context.Context, userID string) (map[string]bool, error)
	Require(ctx context.Context, userID, permission string) error
	CanManageCourse(ctx context.Context, userID, courseID string) error
	CanViewCourse(ctx context.Context, userID, courseID string) error
}

type Checker struct {
	db *gorm.DB
}

var _ Authorizer = (*Checker)(nil)

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

func (c *Checker) loadUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var user models.User
	err := c.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("id = ?", userID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return &user, nil
}

func (c *Checker) RoleNames(ctx context.Context, userID string) ([]string, error) {
	user, err := c.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		names = append(names, r.Name)
	}
	return names, nil
}

func (c *Checker) Permissions(ctx context.Context, userID string) (map[string]bool, error) {
	user, err := c.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	perms := make(map[string]bool)
	for _, r := range user.Roles {
		for _, p := range r.Permissions {
			perms[p.Name] = true
		}
	}
	return perms, nil
}

// Require returns ErrForbidden unless one of the user's roles carries
// permission.
func (c *Checker) Require(ctx context.Context, userID, permission string) error {
	perms, err := c.Permissions(ctx, userID)
	if err != nil {
		return err
	}
	if !perms[permission] {
		return ErrForbidden
	}
	return nil
}

func (c *Checker) courseAuthor(ctx context.Context, courseID string) (string, error) {
	var course models.Course
	err := c.db.WithContext(ctx).Select("id", "author_id").Where("id = ?", courseID).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load course %s: %w", courseID, err)
	}
	return course.AuthorID, nil
}

// CanManageCourse allows the course author and holders of course:manage.
// Used for mutations, so a failed check is ErrForbidden.
func (c *Checker) CanManageCourse(ctx context.Context, userID, courseID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	authorID, err := c.courseAuthor(ctx, courseID)
	if err != nil {
		return err
	}
	if authorID == userID {
		return nil
	}
	return c.Require(ctx, userID, models.PermCourseManage)
}

// CanViewCourse is the page-level variant of CanManageCourse: the caller must
// not learn that the course exists, so a failed check is ErrNotFound.
func (c *Checker) CanViewCourse(ctx context.Context, userID, courseID string) error {
	return AsNotFound(c.CanManageCourse(ctx, userID, courseID))
}

// AsNotFound hides authorization failures behind ErrNotFound.
func AsNotFound(err error) error {
	if errors.Is(err, ErrForbidden) {
		return ErrNotFound
	}
	return err
}
