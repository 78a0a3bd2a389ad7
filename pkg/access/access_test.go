package access

import (
	"context"
	"testing"

	"learnhub/pkg/database/dbtest"
	"learnhub/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seed(t *testing.T, db *gorm.DB) (teacher, admin, student models.User, course models.Course) {
	t.Helper()

	create := models.Permission{Name: models.PermCourseCreate}
	manage := models.Permission{Name: models.PermCourseManage}
	require.NoError(t, db.Create(&create).Error)
	require.NoError(t, db.Create(&manage).Error)

	teacherRole := models.Role{Name: models.RoleTeacher, Permissions: []models.Permission{create}}
	adminRole := models.Role{Name: models.RoleAdmin, Permissions: []models.Permission{create, manage}}
	require.NoError(t, db.Create(&teacherRole).Error)
	require.NoError(t, db.Create(&adminRole).Error)

	teacher = models.User{Email: "t@x.io", Username: "teacher", Password: "x", Roles: []models.Role{teacherRole}}
	admin = models.User{Email: "a@x.io", Username: "admin", Password: "x", Roles: []models.Role{adminRole}}
	student = models.User{Email: "s@x.io", Username: "student", Password: "x"}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&student).Error)

	course = models.Course{AuthorID: teacher.ID, Title: "Go", Slug: "go"}
	require.NoError(t, db.Create(&course).Error)
	return
}

func TestChecker_Permissions(t *testing.T) {
	db := dbtest.New(t)
	teacher, admin, student, _ := seed(t, db)
	checker := NewChecker(db)
	ctx := context.Background()

	perms, err := checker.Permissions(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, perms[models.PermCourseManage])

	assert.NoError(t, checker.Require(ctx, teacher.ID, models.PermCourseCreate))
	assert.ErrorIs(t, checker.Require(ctx, student.ID, models.PermCourseCreate), ErrForbidden)

	roles, err := checker.RoleNames(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestChecker_UnknownUser(t *testing.T) {
	db := dbtest.New(t)
	checker := NewChecker(db)

	_, err := checker.Permissions(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = checker.RoleNames(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestChecker_CanManageCourse(t *testing.T) {
	db := dbtest.New(t)
	teacher, admin, student, course := seed(t, db)
	checker := NewChecker(db)
	ctx := context.Background()

	assert.NoError(t, checker.CanManageCourse(ctx, teacher.ID, course.ID))
	assert.NoError(t, checker.CanManageCourse(ctx, admin.ID, course.ID))
	assert.ErrorIs(t, checker.CanManageCourse(ctx, student.ID, course.ID), ErrForbidden)
	assert.ErrorIs(t, checker.CanManageCourse(ctx, teacher.ID, "missing"), ErrNotFound)
	assert.ErrorIs(t, checker.CanManageCourse(ctx, "", course.ID), ErrUnauthenticated)
}

func TestChecker_CanViewCourse_HidesForbidden(t *testing.T) {
	db := dbtest.New(t)
	_, _, student, course := seed(t, db)
	checker := NewChecker(db)

	assert.ErrorIs(t, checker.CanViewCourse(context.Background(), student.ID, course.ID), ErrNotFound)
}

func TestChecker_NoCaching(t *testing.T) {
	db := dbtest.New(t)
	_, _, student, course := seed(t, db)
	checker := NewChecker(db)
	ctx := context.Background()

	assert.ErrorIs(t, checker.CanManageCourse(ctx, student.ID, course.ID), ErrForbidden)

	var adminRole models.Role
	require.NoError(t, db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error)
	require.NoError(t, db.Model(&student).Association("Roles").Append(&adminRole))

	assert.NoError(t, checker.CanManageCourse(ctx, student.ID, course.ID))
}
