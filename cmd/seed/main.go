package main

import (
	"errors"
	"flag"
	"fmt"

	"learnhub/pkg/config"
	"learnhub/pkg/database"
	"learnhub/pkg/logger"
	"learnhub/pkg/models"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var rolePermissions = map[string][]string{
	models.RoleStudent: {},
	models.RoleTeacher: {models.PermCourseCreate, models.PermDashboardView},
	models.RoleAdmin: {
		models.PermCourseCreate,
		models.PermCourseManage,
		models.PermQuestionModerate,
		models.PermDashboardView,
		models.PermUserManage,
	},
}

var permissionDescriptions = map[string]string{
	models.PermCourseCreate:     "Create courses",
	models.PermCourseManage:     "Manage any course",
	models.PermQuestionModerate: "Moderate forum questions and answers",
	models.PermDashboardView:    "View the admin dashboard",
	models.PermUserManage:       "Manage users",
}

type demoUser struct {
	email    string
	username string
	password string
	role     string
}

var demoUsers = []demoUser{
	{"admin@learnhub.test", "admin", "password123", models.RoleAdmin},
	{"teacher@learnhub.test", "teacher", "password123", models.RoleTeacher},
	{"alice@learnhub.test", "alice", "password123", models.RoleStudent},
	{"bob@learnhub.test", "bob", "password123", models.RoleStudent},
}

func main() {
	var migrate bool
	flag.BoolVar(&migrate, "automigrate", false, "create the schema from models before seeding (sqlite)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}
	defer database.Close(db)

	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Error("Failed to migrate database: %v", err)
			panic(err)
		}
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	roles, err := seedRoles(db, log)
	if err != nil {
		return err
	}

	userIDs := make(map[string]string, len(demoUsers))
	for _, u := range demoUsers {
		id, err := seedUser(db, roles[u.role], u, log)
		if err != nil {
			return err
		}
		userIDs[u.username] = id
	}

	return seedCourse(db, userIDs["teacher"], []string{userIDs["alice"], userIDs["bob"]}, log)
}

func seedRoles(db *gorm.DB, log *logger.Logger) (map[string]*models.Role, error) {
	perms := make(map[string]models.Permission, len(permissionDescriptions))
	for name, description := range permissionDescriptions {
		perm := models.Permission{Name: name, Description: description}
		if err := db.Where(models.Permission{Name: name}).FirstOrCreate(&perm).Error; err != nil {
			return nil, fmt.Errorf("failed to seed permission %s: %w", name, err)
		}
		perms[name] = perm
	}

	roles := make(map[string]*models.Role, len(rolePermissions))
	for name, names := range rolePermissions {
		role := &models.Role{Name: name}
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(role).Error; err != nil {
			return nil, fmt.Errorf("failed to seed role %s: %w", name, err)
		}

		granted := make([]models.Permission, 0, len(names))
		for _, p := range names {
			granted = append(granted, perms[p])
		}
		if len(granted) > 0 {
			if err := db.Model(role).Association("Permissions").Append(granted); err != nil {
				return nil, fmt.Errorf("failed to grant permissions to %s: %w", name, err)
			}
		}
		log.Info("Role %s has %d permissions", name, len(granted))
		roles[name] = role
	}
	return roles, nil
}

func seedUser(db *gorm.DB, role *models.Role, u demoUser, log *logger.Logger) (string, error) {
	var existing models.User
	err := db.Where("email = ? OR username = ?", u.email, u.username).First(&existing).Error
	if err == nil {
		log.Info("User %s already exists, skipping", u.username)
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up user %s: %w", u.username, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    u.email,
		Username: u.username,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		return "", fmt.Errorf("failed to create user %s: %w", u.username, err)
	}
	if err := db.Model(user).Association("Roles").Append(role); err != nil {
		return "", fmt.Errorf("failed to assign role to %s: %w", u.username, err)
	}

	log.Info("Created user: %s (%s) as %s", user.Username, user.Email, role.Name)
	return user.ID, nil
}

func seedCourse(db *gorm.DB, authorID string, studentIDs []string, log *logger.Logger) error {
	title := "Introduction to Go"
	courseSlug := slug.Make(title)

	var existing models.Course
	err := db.Where("slug = ?", courseSlug).First(&existing).Error
	if err == nil {
		log.Info("Course %s already exists, skipping", courseSlug)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up course: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		course := &models.Course{
			AuthorID:    authorID,
			Title:       title,
			Slug:        courseSlug,
			Description: "Types, functions and concurrency from the ground up.",
			Published:   true,
			Tags:        []models.Tag{{Name: "go"}, {Name: "programming"}},
		}
		for i := range course.Tags {
			if err := tx.Where(models.Tag{Name: course.Tags[i].Name}).FirstOrCreate(&course.Tags[i]).Error; err != nil {
				return fmt.Errorf("failed to seed tag: %w", err)
			}
		}
		if err := tx.Create(course).Error; err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}

		volume := &models.Volume{CourseID: course.ID, Title: "Basics"}
		if err := tx.Create(volume).Error; err != nil {
			return fmt.Errorf("failed to create volume: %w", err)
		}
		chapter := &models.Chapter{VolumeID: volume.ID, Title: "Getting started"}
		if err := tx.Create(chapter).Error; err != nil {
			return fmt.Errorf("failed to create chapter: %w", err)
		}
		module := &models.Module{ChapterID: chapter.ID, Title: "Hello, world"}
		if err := tx.Create(module).Error; err != nil {
			return fmt.Errorf("failed to create module: %w", err)
		}

		lessons := []models.Lesson{
			{ModuleID: module.ID, CourseID: course.ID, Title: "Installing Go", Content: "Download the toolchain and set up your editor.", Position: 0},
			{ModuleID: module.ID, CourseID: course.ID, Title: "Your first program", Content: "Write, build and run hello.go.", Position: 1},
		}
		if err := tx.Create(&lessons).Error; err != nil {
			return fmt.Errorf("failed to create lessons: %w", err)
		}

		activities := []models.LessonActivity{
			{LessonID: lessons[0].ID, Title: "Check your install", Kind: "exercise", Content: "Run go version.", Position: 0},
			{LessonID: lessons[1].ID, Title: "Hello quiz", Kind: "quiz", Content: "Which package holds Println?", Position: 0},
		}
		if err := tx.Create(&activities).Error; err != nil {
			return fmt.Errorf("failed to create activities: %w", err)
		}

		for _, studentID := range studentIDs {
			enrollment := &models.CourseEnrollment{UserID: studentID, CourseID: course.ID}
			if err := tx.Create(enrollment).Error; err != nil {
				return fmt.Errorf("failed to enroll %s: %w", studentID, err)
			}
		}

		log.Info("Created course %s with %d lessons and %d enrollments", course.Slug, len(lessons), len(studentIDs))
		return nil
	})
}
