package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"learnhub/pkg/access"
	"learnhub/pkg/jwt"
	"learnhub/pkg/logger"
	"learnhub/pkg/models"
	"learnhub/pkg/s3"
	"learnhub/services/auth/internal/entity"
	"learnhub/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

// Roles a user may pick for themselves while onboarding.
var onboardingRoles = map[string]bool{
	models.RoleStudent: true,
	models.RoleTeacher: true,
}

type AuthUseCase interface {
	Register(ctx context.Context, email, username, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	NeedsOnboarding(ctx context.Context, userID string) (bool, error)
	CompleteOnboarding(ctx context.Context, userID, role string) (*entity.User, string, error)
	UploadAvatar(ctx context.Context, userID string, file io.ReadSeeker, size int64, filename, contentType string) (*entity.User, error)
	GetRoles(ctx context.Context, callerID, userID string) (*entity.RoleGrant, error)
	AssignRole(ctx context.Context, callerID, userID, role string) (*entity.RoleGrant, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	authorizer access.Authorizer
	jwtService *jwt.Service
	uploader   s3.Uploader
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	authorizer access.Authorizer,
	jwtService *jwt.Service,
	uploader s3.Uploader,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		authorizer: authorizer,
		jwtService: jwtService,
		uploader:   uploader,
		logger:     logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, email, username, password string) (*entity.User, string, error) {
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", entity.ErrEmailTaken
	} else if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, "", err
	}

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", entity.ErrUsernameTaken
	} else if !errors.Is(err, entity.ErrUserNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("[AUTH] Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		IsActive: true,
		Roles:    []string{},
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.logger.Error("[AUTH] Failed to create user %s: %v", email, err)
		return nil, "", fmt.Errorf("failed to create user")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.PrimaryRole())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	uc.logger.Info("[AUTH] Registered user %s", user.ID)
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, "", entity.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", entity.ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", entity.ErrInvalidCredentials
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.PrimaryRole())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// NeedsOnboarding is true exactly when the user holds no role.
func (uc *authUseCase) NeedsOnboarding(ctx context.Context, userID string) (bool, error) {
	count, err := uc.userRepo.CountRoles(ctx, userID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// CompleteOnboarding attaches a self-service role and returns a token that
// carries it. Once the user holds any role it changes nothing: further roles
// go through AssignRole and its user:manage check.
func (uc *authUseCase) CompleteOnboarding(ctx context.Context, userID, role string) (*entity.User, string, error) {
	if !onboardingRoles[role] {
		return nil, "", entity.ErrInvalidOnboardRole
	}

	count, err := uc.userRepo.CountRoles(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if count == 0 {
		if err := uc.userRepo.AssignRole(ctx, userID, role); err != nil {
			return nil, "", err
		}
		uc.logger.Info("[AUTH] User %s onboarded as %s", userID, role)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	token, err := uc.jwtService.GenerateToken(user.ID, user.PrimaryRole())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (uc *authUseCase) UploadAvatar(ctx context.Context, userID string, file io.ReadSeeker, size int64, filename, contentType string) (*entity.User, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	key := s3.ObjectKey("avatars", userID, filename)
	url, err := uc.uploader.Upload(ctx, key, file, size, contentType)
	if err != nil {
		return nil, err
	}

	if err := uc.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

// GetRoles is open to the user themselves and to holders of user:manage.
func (uc *authUseCase) GetRoles(ctx context.Context, callerID, userID string) (*entity.RoleGrant, error) {
	if callerID != userID {
		if err := uc.authorizer.Require(ctx, callerID, models.PermUserManage); err != nil {
			return nil, err
		}
	}
	return uc.grant(ctx, userID)
}

func (uc *authUseCase) AssignRole(ctx context.Context, callerID, userID, role string) (*entity.RoleGrant, error) {
	if err := uc.authorizer.Require(ctx, callerID, models.PermUserManage); err != nil {
		return nil, err
	}
	if err := uc.userRepo.AssignRole(ctx, userID, role); err != nil {
		return nil, err
	}
	uc.logger.Info("[AUTH] %s assigned role %s to %s", callerID, role, userID)
	return uc.grant(ctx, userID)
}

func (uc *authUseCase) grant(ctx context.Context, userID string) (*entity.RoleGrant, error) {
	roles, err := uc.authorizer.RoleNames(ctx, userID)
	if errors.Is(err, access.ErrUnauthenticated) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	perms, err := uc.authorizer.Permissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(perms))
	for p := range perms {
		names = append(names, p)
	}
	sort.Strings(names)

	return &entity.RoleGrant{UserID: userID, Roles: roles, Permissions: names}, nil
}
