package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"document_manager/internal/model"
	"document_manager/internal/repository"
	"document_manager/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrForbidden          = errors.New("forbidden: user does not have permission for this action")
)

// AuthService provides authentication and user management
type AuthService interface {
	Register(ctx context.Context, req model.SignupRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ChangeName(ctx context.Context, actor *model.User, targetEmail, name string) (*model.User, error)
	ChangePassword(ctx context.Context, actor *model.User, targetEmail, newPassword string) (*model.User, error)
	GrantPermissions(ctx context.Context, actor *model.User, targetEmail string, permissions int) error
	DeleteUser(ctx context.Context, actor *model.User, targetID int) error
}

type authService struct {
	userRepo repository.UserRepository
	docRepo  repository.DocumentRepository
	jwtUtil  *utils.JWTUtil
	storage  *FileStorage
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService. The document repository and file
// storage are needed for the user-deletion cascade.
func NewAuthService(userRepo repository.UserRepository, docRepo repository.DocumentRepository, jwtUtil *utils.JWTUtil, storage *FileStorage, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		docRepo:  docRepo,
		jwtUtil:  jwtUtil,
		storage:  storage,
		logger:   logger,
	}
}

// Register creates a new user account. Email uniqueness is enforced by the
// database constraint, so concurrent signups with the same email cannot both
// succeed.
func (s *authService) Register(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	permissions := model.PermissionBasic

	// Bootstrap: the configured initial admin email registers at admin level
	initialAdminEmail := os.Getenv("INITIAL_ADMIN_EMAIL")
	if initialAdminEmail != "" && req.Email == initialAdminEmail {
		permissions = model.PermissionAdmin
		s.logger.Info("registering initial admin", zap.String("email", req.Email))
	}

	user := &model.User{
		UUID:         uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashedPassword,
		Permissions:  permissions,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}

	s.logger.Info("user registered", zap.String("email", user.Email), zap.Int("permissions", user.Permissions))
	return user, nil
}

// Login authenticates a user and returns a session token. Unknown email and
// wrong password fail with the same error so the response leaks nothing.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Info("login rejected", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login succeeded", zap.String("email", email))
	return user, token, nil
}

// GetByEmail resolves a user by email, ErrUserNotFound if absent
func (s *authService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangeName updates the display name of the addressed user
func (s *authService) ChangeName(ctx context.Context, actor *model.User, targetEmail, name string) (*model.User, error) {
	if !CanEditOwnProfile(actor, targetEmail) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.UpdateName(ctx, targetEmail, name)
	if err != nil {
		return nil, fmt.Errorf("failed to change name: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.logger.Info("user name changed", zap.String("actor", actor.Email), zap.String("target", targetEmail))
	return user, nil
}

// ChangePassword replaces the password of the addressed user
func (s *authService) ChangePassword(ctx context.Context, actor *model.User, targetEmail, newPassword string) (*model.User, error) {
	if !CanEditOwnProfile(actor, targetEmail) {
		return nil, ErrForbidden
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.UpdatePassword(ctx, targetEmail, hashedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to change password: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	s.logger.Info("user password changed", zap.String("actor", actor.Email), zap.String("target", targetEmail))
	return user, nil
}

// GrantPermissions sets the permission level of the addressed user
func (s *authService) GrantPermissions(ctx context.Context, actor *model.User, targetEmail string, permissions int) error {
	if !CanEditOwnProfile(actor, targetEmail) {
		return ErrForbidden
	}

	user, err := s.userRepo.UpdatePermissions(ctx, targetEmail, permissions)
	if err != nil {
		return fmt.Errorf("failed to grant permissions: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	s.logger.Info("user permissions changed",
		zap.String("actor", actor.Email),
		zap.String("target", targetEmail),
		zap.Int("permissions", permissions))
	return nil
}

// DeleteUser removes a user together with their documents and stored files.
// The files go first, best-effort, so a partial failure cannot leave rows
// pointing at deleted content.
func (s *authService) DeleteUser(ctx context.Context, actor *model.User, targetID int) error {
	if !CanDeleteUser(actor, targetID) {
		return ErrForbidden
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to find user for deletion: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}

	owned, err := s.docRepo.FindByOwner(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to list documents for deletion: %w", err)
	}
	for i := range owned {
		doc := &owned[i]
		if err := s.storage.Remove(doc.StoredPath); err != nil {
			s.logger.Warn("failed to remove document file during user deletion",
				zap.String("slug", doc.Slug), zap.Error(err))
		}
		if _, err := s.docRepo.Delete(ctx, doc.ID); err != nil {
			return fmt.Errorf("failed to delete owned document: %w", err)
		}
	}

	deleted, err := s.userRepo.Delete(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return ErrUserNotFound
	}

	s.logger.Info("user deleted",
		zap.String("actor", actor.Email),
		zap.String("target", target.Email),
		zap.Int("documents_removed", len(owned)))
	return nil
}
