package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/exchange_kiosk_app/internal/apperrors"
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/exchange_kiosk_app/internal/core/ports/services"
	"github.com/SscSPs/exchange_kiosk_app/internal/dto"
	"github.com/SscSPs/exchange_kiosk_app/internal/utils"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	history  portssvc.HistoryRecorder
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, history portssvc.HistoryRecorder, options ...ServiceOption) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(options),
		userRepo:    userRepo,
		history:     history,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) ensureUsernameFree(ctx context.Context, username, exceptID string) error {
	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.UserID != exceptID {
			return fmt.Errorf("user '%s': %w", username, apperrors.ErrDuplicate)
		}
		return nil
	case errors.Is(err, apperrors.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check username: %w", err)
	}
}

func (s *userService) record(ctx context.Context, eventType domain.HistoryEventType, actingUserID string, target *domain.User) {
	event := newHistoryEvent(ctx, s.userRepo, eventType, actingUserID)
	targetID := target.UserID
	event.TargetUserID = &targetID
	event.TargetUsername = target.Username
	s.history.Record(ctx, event)
}

// CreateUser creates a new user with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, creatorUserID string) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username", "is required")
	}
	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError("role", "must be 'admin' or 'cashier'")
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		Role:         req.Role,
		PasswordHash: hash,
		Status:       domain.StatusActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save user", slog.String("username", username))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.record(ctx, domain.EventCreateUser, creatorUserID, &user)
	s.LogInfo(ctx, "User created",
		slog.String("user_id", user.UserID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves an active user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		s.LogError(ctx, err, "Failed to get user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves an active user by username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// ListUsers retrieves a page of active users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		return []domain.User{}, nil
	}
	return users, nil
}

// UpdateUser changes username, email, password or role of an active user.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, apperrors.NewValidationError("username", "must not be empty")
		}
		if username != user.Username {
			if err := s.ensureUsernameFree(ctx, username, user.UserID); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}
	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.NewValidationError("role", "must be 'admin' or 'cashier'")
		}
		if userID == requestingUserID && *req.Role != user.Role {
			return nil, apperrors.NewValidationError("role", "you cannot change your own role")
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			s.LogError(ctx, err, "Failed to hash password")
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	user.LastUpdatedAt = s.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.record(ctx, domain.EventUpdateUser, requestingUserID, user)
	s.LogInfo(ctx, "User updated", slog.String("user_id", user.UserID), slog.String("username", user.Username))
	return user, nil
}

// DeleteUser soft deletes a user. Users cannot delete themselves.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID == requestingUserID {
		return apperrors.NewValidationError("user_id", "you cannot delete your own account")
	}
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.record(ctx, domain.EventDeleteUser, requestingUserID, user)
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID), slog.String("username", user.Username))
	return nil
}

// AuthenticateUser checks username and password. Unknown users and wrong passwords
// both yield ErrUnauthorized.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Login attempt for unknown user", slog.String("username", username))
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to load user for login", slog.String("username", username))
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogInfo(ctx, "Login attempt with wrong password", slog.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
