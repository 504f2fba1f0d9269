package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// UserService handles staff management. Every mutating operation takes the
// acting user's claims; only admins may manage other accounts, while staff
// may edit their own profile fields.
type UserService struct {
	userRepo ports.UserRepository
	authRepo ports.AuthRepository
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, authRepo ports.AuthRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		authRepo: authRepo,
		logger:   logger,
	}
}

// CreateUser lets an admin provision an account directly in active state.
func (s *UserService) CreateUser(ctx context.Context, actor *ports.Claims, req ports.CreateUserRequest) (*entities.User, error) {
	if actor.Role != entities.UserRoleAdmin {
		return nil, entities.ErrUnauthorized
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil && existingUser != nil {
		return nil, fmt.Errorf("user with email %s already exists", req.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         req.Role,
		Designation:  req.Designation,
		Status:       entities.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created by admin", "user_id", user.ID, "created_by", actor.UserID)

	user.PasswordHash = ""
	return user, nil
}

// GetUser returns a single staff record.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ListUsers returns staff records matching the filter.
func (s *UserService) ListUsers(ctx context.Context, filter ports.UserFilter) ([]*entities.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// UpdateUser applies a partial update. Admins may edit any account including
// role and status; staff may only edit their own profile fields.
func (s *UserService) UpdateUser(ctx context.Context, actor *ports.Claims, id uuid.UUID, req ports.UpdateUserRequest) (*entities.User, error) {
	isAdmin := actor.Role == entities.UserRoleAdmin
	isSelf := actor.UserID == id.String()

	if !isAdmin && !isSelf {
		return nil, entities.ErrUnauthorized
	}

	if !isAdmin && (req.Role != nil || req.Status != nil) {
		return nil, entities.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Designation != nil {
		user.Designation = *req.Designation
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, entities.ErrInvalidStatus
		}
		user.Status = *req.Status
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	// Deactivation ends every open session immediately.
	if req.Status != nil && *req.Status == entities.UserStatusInactive {
		if err := s.authRepo.RevokeAllUserTokens(ctx, id); err != nil {
			s.logger.Warn("Failed to revoke tokens for deactivated user", "error", err, "user_id", id)
		}
	}

	s.logger.Info("User updated", "user_id", id, "updated_by", actor.UserID)

	user.PasswordHash = ""
	return user, nil
}

// ActivateUser flips a pending or inactive account to active.
func (s *UserService) ActivateUser(ctx context.Context, actor *ports.Claims, id uuid.UUID) (*entities.User, error) {
	status := entities.UserStatusActive
	return s.UpdateUser(ctx, actor, id, ports.UpdateUserRequest{Status: &status})
}

// DeactivateUser disables an account and revokes its sessions.
func (s *UserService) DeactivateUser(ctx context.Context, actor *ports.Claims, id uuid.UUID) (*entities.User, error) {
	status := entities.UserStatusInactive
	return s.UpdateUser(ctx, actor, id, ports.UpdateUserRequest{Status: &status})
}

// DeleteUser removes a staff record. Admin only; self-deletion is refused so
// the last admin cannot lock everyone out by accident.
func (s *UserService) DeleteUser(ctx context.Context, actor *ports.Claims, id uuid.UUID) error {
	if actor.Role != entities.UserRoleAdmin {
		return entities.ErrUnauthorized
	}
	if actor.UserID == id.String() {
		return fmt.Errorf("cannot delete own account")
	}

	if err := s.authRepo.RevokeAllUserTokens(ctx, id); err != nil {
		s.logger.Warn("Failed to revoke tokens for deleted user", "error", err, "user_id", id)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("User deleted", "user_id", id, "deleted_by", actor.UserID)
	return nil
}
