package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/auth"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/repository"
)

type CreateUserParams struct {
	Username string
	Email    string
	Password string
}

type UpdateUserParams struct {
	Username string
	Email    string
	Password string
}

type UserService interface {
	CreateUser(ctx context.Context, params CreateUserParams) (model.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]model.User, error)
	// UpdateUser replaces the caller's own account data. callerID must match
	// targetID.
	UpdateUser(ctx context.Context, callerID, targetID uuid.UUID, params UpdateUserParams) (model.User, error)
	// DeleteUser removes the caller's own account.
	DeleteUser(ctx context.Context, callerID, targetID uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
}

func NewUserService(userRepo repository.UserRepository, hasher auth.PasswordHasher) UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

func (s *userService) CreateUser(ctx context.Context, params CreateUserParams) (model.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.User{}, fmt.Errorf("generate user id: %w", err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           id,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("user repository create user: %w", err)
	}

	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, skip, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	users, err := s.userRepo.ListUsers(ctx, repository.ListUsersParams{Skip: skip, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("user repository list users: %w", err)
	}

	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, callerID, targetID uuid.UUID, params UpdateUserParams) (model.User, error) {
	if callerID != targetID {
		return model.User{}, apperr.NotAccountOwnerErr
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, callerID)
	if err != nil {
		return model.User{}, fmt.Errorf("user repository get user: %w", err)
	}

	user.Username = params.Username
	user.Email = params.Email
	user.PasswordHash = hash

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return model.User{}, fmt.Errorf("user repository update user: %w", err)
	}

	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, callerID, targetID uuid.UUID) error {
	if callerID != targetID {
		return apperr.NotAccountOwnerErr
	}

	if err := s.userRepo.DeleteUser(ctx, callerID); err != nil {
		return fmt.Errorf("user repository delete user: %w", err)
	}

	return nil
}
