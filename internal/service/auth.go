package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/auth"
	"github.com/tnvu/storefront/internal/repository"
)

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthService interface {
	// Login verifies the credentials and issues a bearer token. Unknown user
	// and wrong password produce the same error so the response does not
	// reveal which usernames exist.
	Login(ctx context.Context, username, password string) (Token, error)
	// Refresh issues a fresh token for an already-authenticated user.
	Refresh(ctx context.Context, userID uuid.UUID) (Token, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   auth.TokenManager
}

func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens auth.TokenManager,
) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return Token{}, apperr.InvalidCredentialsErr.WrapParent(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return Token{}, apperr.InvalidCredentialsErr
	}

	return s.issue(user.ID)
}

func (s *authService) Refresh(ctx context.Context, userID uuid.UUID) (Token, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return Token{}, apperr.InvalidTokenErr.WrapParent(err)
	}

	return s.issue(user.ID)
}

func (s *authService) issue(userID uuid.UUID) (Token, error) {
	accessToken, err := s.tokens.Issue(userID)
	if err != nil {
		return Token{}, fmt.Errorf("issue token: %w", err)
	}

	return Token{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}
