package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
	"github.com/tahmid/qpaper/internal/pkg/auth"
)

// UserService defines the interface for profile operations
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	GetContributorStats(ctx context.Context, userID string) (*dto.ContributorStatsResponse, error)
	TopContributors(ctx context.Context, limit int) ([]models.ContributorStats, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo  *repositories.UserRepository
	tokenRepo *repositories.TokenRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, tokenRepo *repositories.TokenRepository) UserService {
	return &userServiceImpl{userRepo: userRepo, tokenRepo: tokenRepo}
}

// GetProfile returns the account behind the token.
func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

// UpdateProfile applies the present fields to the caller's account.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	upd := repositories.UserUpdate{Image: req.Image}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewBadRequestError("name cannot be empty")
		}
		upd.Name = &name
	}

	user, err := s.userRepo.Update(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	resp := dto.FromUser(user)
	return &resp, nil
}

// ChangePassword swaps the stored hash after verifying the current
// password, and revokes every refresh token so other sessions die.
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error loading user: %w", err)
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	updated, err := s.userRepo.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if !updated {
		return apperrors.ErrUserNotFound
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking sessions: %w", err)
	}
	return nil
}

// GetContributorStats aggregates the user's upload activity.
func (s *userServiceImpl) GetContributorStats(ctx context.Context, userID string) (*dto.ContributorStatsResponse, error) {
	stats, err := s.userRepo.GetContributorStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading contributor stats: %w", err)
	}
	if stats == nil {
		return nil, apperrors.ErrUserNotFound
	}
	resp := dto.FromContributorStats(stats)
	return &resp, nil
}

// TopContributors returns the most active uploaders.
func (s *userServiceImpl) TopContributors(ctx context.Context, limit int) ([]models.ContributorStats, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	stats, err := s.userRepo.TopContributors(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading top contributors: %w", err)
	}
	return stats, nil
}
