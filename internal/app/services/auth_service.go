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
	"github.com/tahmid/qpaper/internal/pkg/logger"
)

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   *repositories.UserRepository
	tokenRepo  *repositories.TokenRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	jwtService *auth.JWTService,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
	}
}

// Register creates an account and signs the new user in.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)

	taken, err := s.userRepo.IsEmailTaken(ctx, email, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking email uniqueness: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	taken, err = s.userRepo.IsUsernameTaken(ctx, username, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking username uniqueness: %w", err)
	}
	if taken {
		return nil, apperrors.ErrUsernameAlreadyExists
	}

	if req.StudentID != nil && strings.TrimSpace(*req.StudentID) != "" {
		taken, err = s.userRepo.IsStudentIDTaken(ctx, *req.StudentID, nil)
		if err != nil {
			return nil, fmt.Errorf("error checking student ID uniqueness: %w", err)
		}
		if taken {
			return nil, apperrors.ErrStudentIDAlreadyTaken
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, repositories.CreateUserInput{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Username:     username,
		StudentID:    req.StudentID,
		PasswordHash: passwordHash,
		Role:         models.RoleContributor,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	logger.Info().Str("userId", user.ID).Str("username", user.Username).Msg("User registered")

	return s.issueTokens(ctx, user)
}

// Login verifies credentials against the stored hash. The identifier may
// be an email address or a username.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued, so a stolen token works at most once.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.Get(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error looking up refresh token: %w", err)
	}
	if stored == nil {
		return nil, apperrors.ErrTokenNotFound
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("error looking up token owner: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if _, err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error revoking refresh token: %w", err)
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

// Logout revokes the presented refresh token. A token that is already
// gone is not an error; the session is dead either way.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	// Opportunistic hygiene: the table only grows otherwise. A failed
	// prune never fails the logout.
	if pruned, err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to prune dead refresh tokens")
	} else if pruned > 0 {
		logger.Debug().Int64("pruned", pruned).Msg("Pruned dead refresh tokens")
	}
	return nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenRepo.Store(ctx, user.ID, refreshToken, s.jwtService.RefreshTokenExpiry()); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken:  accessToken,
			TokenType:    "Bearer",
			ExpiresIn:    expiresIn,
			RefreshToken: refreshToken,
		},
		User: dto.FromUser(user),
	}, nil
}
