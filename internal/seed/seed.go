package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/pkg/auth"
)

// Default admin credentials. The password must be rotated after the
// first login on any real deployment.
const (
	defaultAdminEmail    = "admin@qpaper.app"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "ChangeMe123!"
)

var defaultExamTypes = []string{"Mid", "Final", "Quiz", "Retake"}

// CreateDefaultData seeds the exam type lookup table and a default admin
// account. Every step is idempotent; errors are collected so one failure
// does not stop the rest of the seeding.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	examTypeRepo := repositories.NewExamTypeRepository(dbPool)
	userRepo := repositories.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	for _, name := range defaultExamTypes {
		if _, err := examTypeRepo.FindOrCreate(ctx, name); err != nil {
			lgr.Error().Err(err).Str("examType", name).Msg("Error seeding exam type")
			finalErr = errors.Join(finalErr, err)
		}
	}

	taken, err := userRepo.IsEmailTaken(ctx, defaultAdminEmail, nil)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for existing admin user")
		return errors.Join(finalErr, err)
	}
	if taken {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return finalErr
	}

	lgr.Info().Msg("Creating default admin user...")
	hash, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin, err := userRepo.Create(ctx, repositories.CreateUserInput{
		Name:         "System Administrator",
		Email:        defaultAdminEmail,
		Username:     defaultAdminUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return errors.Join(finalErr, err)
	}
	if _, err := userRepo.MarkEmailVerified(ctx, admin.ID); err != nil {
		lgr.Error().Err(err).Msg("Error marking admin email verified")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Str("adminID", admin.ID).Msg("Default admin user created")
	return finalErr
}
