package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
)

var userColumns = []string{
	"id", "name", "email", "username", "student_id", "image",
	"role", "password_hash", "email_verified_at", "created_at", "updated_at",
}

func scanUserRow(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Username, &u.StudentID, &u.Image,
		&u.Role, &u.PasswordHash, &u.EmailVerifiedAt, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// UserRepository handles database operations for users.
type UserRepository struct {
	baseRepository[models.User, string]
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{
		baseRepository: newBaseRepository[models.User, string](
			db, "users", "id", userColumns, scanUserRow,
		),
	}
}

// CreateUserInput carries the fields stored on registration.
type CreateUserInput struct {
	Name         string
	Email        string
	Username     string
	StudentID    *string
	PasswordHash string
	Role         string
}

// Create inserts a user under a fresh UUID and returns the stored row.
func (r *UserRepository) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleContributor
	}

	return r.createAndReload(ctx, r.sb.Insert(r.table).
		Columns("id", "name", "email", "username", "student_id", "password_hash", "role").
		Values(uuid.New().String(), in.Name, in.Email, in.Username, in.StudentID, in.PasswordHash, in.Role))
}

// UserUpdate carries the profile fields an update may change.
type UserUpdate struct {
	Name      *string
	Username  *string
	StudentID *string
	Image     *string
}

// Update applies the present fields and returns the stored row, or
// (nil, nil) when the id no longer exists.
func (r *UserRepository) Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	setMap := map[string]interface{}{}
	if upd.Name != nil {
		setMap["name"] = *upd.Name
	}
	if upd.Username != nil {
		setMap["username"] = *upd.Username
	}
	if upd.StudentID != nil {
		setMap["student_id"] = *upd.StudentID
	}
	if upd.Image != nil {
		setMap["image"] = *upd.Image
	}
	if len(setMap) > 0 {
		setMap["updated_at"] = time.Now()
	}

	return r.updateAndReload(ctx, id, setMap)
}

// GetByEmail looks a user up by email case-insensitively, or (nil, nil).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOneWhere(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

// GetByUsername looks a user up by username case-insensitively, or (nil, nil).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOneWhere(ctx, squirrel.Expr("LOWER(username) = LOWER(?)", username))
}

func (r *UserRepository) findOneWhere(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	users, err := r.FindMany(ctx, FindOptions{Where: where, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

// IsEmailTaken reports whether another user already uses the email.
func (r *UserRepository) IsEmailTaken(ctx context.Context, email string, excludeID *string) (bool, error) {
	unique, err := r.IsFieldUnique(ctx, "email", email, excludeID)
	return !unique, err
}

// IsUsernameTaken reports whether another user already uses the username.
func (r *UserRepository) IsUsernameTaken(ctx context.Context, username string, excludeID *string) (bool, error) {
	unique, err := r.IsFieldUnique(ctx, "username", username, excludeID)
	return !unique, err
}

// IsStudentIDTaken reports whether another user already uses the student
// ID. Rows with no student ID never collide.
func (r *UserRepository) IsStudentIDTaken(ctx context.Context, studentID string, excludeID *string) (bool, error) {
	cond := squirrel.And{
		squirrel.Expr("student_id IS NOT NULL"),
		squirrel.Expr("LOWER(student_id) = LOWER(?)", studentID),
	}
	if excludeID != nil {
		cond = append(cond, squirrel.NotEq{"id": *excludeID})
	}
	return r.existsWhere(ctx, cond)
}

// UpdatePassword replaces the password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id)
	if err != nil {
		return false, fmt.Errorf("error updating password: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// MarkEmailVerified stamps email verification.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, id string) (bool, error) {
	now := time.Now()
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE users SET email_verified_at = $1, updated_at = $1 WHERE id = $2 AND email_verified_at IS NULL`,
		now, id)
	if err != nil {
		return false, fmt.Errorf("error marking email verified: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// GetContributorStats aggregates a user's upload activity in one query.
// A user with no questions gets all zeros.
func (r *UserRepository) GetContributorStats(ctx context.Context, userID string) (*models.ContributorStats, error) {
	stats := models.ContributorStats{UserID: userID}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $2),
		       COUNT(*) FILTER (WHERE status = $3),
		       COALESCE(SUM(view_count), 0)
		FROM questions
		WHERE user_id = $1`,
		userID, models.StatusPublished, models.StatusPendingReview,
	).Scan(&stats.QuestionCount, &stats.PublishedCount, &stats.PendingCount, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("error aggregating contributor stats: %w", err)
	}

	return &stats, nil
}

// TopContributors lists the most active uploaders by published papers.
func (r *UserRepository) TopContributors(ctx context.Context, limit int) ([]models.ContributorStats, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx, `
		SELECT user_id,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1),
		       COUNT(*) FILTER (WHERE status = $2),
		       COALESCE(SUM(view_count), 0)
		FROM questions
		GROUP BY user_id
		ORDER BY COUNT(*) FILTER (WHERE status = $1) DESC, COALESCE(SUM(view_count), 0) DESC
		LIMIT $3`,
		models.StatusPublished, models.StatusPendingReview, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying top contributors: %w", err)
	}
	defer rows.Close()

	contributors := []models.ContributorStats{}
	for rows.Next() {
		var s models.ContributorStats
		if err := rows.Scan(&s.UserID, &s.QuestionCount, &s.PublishedCount, &s.PendingCount, &s.TotalViews); err != nil {
			return nil, fmt.Errorf("error scanning contributor row: %w", err)
		}
		contributors = append(contributors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributor rows: %w", err)
	}

	return contributors, nil
}
