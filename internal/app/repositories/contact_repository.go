package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
)

var contactColumns = []string{"id", "name", "email", "message", "created_at"}

func scanContactRow(row pgx.Row) (*models.ContactSubmission, error) {
	var c models.ContactSubmission
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ContactRepository handles database operations for contact form
// submissions. The table is append-only apart from partial admin edits.
type ContactRepository struct {
	baseRepository[models.ContactSubmission, int64]
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(db Querier) *ContactRepository {
	return &ContactRepository{
		baseRepository: newBaseRepository[models.ContactSubmission, int64](
			db, "contact_submissions", "id", contactColumns, scanContactRow,
		),
	}
}

// Create inserts a submission and returns the stored row.
func (r *ContactRepository) Create(ctx context.Context, name, email, message string) (*models.ContactSubmission, error) {
	return r.createAndReload(ctx, r.sb.Insert(r.table).
		Columns("name", "email", "message").
		Values(name, email, message))
}

// ContactUpdate carries the fields an admin edit may change.
type ContactUpdate struct {
	Name    *string
	Email   *string
	Message *string
}

// Update applies the present fields and returns the stored row, or
// (nil, nil) when the id no longer exists.
func (r *ContactRepository) Update(ctx context.Context, id int64, upd ContactUpdate) (*models.ContactSubmission, error) {
	setMap := map[string]interface{}{}
	if upd.Name != nil {
		setMap["name"] = *upd.Name
	}
	if upd.Email != nil {
		setMap["email"] = *upd.Email
	}
	if upd.Message != nil {
		setMap["message"] = *upd.Message
	}

	return r.updateAndReload(ctx, id, setMap)
}

// List returns one page of submissions, newest first.
func (r *ContactRepository) List(ctx context.Context, page, pageSize int) ([]models.ContactSubmission, helpers.Pagination, error) {
	return r.FindManyPaginated(ctx, page, pageSize, nil, []string{"created_at DESC"})
}
