package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
	"github.com/tahmid/qpaper/internal/pkg/filestorage"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
	"github.com/tahmid/qpaper/internal/pkg/logger"
)

// questionStore is the slice of the question repository this service
// uses. Declared here so tests can substitute a fake.
type questionStore interface {
	FindByID(ctx context.Context, id int64) (*models.Question, error)
	Create(ctx context.Context, in repositories.CreateQuestionInput) (*models.Question, error)
	Update(ctx context.Context, id int64, upd repositories.QuestionUpdate) (*models.Question, error)
	Search(ctx context.Context, page, pageSize int, filters repositories.QuestionFilters) ([]models.QuestionWithDetails, helpers.Pagination, error)
	SearchPublished(ctx context.Context, page, pageSize int, filters repositories.QuestionFilters) ([]models.QuestionWithDetails, helpers.Pagination, error)
	GetByIDWithDetails(ctx context.Context, id int64) (*models.QuestionWithDetails, error)
	FindDuplicate(ctx context.Context, departmentID, courseID, semesterID, examTypeID int64, excludeID *int64) (*int64, error)
	IsDuplicate(ctx context.Context, departmentID, courseID, semesterID, examTypeID int64, excludeID *int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status models.QuestionStatus, reason *string, duplicateOf *int64) (bool, error)
	DeleteReturningPDFKey(ctx context.Context, id int64) (string, bool, error)
	IncrementViewCount(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context) (map[models.QuestionStatus]int64, error)
}

type departmentFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Department, error)
}

type courseResolver interface {
	FindOrCreate(ctx context.Context, departmentID int64, name string) (*models.Course, error)
}

type semesterResolver interface {
	FindOrCreate(ctx context.Context, name string) (*models.Semester, error)
}

type examTypeResolver interface {
	FindOrCreate(ctx context.Context, name string) (*models.ExamType, error)
}

type filterOptionsStore interface {
	GetFilterOptions(ctx context.Context) (*repositories.FilterOptions, error)
}

// viewRecorder batches catalog views; the Redis-backed cache satisfies
// it. When absent, views hit the database directly.
type viewRecorder interface {
	Record(ctx context.Context, questionID int64) error
}

// QuestionService defines the interface for exam paper operations
type QuestionService interface {
	ListPublished(ctx context.Context, page, pageSize int, filter *dto.QuestionFilterRequest) (*dto.QuestionListResponse, error)
	GetByID(ctx context.Context, id int64, viewerID, viewerRole string) (*dto.QuestionResponse, error)
	RecordView(ctx context.Context, id int64) error
	FilterOptions(ctx context.Context) (*repositories.FilterOptions, error)

	CheckDuplicate(ctx context.Context, req *dto.DuplicateCheckRequest) (*dto.DuplicateCheckResponse, error)
	Submit(ctx context.Context, userID, role string, req *dto.SubmitQuestionRequest, file *multipart.FileHeader) (*dto.QuestionResponse, error)
	Edit(ctx context.Context, id int64, userID, role string, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error)
	Delete(ctx context.Context, id int64, userID, role string) error
	MyUploads(ctx context.Context, userID string, page, pageSize int) (*dto.QuestionListResponse, error)

	PendingQueue(ctx context.Context, page, pageSize int) (*dto.ModerationQueueResponse, error)
	Approve(ctx context.Context, id int64, reason string) (*dto.QuestionResponse, error)
	Reject(ctx context.Context, id int64, reason string) (*dto.QuestionResponse, error)
}

// questionServiceImpl implements QuestionService
type questionServiceImpl struct {
	questions      questionStore
	departments    departmentFinder
	courses        courseResolver
	semesters      semesterResolver
	examTypes      examTypeResolver
	filterOptions  filterOptionsStore
	storage        filestorage.FileStorage
	views          viewRecorder
	maxUploadBytes int64
}

// NewQuestionService creates a new QuestionService. views may be nil,
// in which case every view increments the counter directly.
func NewQuestionService(
	questions questionStore,
	departments departmentFinder,
	courses courseResolver,
	semesters semesterResolver,
	examTypes examTypeResolver,
	filterOptions filterOptionsStore,
	storage filestorage.FileStorage,
	views viewRecorder,
	maxUploadBytes int64,
) QuestionService {
	return &questionServiceImpl{
		questions:      questions,
		departments:    departments,
		courses:        courses,
		semesters:      semesters,
		examTypes:      examTypes,
		filterOptions:  filterOptions,
		storage:        storage,
		views:          views,
		maxUploadBytes: maxUploadBytes,
	}
}

func isModerator(role string) bool {
	return role == models.RoleModerator || role == models.RoleAdmin
}

// ListPublished returns one catalog page. Only published papers are
// visible here regardless of the requested filters.
func (s *questionServiceImpl) ListPublished(ctx context.Context, page, pageSize int, filter *dto.QuestionFilterRequest) (*dto.QuestionListResponse, error) {
	questions, pagination, err := s.questions.SearchPublished(ctx, page, pageSize, s.toFilters(filter))
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	return &dto.QuestionListResponse{
		Questions:  s.toResponses(questions),
		Pagination: pagination,
	}, nil
}

func (s *questionServiceImpl) toFilters(filter *dto.QuestionFilterRequest) repositories.QuestionFilters {
	if filter == nil {
		return repositories.QuestionFilters{}
	}
	return repositories.QuestionFilters{
		DepartmentID: filter.DepartmentID,
		CourseID:     filter.CourseID,
		SemesterID:   filter.SemesterID,
		ExamTypeID:   filter.ExamTypeID,
		Search:       filter.Search,
		SortBy:       filter.SortBy,
		SortOrder:    filter.SortOrder,
	}
}

func (s *questionServiceImpl) toResponses(questions []models.QuestionWithDetails) []dto.QuestionResponse {
	responses := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		responses = append(responses, dto.FromQuestionWithDetails(&questions[i], s.storage.URL(questions[i].PDFKey)))
	}
	return responses
}

// GetByID returns one paper. Unpublished papers are visible only to
// their uploader and to moderators.
func (s *questionServiceImpl) GetByID(ctx context.Context, id int64, viewerID, viewerRole string) (*dto.QuestionResponse, error) {
	question, err := s.questions.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting question: %w", err)
	}
	if question == nil {
		return nil, apperrors.ErrQuestionNotFound
	}

	if question.Status != models.StatusPublished && question.UserID != viewerID && !isModerator(viewerRole) {
		return nil, apperrors.ErrQuestionNotFound
	}

	resp := dto.FromQuestionWithDetails(question, s.storage.URL(question.PDFKey))
	return &resp, nil
}

// RecordView counts one catalog view, through the batching cache when
// one is wired.
func (s *questionServiceImpl) RecordView(ctx context.Context, id int64) error {
	if s.views != nil {
		if err := s.views.Record(ctx, id); err == nil {
			return nil
		}
		// Cache down: fall through to the database rather than drop the view.
	}
	if err := s.questions.IncrementViewCount(ctx, id); err != nil {
		return fmt.Errorf("error recording view: %w", err)
	}
	return nil
}

// FilterOptions returns every lookup table for the catalog filter UI.
func (s *questionServiceImpl) FilterOptions(ctx context.Context) (*repositories.FilterOptions, error) {
	opts, err := s.filterOptions.GetFilterOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading filter options: %w", err)
	}
	return opts, nil
}

// CheckDuplicate answers the pre-upload probe: whether a non-rejected
// paper already covers the tuple. Submission itself re-runs the check;
// this only saves the uploader the wasted upload.
func (s *questionServiceImpl) CheckDuplicate(ctx context.Context, req *dto.DuplicateCheckRequest) (*dto.DuplicateCheckResponse, error) {
	duplicate, err := s.questions.IsDuplicate(ctx,
		req.DepartmentID, req.CourseID, req.SemesterID, req.ExamTypeID, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking for duplicates: %w", err)
	}
	return &dto.DuplicateCheckResponse{Duplicate: duplicate}, nil
}

// Submit stores the PDF and creates the paper. A paper whose
// (department, course, semester, exam type) tuple is already taken by a
// non-rejected paper enters review flagged as a duplicate; otherwise
// moderator uploads publish immediately and contributor uploads wait
// for review.
func (s *questionServiceImpl) Submit(ctx context.Context, userID, role string, req *dto.SubmitQuestionRequest, file *multipart.FileHeader) (*dto.QuestionResponse, error) {
	if err := s.validateUpload(file); err != nil {
		return nil, err
	}

	department, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("error checking department: %w", err)
	}
	if department == nil {
		return nil, apperrors.ErrDepartmentNotFound
	}

	course, err := s.courses.FindOrCreate(ctx, department.ID, strings.TrimSpace(req.Course))
	if err != nil {
		return nil, fmt.Errorf("error resolving course: %w", err)
	}
	semester, err := s.semesters.FindOrCreate(ctx, strings.TrimSpace(req.Semester))
	if err != nil {
		return nil, fmt.Errorf("error resolving semester: %w", err)
	}
	examType, err := s.examTypes.FindOrCreate(ctx, strings.TrimSpace(req.ExamType))
	if err != nil {
		return nil, fmt.Errorf("error resolving exam type: %w", err)
	}

	duplicateOf, err := s.questions.FindDuplicate(ctx, department.ID, course.ID, semester.ID, examType.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("error checking for duplicates: %w", err)
	}

	status := models.StatusPendingReview
	var statusReason *string
	switch {
	case duplicateOf != nil:
		reason := fmt.Sprintf("possible duplicate of question #%d", *duplicateOf)
		statusReason = &reason
	case isModerator(role):
		status = models.StatusPublished
	}

	key := filestorage.NewObjectKey("questions", file.Filename)
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening uploaded file: %w", err)
	}
	defer src.Close()

	if err := s.storage.Save(ctx, key, src, "application/pdf"); err != nil {
		return nil, fmt.Errorf("error storing uploaded file: %w", err)
	}

	question, err := s.questions.Create(ctx, repositories.CreateQuestionInput{
		UserID:           userID,
		DepartmentID:     department.ID,
		CourseID:         course.ID,
		SemesterID:       semester.ID,
		ExamTypeID:       examType.ID,
		Status:           status,
		StatusReason:     statusReason,
		DuplicateOf:      duplicateOf,
		PDFKey:           key,
		PDFFileSizeBytes: file.Size,
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.Warn().Err(delErr).Str("key", key).Msg("Failed to clean up orphaned upload")
		}
		return nil, fmt.Errorf("error creating question: %w", err)
	}

	logger.Info().Int64("questionId", question.ID).Str("userId", userID).
		Str("status", string(status)).Msg("Question submitted")

	return s.GetByID(ctx, question.ID, userID, role)
}

func (s *questionServiceImpl) validateUpload(file *multipart.FileHeader) error {
	if file == nil {
		return apperrors.NewBadRequestError("a PDF file is required")
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		return apperrors.NewBadRequestError("only PDF uploads are accepted")
	}
	if s.maxUploadBytes > 0 && file.Size > s.maxUploadBytes {
		return apperrors.NewBadRequestError(fmt.Sprintf("file exceeds the %d byte upload limit", s.maxUploadBytes))
	}
	return nil
}

// Edit applies an owner's metadata change and re-runs the duplicate
// check against the new tuple. A published paper that now collides with
// another goes back to review; editing a rejected paper resubmits it.
func (s *questionServiceImpl) Edit(ctx context.Context, id int64, userID, role string, req *dto.UpdateQuestionRequest) (*dto.QuestionResponse, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading question: %w", err)
	}
	if question == nil {
		return nil, apperrors.ErrQuestionNotFound
	}
	if question.UserID != userID && !isModerator(role) {
		return nil, apperrors.ErrQuestionNotOwned
	}

	departmentID := question.DepartmentID
	if req.DepartmentID != nil {
		department, err := s.departments.FindByID(ctx, *req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("error checking department: %w", err)
		}
		if department == nil {
			return nil, apperrors.ErrDepartmentNotFound
		}
		departmentID = department.ID
	}

	upd := repositories.QuestionUpdate{}
	if departmentID != question.DepartmentID {
		upd.DepartmentID = &departmentID
	}

	courseID := question.CourseID
	// A department change moves the course with it: the same course name
	// is resolved under the new department.
	if req.Course != nil || departmentID != question.DepartmentID {
		name := ""
		if req.Course != nil {
			name = strings.TrimSpace(*req.Course)
		} else {
			current, err := s.questions.GetByIDWithDetails(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("error loading question details: %w", err)
			}
			if current == nil {
				return nil, apperrors.ErrQuestionNotFound
			}
			name = current.CourseName
		}
		course, err := s.courses.FindOrCreate(ctx, departmentID, name)
		if err != nil {
			return nil, fmt.Errorf("error resolving course: %w", err)
		}
		if course.ID != courseID {
			courseID = course.ID
			upd.CourseID = &courseID
		}
	}

	semesterID := question.SemesterID
	if req.Semester != nil {
		semester, err := s.semesters.FindOrCreate(ctx, strings.TrimSpace(*req.Semester))
		if err != nil {
			return nil, fmt.Errorf("error resolving semester: %w", err)
		}
		if semester.ID != semesterID {
			semesterID = semester.ID
			upd.SemesterID = &semesterID
		}
	}

	examTypeID := question.ExamTypeID
	if req.ExamType != nil {
		examType, err := s.examTypes.FindOrCreate(ctx, strings.TrimSpace(*req.ExamType))
		if err != nil {
			return nil, fmt.Errorf("error resolving exam type: %w", err)
		}
		if examType.ID != examTypeID {
			examTypeID = examType.ID
			upd.ExamTypeID = &examTypeID
		}
	}

	if _, err := s.questions.Update(ctx, id, upd); err != nil {
		return nil, fmt.Errorf("error updating question: %w", err)
	}

	duplicateOf, err := s.questions.FindDuplicate(ctx, departmentID, courseID, semesterID, examTypeID, &id)
	if err != nil {
		return nil, fmt.Errorf("error re-checking for duplicates: %w", err)
	}
	switch {
	case duplicateOf != nil && question.Status.CanTransitionTo(models.StatusPendingReview):
		reason := fmt.Sprintf("possible duplicate of question #%d", *duplicateOf)
		if _, err := s.questions.UpdateStatus(ctx, id, models.StatusPendingReview, &reason, duplicateOf); err != nil {
			return nil, fmt.Errorf("error flagging duplicate: %w", err)
		}
		logger.Info().Int64("questionId", id).Int64("duplicateOf", *duplicateOf).
			Msg("Edited question flagged as duplicate")
	case duplicateOf == nil && question.Status == models.StatusRejected:
		// Editing a rejected paper is a resubmission; the old rejection
		// reason no longer describes it.
		if _, err := s.questions.UpdateStatus(ctx, id, models.StatusPendingReview, nil, nil); err != nil {
			return nil, fmt.Errorf("error resubmitting question: %w", err)
		}
		logger.Info().Int64("questionId", id).Msg("Rejected question resubmitted for review")
	}

	return s.GetByID(ctx, id, userID, role)
}

// Delete removes the paper and its stored PDF. The uploader and
// moderators may delete; the object delete is best effort since the row
// is already gone.
func (s *questionServiceImpl) Delete(ctx context.Context, id int64, userID, role string) error {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error loading question: %w", err)
	}
	if question == nil {
		return apperrors.ErrQuestionNotFound
	}
	if question.UserID != userID && !isModerator(role) {
		return apperrors.ErrQuestionNotOwned
	}

	pdfKey, deleted, err := s.questions.DeleteReturningPDFKey(ctx, id)
	if err != nil {
		return fmt.Errorf("error deleting question: %w", err)
	}
	if !deleted {
		return apperrors.ErrQuestionNotFound
	}

	if err := s.storage.Delete(ctx, pdfKey); err != nil {
		logger.Warn().Err(err).Str("key", pdfKey).Int64("questionId", id).
			Msg("Question deleted but PDF removal failed")
	}

	logger.Info().Int64("questionId", id).Str("deletedBy", userID).Msg("Question deleted")
	return nil
}

// MyUploads lists the caller's papers in every status.
func (s *questionServiceImpl) MyUploads(ctx context.Context, userID string, page, pageSize int) (*dto.QuestionListResponse, error) {
	questions, pagination, err := s.questions.Search(ctx, page, pageSize, repositories.QuestionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("error listing uploads: %w", err)
	}
	return &dto.QuestionListResponse{
		Questions:  s.toResponses(questions),
		Pagination: pagination,
	}, nil
}

// PendingQueue lists papers awaiting review, oldest first, with
// per-status totals for the dashboard.
func (s *questionServiceImpl) PendingQueue(ctx context.Context, page, pageSize int) (*dto.ModerationQueueResponse, error) {
	pending := models.StatusPendingReview
	questions, pagination, err := s.questions.Search(ctx, page, pageSize, repositories.QuestionFilters{
		Status:    &pending,
		SortBy:    "createdAt",
		SortOrder: "ASC",
	})
	if err != nil {
		return nil, fmt.Errorf("error listing pending questions: %w", err)
	}

	statusCounts, err := s.questions.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting questions by status: %w", err)
	}
	counts := make(map[string]int64, len(statusCounts))
	for status, count := range statusCounts {
		counts[string(status)] = count
	}

	return &dto.ModerationQueueResponse{
		Questions:  s.toResponses(questions),
		Pagination: pagination,
		Counts:     counts,
	}, nil
}

// Approve publishes a paper out of review.
func (s *questionServiceImpl) Approve(ctx context.Context, id int64, reason string) (*dto.QuestionResponse, error) {
	return s.moderate(ctx, id, models.StatusPublished, reason, false)
}

// Reject turns a paper down; the reason is shown to the uploader and is
// required.
func (s *questionServiceImpl) Reject(ctx context.Context, id int64, reason string) (*dto.QuestionResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewBadRequestError("a rejection reason is required")
	}
	return s.moderate(ctx, id, models.StatusRejected, reason, true)
}

func (s *questionServiceImpl) moderate(ctx context.Context, id int64, next models.QuestionStatus, reason string, keepDuplicateLink bool) (*dto.QuestionResponse, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading question: %w", err)
	}
	if question == nil {
		return nil, apperrors.ErrQuestionNotFound
	}
	if !question.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidStatusChange
	}

	var statusReason *string
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		statusReason = &trimmed
	}
	var duplicateOf *int64
	if keepDuplicateLink {
		duplicateOf = question.DuplicateOf
	}

	updated, err := s.questions.UpdateStatus(ctx, id, next, statusReason, duplicateOf)
	if err != nil {
		return nil, fmt.Errorf("error updating question status: %w", err)
	}
	if !updated {
		return nil, apperrors.ErrQuestionNotFound
	}

	logger.Info().Int64("questionId", id).Str("status", string(next)).Msg("Question moderated")

	detail, err := s.questions.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error reloading question: %w", err)
	}
	if detail == nil {
		return nil, apperrors.ErrQuestionNotFound
	}
	resp := dto.FromQuestionWithDetails(detail, s.storage.URL(detail.PDFKey))
	return &resp, nil
}
