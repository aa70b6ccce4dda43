package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/app/models/dto"
	"github.com/tahmid/qpaper/internal/app/repositories"
	"github.com/tahmid/qpaper/internal/pkg/apperrors"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
)

// fakeQuestionStore keeps questions in a map and records the duplicate
// tuples it was told about.
type fakeQuestionStore struct {
	nextID    int64
	questions map[int64]*models.Question
	details   map[int64]*models.QuestionWithDetails
	// duplicates maps "dep:course:sem:et" to an existing question ID.
	duplicates map[string]int64

	lastUpdate       *repositories.QuestionUpdate
	lastStatus       *models.QuestionStatus
	lastStatusReason *string
	lastDuplicateOf  *int64
	viewIncrements   map[int64]int
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		nextID:         1,
		questions:      map[int64]*models.Question{},
		details:        map[int64]*models.QuestionWithDetails{},
		duplicates:     map[string]int64{},
		viewIncrements: map[int64]int{},
	}
}

func tupleKey(dep, course, sem, et int64) string {
	return fmt.Sprintf("%d:%d:%d:%d", dep, course, sem, et)
}

func (f *fakeQuestionStore) add(q models.Question) *models.Question {
	q.ID = f.nextID
	f.nextID++
	stored := q
	f.questions[stored.ID] = &stored
	f.details[stored.ID] = &models.QuestionWithDetails{Question: stored, CourseName: "Algorithms"}
	if stored.Status != models.StatusRejected {
		f.duplicates[tupleKey(stored.DepartmentID, stored.CourseID, stored.SemesterID, stored.ExamTypeID)] = stored.ID
	}
	return &stored
}

func (f *fakeQuestionStore) FindByID(_ context.Context, id int64) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionStore) Create(_ context.Context, in repositories.CreateQuestionInput) (*models.Question, error) {
	return f.add(models.Question{
		UserID:           in.UserID,
		DepartmentID:     in.DepartmentID,
		CourseID:         in.CourseID,
		SemesterID:       in.SemesterID,
		ExamTypeID:       in.ExamTypeID,
		Status:           in.Status,
		StatusReason:     in.StatusReason,
		DuplicateOf:      in.DuplicateOf,
		PDFKey:           in.PDFKey,
		PDFFileSizeBytes: in.PDFFileSizeBytes,
	}), nil
}

func (f *fakeQuestionStore) Update(_ context.Context, id int64, upd repositories.QuestionUpdate) (*models.Question, error) {
	f.lastUpdate = &upd
	q, ok := f.questions[id]
	if !ok {
		return nil, nil
	}
	if upd.DepartmentID != nil {
		q.DepartmentID = *upd.DepartmentID
	}
	if upd.CourseID != nil {
		q.CourseID = *upd.CourseID
	}
	if upd.SemesterID != nil {
		q.SemesterID = *upd.SemesterID
	}
	if upd.ExamTypeID != nil {
		q.ExamTypeID = *upd.ExamTypeID
	}
	f.details[id].Question = *q
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionStore) Search(_ context.Context, page, pageSize int, filters repositories.QuestionFilters) ([]models.QuestionWithDetails, helpers.Pagination, error) {
	var out []models.QuestionWithDetails
	for _, d := range f.details {
		if filters.UserID != "" && d.UserID != filters.UserID {
			continue
		}
		if filters.Status != nil && d.Status != *filters.Status {
			continue
		}
		out = append(out, *d)
	}
	return out, helpers.NewPagination(page, pageSize, int64(len(out))), nil
}

func (f *fakeQuestionStore) SearchPublished(ctx context.Context, page, pageSize int, filters repositories.QuestionFilters) ([]models.QuestionWithDetails, helpers.Pagination, error) {
	published := models.StatusPublished
	filters.Status = &published
	return f.Search(ctx, page, pageSize, filters)
}

func (f *fakeQuestionStore) GetByIDWithDetails(_ context.Context, id int64) (*models.QuestionWithDetails, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeQuestionStore) FindDuplicate(_ context.Context, departmentID, courseID, semesterID, examTypeID int64, excludeID *int64) (*int64, error) {
	id, ok := f.duplicates[tupleKey(departmentID, courseID, semesterID, examTypeID)]
	if !ok {
		return nil, nil
	}
	if excludeID != nil && id == *excludeID {
		return nil, nil
	}
	return &id, nil
}

func (f *fakeQuestionStore) IsDuplicate(ctx context.Context, departmentID, courseID, semesterID, examTypeID int64, excludeID *int64) (bool, error) {
	id, err := f.FindDuplicate(ctx, departmentID, courseID, semesterID, examTypeID, excludeID)
	return id != nil, err
}

func (f *fakeQuestionStore) UpdateStatus(_ context.Context, id int64, status models.QuestionStatus, reason *string, duplicateOf *int64) (bool, error) {
	f.lastStatus = &status
	f.lastStatusReason = reason
	f.lastDuplicateOf = duplicateOf
	q, ok := f.questions[id]
	if !ok {
		return false, nil
	}
	q.Status = status
	q.StatusReason = reason
	q.DuplicateOf = duplicateOf
	f.details[id].Question = *q
	return true, nil
}

func (f *fakeQuestionStore) DeleteReturningPDFKey(_ context.Context, id int64) (string, bool, error) {
	q, ok := f.questions[id]
	if !ok {
		return "", false, nil
	}
	delete(f.questions, id)
	delete(f.details, id)
	return q.PDFKey, true, nil
}

func (f *fakeQuestionStore) IncrementViewCount(_ context.Context, id int64) error {
	f.viewIncrements[id]++
	return nil
}

func (f *fakeQuestionStore) CountByStatus(_ context.Context) (map[models.QuestionStatus]int64, error) {
	counts := map[models.QuestionStatus]int64{}
	for _, q := range f.questions {
		counts[q.Status]++
	}
	return counts, nil
}

type fakeDepartmentFinder struct{ known map[int64]bool }

func (f *fakeDepartmentFinder) FindByID(_ context.Context, id int64) (*models.Department, error) {
	if !f.known[id] {
		return nil, nil
	}
	return &models.Department{ID: id, Name: "CSE", ShortName: "CSE"}, nil
}

// fakeLookupResolver assigns a stable ID per (department, name) pair.
type fakeLookupResolver struct {
	nextID int64
	byName map[string]int64
}

func newFakeLookupResolver() *fakeLookupResolver {
	return &fakeLookupResolver{nextID: 1, byName: map[string]int64{}}
}

func (f *fakeLookupResolver) resolve(scope, name string) int64 {
	key := scope + "/" + strings.ToLower(name)
	if id, ok := f.byName[key]; ok {
		return id
	}
	id := f.nextID
	f.nextID++
	f.byName[key] = id
	return id
}

type fakeCourses struct{ *fakeLookupResolver }

func (f fakeCourses) FindOrCreate(_ context.Context, departmentID int64, name string) (*models.Course, error) {
	return &models.Course{ID: f.resolve(fmt.Sprintf("dep%d", departmentID), name), DepartmentID: departmentID, Name: name}, nil
}

type fakeSemesters struct{ *fakeLookupResolver }

func (f fakeSemesters) FindOrCreate(_ context.Context, name string) (*models.Semester, error) {
	return &models.Semester{ID: f.resolve("sem", name), Name: name}, nil
}

type fakeExamTypes struct{ *fakeLookupResolver }

func (f fakeExamTypes) FindOrCreate(_ context.Context, name string) (*models.ExamType, error) {
	return &models.ExamType{ID: f.resolve("et", name), Name: name}, nil
}

type fakeFilterOptions struct{}

func (fakeFilterOptions) GetFilterOptions(_ context.Context) (*repositories.FilterOptions, error) {
	return &repositories.FilterOptions{}, nil
}

type fakeStorage struct {
	saved   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage { return &fakeStorage{saved: map[string][]byte{}} }

func (f *fakeStorage) Save(_ context.Context, key string, body io.Reader, _ string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.saved[key] = data
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.saved[key])), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.saved, key)
	return nil
}

func (f *fakeStorage) URL(key string) string { return "/uploads/" + key }

type questionTestDeps struct {
	store   *fakeQuestionStore
	storage *fakeStorage
	svc     QuestionService
}

func newQuestionTestDeps() *questionTestDeps {
	store := newFakeQuestionStore()
	storage := newFakeStorage()
	svc := NewQuestionService(
		store,
		&fakeDepartmentFinder{known: map[int64]bool{1: true, 2: true}},
		fakeCourses{newFakeLookupResolver()},
		fakeSemesters{newFakeLookupResolver()},
		fakeExamTypes{newFakeLookupResolver()},
		fakeFilterOptions{},
		storage,
		nil,
		1<<20, // 1 MiB cap for the upload tests
	)
	return &questionTestDeps{store: store, storage: storage, svc: svc}
}

// makeFileHeader builds a real multipart.FileHeader so file.Open works.
func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<22))

	return req.MultipartForm.File["file"][0]
}

func submitReq() *dto.SubmitQuestionRequest {
	return &dto.SubmitQuestionRequest{
		DepartmentID: 1,
		Course:       "Algorithms",
		Semester:     "Fall 25",
		ExamType:     "Final",
	}
}

func TestSubmitContributorEntersReview(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	resp, err := deps.svc.Submit(ctx, "user-1", models.RoleContributor, submitReq(), makeFileHeader(t, "final.pdf", "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPendingReview), resp.Status)
	assert.Nil(t, resp.DuplicateOf)
	assert.Len(t, deps.storage.saved, 1)
}

func TestSubmitModeratorPublishesImmediately(t *testing.T) {
	deps := newQuestionTestDeps()

	resp, err := deps.svc.Submit(context.Background(), "mod-1", models.RoleModerator, submitReq(), makeFileHeader(t, "final.pdf", "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPublished), resp.Status)
}

func TestSubmitDuplicateTupleFlagsForReview(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	first, err := deps.svc.Submit(ctx, "mod-1", models.RoleModerator, submitReq(), makeFileHeader(t, "a.pdf", "%PDF-1.4"))
	require.NoError(t, err)

	// Even a moderator's re-upload of the same tuple goes to review.
	second, err := deps.svc.Submit(ctx, "mod-1", models.RoleModerator, submitReq(), makeFileHeader(t, "b.pdf", "%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, string(models.StatusPendingReview), second.Status)
	require.NotNil(t, second.DuplicateOf)
	assert.Equal(t, first.ID, *second.DuplicateOf)
	require.NotNil(t, second.StatusReason)
	assert.Equal(t, fmt.Sprintf("possible duplicate of question #%d", first.ID), *second.StatusReason)
}

func TestCheckDuplicateAnswersPreUploadProbe(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	stored := deps.store.add(models.Question{
		UserID: "user-1", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPublished,
	})

	resp, err := deps.svc.CheckDuplicate(ctx, &dto.DuplicateCheckRequest{
		DepartmentID: stored.DepartmentID, CourseID: stored.CourseID,
		SemesterID: stored.SemesterID, ExamTypeID: stored.ExamTypeID,
	})
	require.NoError(t, err)
	assert.True(t, resp.Duplicate)

	resp, err = deps.svc.CheckDuplicate(ctx, &dto.DuplicateCheckRequest{
		DepartmentID: 2, CourseID: 7, SemesterID: 7, ExamTypeID: 7,
	})
	require.NoError(t, err)
	assert.False(t, resp.Duplicate)
}

func TestSubmitRejectedPaperDoesNotBlockTuple(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	deps.store.add(models.Question{
		UserID: "user-1", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusRejected,
	})

	resp, err := deps.svc.Submit(ctx, "user-2", models.RoleContributor, submitReq(), makeFileHeader(t, "c.pdf", "%PDF-1.4"))
	require.NoError(t, err)
	assert.Nil(t, resp.DuplicateOf)
}

func TestSubmitRejectsNonPDF(t *testing.T) {
	deps := newQuestionTestDeps()

	_, err := deps.svc.Submit(context.Background(), "user-1", models.RoleContributor, submitReq(), makeFileHeader(t, "notes.docx", "stuff"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.Empty(t, deps.storage.saved)
}

func TestSubmitRejectsOversizedFile(t *testing.T) {
	deps := newQuestionTestDeps()

	big := strings.Repeat("x", (1<<20)+1)
	_, err := deps.svc.Submit(context.Background(), "user-1", models.RoleContributor, submitReq(), makeFileHeader(t, "big.pdf", big))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestSubmitUnknownDepartment(t *testing.T) {
	deps := newQuestionTestDeps()

	req := submitReq()
	req.DepartmentID = 99
	_, err := deps.svc.Submit(context.Background(), "user-1", models.RoleContributor, req, makeFileHeader(t, "a.pdf", "%PDF-1.4"))
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
}

func TestGetByIDHidesUnpublishedFromStrangers(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	q := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPendingReview, PDFKey: "questions/a.pdf",
	})

	// Anonymous and unrelated viewers see a not-found.
	_, err := deps.svc.GetByID(ctx, q.ID, "", "")
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
	_, err = deps.svc.GetByID(ctx, q.ID, "someone-else", models.RoleContributor)
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)

	// The owner and moderators see it.
	resp, err := deps.svc.GetByID(ctx, q.ID, "owner", models.RoleContributor)
	require.NoError(t, err)
	assert.Equal(t, q.ID, resp.ID)

	_, err = deps.svc.GetByID(ctx, q.ID, "mod", models.RoleModerator)
	assert.NoError(t, err)
}

func TestGetByIDPublishedIsPublic(t *testing.T) {
	deps := newQuestionTestDeps()

	q := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPublished, PDFKey: "questions/a.pdf",
	})

	resp, err := deps.svc.GetByID(context.Background(), q.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/questions/a.pdf", resp.PDFURL)
}

func TestEditReflagsPublishedDuplicate(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	existing := deps.store.add(models.Question{
		UserID: "other", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPublished,
	})
	// Published paper under a different exam type.
	mine := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 2,
		Status: models.StatusPublished,
	})

	// Editing onto the existing tuple sends the paper back to review.
	// The fake resolvers assign IDs in first-seen order, so resolving the
	// same names lands on the existing tuple.
	course := "Algorithms"
	semester := "Fall 25"
	examType := "Final"
	deps.store.details[mine.ID].CourseName = course

	// Seed resolver state so the duplicate's names map to its IDs.
	svc := deps.svc.(*questionServiceImpl)
	svc.courses.FindOrCreate(ctx, 1, course)
	svc.semesters.FindOrCreate(ctx, semester)
	svc.examTypes.FindOrCreate(ctx, examType)

	resp, err := deps.svc.Edit(ctx, mine.ID, "owner", models.RoleContributor, &dto.UpdateQuestionRequest{
		Course: &course, Semester: &semester, ExamType: &examType,
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPendingReview), resp.Status)
	require.NotNil(t, resp.DuplicateOf)
	assert.Equal(t, existing.ID, *resp.DuplicateOf)
}

func TestEditResubmitsRejectedPaper(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	reason := "blurry scan"
	mine := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusRejected, StatusReason: &reason,
	})

	// Any edit of a rejected paper sends it back to review with the old
	// rejection reason cleared.
	resp, err := deps.svc.Edit(ctx, mine.ID, "owner", models.RoleContributor, &dto.UpdateQuestionRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPendingReview), resp.Status)
	assert.Nil(t, resp.StatusReason)
	assert.Nil(t, resp.DuplicateOf)
}

func TestEditByStrangerIsForbidden(t *testing.T) {
	deps := newQuestionTestDeps()

	q := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPublished,
	})

	course := "Networks"
	_, err := deps.svc.Edit(context.Background(), q.ID, "stranger", models.RoleContributor, &dto.UpdateQuestionRequest{Course: &course})
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotOwned)
}

func TestDeleteRemovesRowAndPDF(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	q := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPublished, PDFKey: "questions/gone.pdf",
	})

	require.NoError(t, deps.svc.Delete(ctx, q.ID, "owner", models.RoleContributor))
	assert.Equal(t, []string{"questions/gone.pdf"}, deps.storage.deleted)

	// A second delete, and any read, now miss.
	assert.ErrorIs(t, deps.svc.Delete(ctx, q.ID, "owner", models.RoleContributor), apperrors.ErrQuestionNotFound)
	_, err := deps.svc.GetByID(ctx, q.ID, "owner", models.RoleContributor)
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotFound)
}

func TestDeleteByStrangerIsForbidden(t *testing.T) {
	deps := newQuestionTestDeps()

	q := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPublished,
	})

	err := deps.svc.Delete(context.Background(), q.ID, "stranger", models.RoleContributor)
	assert.ErrorIs(t, err, apperrors.ErrQuestionNotOwned)
}

func TestApproveAndRejectTransitions(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	q := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPendingReview,
	})

	resp, err := deps.svc.Approve(ctx, q.ID, "")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPublished), resp.Status)
	assert.Nil(t, resp.DuplicateOf)

	// Published -> rejected is not a legal transition.
	_, err = deps.svc.Reject(ctx, q.ID, "bad scan")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusChange)
}

func TestRejectRequiresReason(t *testing.T) {
	deps := newQuestionTestDeps()

	q := deps.store.add(models.Question{
		UserID: "owner", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPendingReview,
	})

	_, err := deps.svc.Reject(context.Background(), q.ID, "   ")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	resp, err := deps.svc.Reject(context.Background(), q.ID, "unreadable scan")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusRejected), resp.Status)
	require.NotNil(t, resp.StatusReason)
	assert.Equal(t, "unreadable scan", *resp.StatusReason)
}

func TestRejectKeepsDuplicateLink(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	original := deps.store.add(models.Question{
		UserID: "a", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1,
		Status: models.StatusPublished,
	})
	dupID := original.ID
	dup := deps.store.add(models.Question{
		UserID: "b", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 2,
		Status: models.StatusPendingReview, DuplicateOf: &dupID,
	})

	resp, err := deps.svc.Reject(ctx, dup.ID, "duplicate upload")
	require.NoError(t, err)
	require.NotNil(t, resp.DuplicateOf)
	assert.Equal(t, original.ID, *resp.DuplicateOf)
}

func TestListPublishedFiltersStatus(t *testing.T) {
	deps := newQuestionTestDeps()
	ctx := context.Background()

	deps.store.add(models.Question{UserID: "a", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1, Status: models.StatusPublished})
	deps.store.add(models.Question{UserID: "a", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 2, Status: models.StatusPendingReview})
	deps.store.add(models.Question{UserID: "b", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 3, Status: models.StatusRejected})

	resp, err := deps.svc.ListPublished(ctx, 1, 10, nil)
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 1)
	assert.Equal(t, int64(1), resp.Pagination.TotalCount)
}

func TestMyUploadsIncludesEveryStatus(t *testing.T) {
	deps := newQuestionTestDeps()

	deps.store.add(models.Question{UserID: "me", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1, Status: models.StatusPublished})
	deps.store.add(models.Question{UserID: "me", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 2, Status: models.StatusRejected})
	deps.store.add(models.Question{UserID: "other", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 3, Status: models.StatusPublished})

	resp, err := deps.svc.MyUploads(context.Background(), "me", 1, 10)
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 2)
}

func TestPendingQueueCounts(t *testing.T) {
	deps := newQuestionTestDeps()

	deps.store.add(models.Question{UserID: "a", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1, Status: models.StatusPublished})
	deps.store.add(models.Question{UserID: "a", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 2, Status: models.StatusPendingReview})
	deps.store.add(models.Question{UserID: "b", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 3, Status: models.StatusPendingReview})

	resp, err := deps.svc.PendingQueue(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, resp.Questions, 2)
	assert.Equal(t, int64(2), resp.Counts[string(models.StatusPendingReview)])
	assert.Equal(t, int64(1), resp.Counts[string(models.StatusPublished)])
}

func TestRecordViewFallsBackToDatabase(t *testing.T) {
	deps := newQuestionTestDeps()

	q := deps.store.add(models.Question{UserID: "a", DepartmentID: 1, CourseID: 1, SemesterID: 1, ExamTypeID: 1, Status: models.StatusPublished})

	require.NoError(t, deps.svc.RecordView(context.Background(), q.ID))
	assert.Equal(t, 1, deps.store.viewIncrements[q.ID])
}
