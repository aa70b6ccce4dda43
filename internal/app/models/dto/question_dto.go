package dto

import (
	"time"

	"github.com/tahmid/qpaper/internal/app/models"
	"github.com/tahmid/qpaper/internal/pkg/helpers"
)

// SubmitQuestionRequest carries the metadata of an upload. The PDF
// itself arrives as the multipart "file" part. Course, semester and exam
// type are free-form names resolved (or created) server side.
type SubmitQuestionRequest struct {
	DepartmentID int64  `form:"departmentId" binding:"required,min=1"`
	Course       string `form:"course" binding:"required"`
	Semester     string `form:"semester" binding:"required"`
	ExamType     string `form:"examType" binding:"required"`
}

// UpdateQuestionRequest carries an owner's metadata edit. Absent fields
// are left untouched.
type UpdateQuestionRequest struct {
	DepartmentID *int64  `json:"departmentId,omitempty" binding:"omitempty,min=1"`
	Course       *string `json:"course,omitempty"`
	Semester     *string `json:"semester,omitempty"`
	ExamType     *string `json:"examType,omitempty"`
}

// DuplicateCheckRequest asks whether a paper already covers the tuple,
// so uploaders can be warned before they upload.
type DuplicateCheckRequest struct {
	DepartmentID int64 `form:"departmentId" binding:"required,min=1"`
	CourseID     int64 `form:"courseId" binding:"required,min=1"`
	SemesterID   int64 `form:"semesterId" binding:"required,min=1"`
	ExamTypeID   int64 `form:"examTypeId" binding:"required,min=1"`
}

// DuplicateCheckResponse is the answer to a DuplicateCheckRequest.
type DuplicateCheckResponse struct {
	Duplicate bool `json:"duplicate"`
}

// QuestionFilterRequest narrows a catalog listing
type QuestionFilterRequest struct {
	DepartmentID *int64 `form:"departmentId" binding:"omitempty,min=1"`
	CourseID     *int64 `form:"courseId" binding:"omitempty,min=1"`
	SemesterID   *int64 `form:"semesterId" binding:"omitempty,min=1"`
	ExamTypeID   *int64 `form:"examTypeId" binding:"omitempty,min=1"`
	Search       string `form:"search"`
	SortBy       string `form:"sortBy"`
	SortOrder    string `form:"sortOrder" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ModerationRequest carries a moderator's decision context. Reason is
// required on rejection, optional on approval.
type ModerationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// QuestionResponse represents one exam paper in API responses
type QuestionResponse struct {
	ID                  int64     `json:"id"`
	Status              string    `json:"status"`
	StatusReason        *string   `json:"statusReason,omitempty"`
	DuplicateOf         *int64    `json:"duplicateOf,omitempty"`
	DepartmentID        int64     `json:"departmentId"`
	DepartmentName      string    `json:"departmentName"`
	DepartmentShortName string    `json:"departmentShortName"`
	CourseID            int64     `json:"courseId"`
	CourseName          string    `json:"courseName"`
	SemesterID          int64     `json:"semesterId"`
	SemesterName        string    `json:"semesterName"`
	ExamTypeID          int64     `json:"examTypeId"`
	ExamTypeName        string    `json:"examTypeName"`
	UploaderName        string    `json:"uploaderName"`
	UploaderUsername    string    `json:"uploaderUsername"`
	PDFURL              string    `json:"pdfUrl"`
	PDFFileSizeBytes    int64     `json:"pdfFileSizeBytes"`
	ViewCount           int64     `json:"viewCount"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// QuestionListResponse is one page of the catalog plus page metadata
type QuestionListResponse struct {
	Questions  []QuestionResponse `json:"questions"`
	Pagination helpers.Pagination `json:"pagination"`
}

// FromQuestionWithDetails converts a joined read. pdfURL is resolved by
// the caller because only the storage layer knows how keys map to URLs.
func FromQuestionWithDetails(q *models.QuestionWithDetails, pdfURL string) QuestionResponse {
	if q == nil {
		return QuestionResponse{}
	}
	return QuestionResponse{
		ID:                  q.ID,
		Status:              string(q.Status),
		StatusReason:        q.StatusReason,
		DuplicateOf:         q.DuplicateOf,
		DepartmentID:        q.DepartmentID,
		DepartmentName:      q.DepartmentName,
		DepartmentShortName: q.DepartmentShortName,
		CourseID:            q.CourseID,
		CourseName:          q.CourseName,
		SemesterID:          q.SemesterID,
		SemesterName:        q.SemesterName,
		ExamTypeID:          q.ExamTypeID,
		ExamTypeName:        q.ExamTypeName,
		UploaderName:        q.UploaderName,
		UploaderUsername:    q.UploaderUsername,
		PDFURL:              pdfURL,
		PDFFileSizeBytes:    q.PDFFileSizeBytes,
		ViewCount:           q.ViewCount,
		CreatedAt:           q.CreatedAt,
		UpdatedAt:           q.UpdatedAt,
	}
}

// ModerationQueueResponse is the pending-review listing with per-status
// totals for the moderation dashboard.
type ModerationQueueResponse struct {
	Questions  []QuestionResponse `json:"questions"`
	Pagination helpers.Pagination `json:"pagination"`
	Counts     map[string]int64   `json:"counts"`
}
