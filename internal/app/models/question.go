package models

import "time"

// QuestionStatus is the moderation state of an uploaded paper.
type QuestionStatus string

const (
	StatusPublished     QuestionStatus = "published"
	StatusPendingReview QuestionStatus = "pending_review"
	StatusRejected      QuestionStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s QuestionStatus) Valid() bool {
	switch s {
	case StatusPublished, StatusPendingReview, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the moderation state machine allows
// moving from s to next. Publishing and rejecting happen out of review;
// a published question goes back to review when an edit makes it a
// duplicate of another paper, and a rejected one when its uploader
// edits it (resubmission).
func (s QuestionStatus) CanTransitionTo(next QuestionStatus) bool {
	switch s {
	case StatusPendingReview:
		return next == StatusPublished || next == StatusRejected
	case StatusPublished:
		return next == StatusPendingReview
	case StatusRejected:
		return next == StatusPendingReview
	}
	return false
}

// Question is an uploaded exam paper. The PDF itself lives in object
// storage; only its key and size are stored here.
type Question struct {
	ID               int64          `json:"id"`
	UserID           string         `json:"userId"`
	DepartmentID     int64          `json:"departmentId"`
	CourseID         int64          `json:"courseId"`
	SemesterID       int64          `json:"semesterId"`
	ExamTypeID       int64          `json:"examTypeId"`
	Status           QuestionStatus `json:"status"`
	StatusReason     *string        `json:"statusReason,omitempty"`
	DuplicateOf      *int64         `json:"duplicateOf,omitempty"`
	PDFKey           string         `json:"pdfKey"`
	PDFFileSizeBytes int64          `json:"pdfFileSizeBytes"`
	ViewCount        int64          `json:"viewCount"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// QuestionWithDetails joins the lookup-table names and the uploader for
// catalog and admin listings.
type QuestionWithDetails struct {
	Question
	DepartmentName      string `json:"departmentName"`
	DepartmentShortName string `json:"departmentShortName"`
	CourseName          string `json:"courseName"`
	SemesterName        string `json:"semesterName"`
	ExamTypeName        string `json:"examTypeName"`
	UploaderName        string `json:"uploaderName"`
	UploaderUsername    string `json:"uploaderUsername"`
}
