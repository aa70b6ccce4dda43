package dto

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	Name      string `json:"name" binding:"required"`
	ShortName string `json:"shortName" binding:"required"`
}

// UpdateDepartmentRequest represents a department rename; absent fields
// are left untouched.
type UpdateDepartmentRequest struct {
	Name      *string `json:"name,omitempty"`
	ShortName *string `json:"shortName,omitempty"`
}

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	DepartmentID int64  `json:"departmentId" binding:"required,min=1"`
	Name         string `json:"name" binding:"required"`
}

// UpdateCourseRequest represents a course edit; absent fields are left
// untouched.
type UpdateCourseRequest struct {
	DepartmentID *int64  `json:"departmentId,omitempty" binding:"omitempty,min=1"`
	Name         *string `json:"name,omitempty"`
}

// NameRequest covers the name-only lookup tables (semesters, exam types)
type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

// MergeRequest redirects every reference from the addressed row onto
// TargetID before the addressed row is removed.
type MergeRequest struct {
	TargetID int64 `json:"targetId" binding:"required,min=1"`
}

// MergeResponse reports how many rows were redirected
type MergeResponse struct {
	MigratedQuestions int64 `json:"migratedQuestions"`
	MigratedCourses   int64 `json:"migratedCourses,omitempty"`
}
