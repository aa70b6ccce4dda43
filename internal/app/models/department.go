package models

import "time"

// Department is a top-level lookup table. Courses and questions reference it.
type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"shortName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DepartmentWithCounts adds reference counts for admin listings; a
// department with no courses or questions simply carries zeros.
type DepartmentWithCounts struct {
	Department
	CourseCount   int64 `json:"courseCount"`
	QuestionCount int64 `json:"questionCount"`
}
