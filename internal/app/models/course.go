package models

import "time"

// Course belongs to a department. The same course name may exist under
// different departments; (departmentId, name) is unique case-insensitively.
type Course struct {
	ID           int64     `json:"id"`
	DepartmentID int64     `json:"departmentId"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CourseWithDetails denormalizes the owning department for display.
type CourseWithDetails struct {
	Course
	DepartmentName      string `json:"departmentName"`
	DepartmentShortName string `json:"departmentShortName"`
	QuestionCount       int64  `json:"questionCount"`
}
