package models

import "time"

// ExamType is a lookup table: Mid, Final, Quiz, Retake and so on.
type ExamType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExamTypeWithCounts adds the question reference count.
type ExamTypeWithCounts struct {
	ExamType
	QuestionCount int64 `json:"questionCount"`
}
