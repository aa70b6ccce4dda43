package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionStatusValid(t *testing.T) {
	assert.True(t, StatusPublished.Valid())
	assert.True(t, StatusPendingReview.Valid())
	assert.True(t, StatusRejected.Valid())
	assert.False(t, QuestionStatus("archived").Valid())
	assert.False(t, QuestionStatus("").Valid())
}

func TestQuestionStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to QuestionStatus
		want     bool
	}{
		{StatusPendingReview, StatusPublished, true},
		{StatusPendingReview, StatusRejected, true},
		{StatusPublished, StatusPendingReview, true},
		{StatusRejected, StatusPendingReview, true},

		{StatusPublished, StatusRejected, false},
		{StatusRejected, StatusPublished, false},
		{StatusPublished, StatusPublished, false},
		{StatusPendingReview, StatusPendingReview, false},
		{QuestionStatus("archived"), StatusPublished, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}
